package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/couchcryptid/swe-compare-service/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Comparison settings.
	StartDate      time.Time
	EndYear        int
	Datasets       []domain.Dataset
	Units          domain.Unit
	ComputeWorkers int
	StatsCacheSize int

	// DatabaseURL enables the zonal SWE loader when set.
	DatabaseURL string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	startDate, err := time.Parse(domain.DateLayout, sharedcfg.EnvOrDefault("START_DATE", "2020-10-01"))
	if err != nil {
		return nil, fmt.Errorf("invalid START_DATE: %w", err)
	}

	endYear, err := parsePositiveInt("END_YEAR", domain.WaterYear(domain.Now()))
	if err != nil {
		return nil, err
	}
	if endYear <= startDate.Year() {
		return nil, fmt.Errorf("END_YEAR %d must be after the START_DATE year %d", endYear, startDate.Year())
	}

	datasets, err := ParseDatasets(sharedcfg.EnvOrDefault("DATASETS", joinDatasets(domain.DefaultComparison)))
	if err != nil {
		return nil, err
	}

	units, err := domain.ParseUnit(sharedcfg.EnvOrDefault("OUTPUT_UNITS", string(domain.Inches)))
	if err != nil {
		return nil, fmt.Errorf("invalid OUTPUT_UNITS: %w", err)
	}

	workers, err := parsePositiveInt("COMPUTE_WORKERS", runtime.NumCPU())
	if err != nil {
		return nil, err
	}

	cacheSize, err := parsePositiveInt("STATS_CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "zone-swe-series"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "zone-swe-statistics"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "swe-compare"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		StartDate:      startDate,
		EndYear:        endYear,
		Datasets:       datasets,
		Units:          units,
		ComputeWorkers: workers,
		StatsCacheSize: cacheSize,

		DatabaseURL: os.Getenv("DATABASE_URL"),
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}

	return cfg, nil
}

// ParseDatasets parses a comma-separated, ordered dataset list. At least two
// distinct canonical names are required.
func ParseDatasets(s string) ([]domain.Dataset, error) {
	var out []domain.Dataset
	seen := make(map[domain.Dataset]bool)
	for _, part := range strings.Split(s, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		d, err := domain.ParseDataset(name)
		if err != nil {
			return nil, fmt.Errorf("invalid DATASETS: %w", err)
		}
		if seen[d] {
			return nil, fmt.Errorf("invalid DATASETS: %q listed twice", d)
		}
		seen[d] = true
		out = append(out, d)
	}
	if len(out) < 2 {
		return nil, errors.New("invalid DATASETS: at least two datasets are required")
	}
	return out, nil
}

func joinDatasets(ds []domain.Dataset) string {
	names := make([]string, len(ds))
	for i, d := range ds {
		names[i] = string(d)
	}
	return strings.Join(names, ",")
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}
