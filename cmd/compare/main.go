package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/swe-compare-service/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/swe-compare-service/internal/adapter/kafka"
	"github.com/couchcryptid/swe-compare-service/internal/adapter/postgres"
	"github.com/couchcryptid/swe-compare-service/internal/config"
	"github.com/couchcryptid/swe-compare-service/internal/heatmap"
	"github.com/couchcryptid/swe-compare-service/internal/observability"
	"github.com/couchcryptid/swe-compare-service/internal/pipeline"
	"github.com/couchcryptid/swe-compare-service/internal/stats"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	calc := stats.NewCalculator(cfg.Units)
	agg := stats.NewAggregator(calc, cfg.Datasets)
	partitioner := stats.Partitioner{Start: cfg.StartDate, EndYear: cfg.EndYear}
	engine := stats.NewEngine(partitioner, agg, cfg.ComputeWorkers, logger, metrics)
	computer := stats.NewCachedEngine(engine, cfg.StatsCacheSize, metrics)
	presenter := heatmap.NewPresenter(cfg.Units)

	logger.Info("comparison configured",
		"datasets", cfg.Datasets,
		"start_date", cfg.StartDate.Format("2006-01-02"),
		"end_year", cfg.EndYear,
		"units", cfg.Units,
		"workers", cfg.ComputeWorkers,
	)

	// The zone database is optional; without it only POST /v1/statistics and
	// the Kafka pipeline serve requests.
	var loader httpadapter.ZoneLoader
	var zones *postgres.ZoneSource
	ready := httpadapter.AllReady{}
	if cfg.DatabaseURL != "" {
		zones, err = postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open zone database", "error", err)
			os.Exit(1)
		}
		loader = zones
		ready = append(ready, zones)
		logger.Info("zone database enabled")
	} else {
		logger.Info("zone database disabled")
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(computer, presenter, cfg.Datasets, logger)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)
	ready = append(ready, p)

	api := httpadapter.NewStatisticsAPI(computer, presenter, cfg.Datasets, loader, cfg.StartDate, metrics, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, ready, api, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start the statistics pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}
	if zones != nil {
		if err := zones.Close(); err != nil {
			logger.Error("zone database close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
