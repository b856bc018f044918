// Command swestats computes pairwise SWE comparison reports for one or more
// zones and prints them as JSON. Zone tables come from JSON files (a single
// table or an array of tables) or from the zone database.
//
// Usage:
//
//	go run ./cmd/swestats data/mock/zone_tables.json
//	go run ./cmd/swestats -db "$DATABASE_URL" -zones DRGC2HUF,GUNC2LF -units mm
//	go run ./cmd/swestats -db "$DATABASE_URL" -all -out reports.json
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/swe-compare-service/internal/adapter/postgres"
	"github.com/couchcryptid/swe-compare-service/internal/config"
	"github.com/couchcryptid/swe-compare-service/internal/domain"
	"github.com/couchcryptid/swe-compare-service/internal/heatmap"
	"github.com/couchcryptid/swe-compare-service/internal/observability"
	"github.com/couchcryptid/swe-compare-service/internal/stats"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "swestats:", err)
		os.Exit(1)
	}
}

type options struct {
	dbURL    string
	zones    []string
	all      bool
	datasets []domain.Dataset
	units    domain.Unit
	start    time.Time
	endYear  int
	workers  int
	out      string
	files    []string
	verbose  bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("swestats", flag.ContinueOnError)
	fs.SetOutput(stderr)

	dbURL := fs.String("db", os.Getenv("DATABASE_URL"), "zone database URL")
	zones := fs.String("zones", "", "comma-separated zones to load from the database")
	all := fs.Bool("all", false, "compute every zone in the database")
	datasets := fs.String("datasets", "Snow-17,iSnobal,SNODAS,UArizona", "ordered datasets to compare")
	units := fs.String("units", string(domain.Inches), "depth units for net and rmse (in or mm)")
	start := fs.String("start", "2020-10-01", "analysis start date")
	endYear := fs.Int("end-year", domain.WaterYear(domain.Now()), "last water year")
	workers := fs.Int("workers", runtime.NumCPU(), "concurrent zone/year computations")
	out := fs.String("out", "", "write reports to this file instead of stdout")
	verbose := fs.Bool("v", false, "log progress to stdout (needs -out)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts := &options{
		dbURL:   *dbURL,
		all:     *all,
		endYear: *endYear,
		workers: *workers,
		out:     *out,
		files:   fs.Args(),
		verbose: *verbose,
	}

	var err error
	if opts.datasets, err = config.ParseDatasets(*datasets); err != nil {
		return nil, err
	}
	if opts.units, err = domain.ParseUnit(*units); err != nil {
		return nil, err
	}
	if opts.start, err = time.Parse(domain.DateLayout, *start); err != nil {
		return nil, fmt.Errorf("invalid -start: %w", err)
	}
	if opts.endYear <= opts.start.Year() {
		return nil, fmt.Errorf("-end-year %d must be after the start year %d", opts.endYear, opts.start.Year())
	}
	if opts.verbose && opts.out == "" {
		return nil, errors.New("-v logs to stdout; use -out to write the reports to a file")
	}
	for _, z := range strings.Split(*zones, ",") {
		if z = strings.TrimSpace(z); z != "" {
			opts.zones = append(opts.zones, z)
		}
	}

	fromDB := len(opts.zones) > 0 || opts.all
	switch {
	case fromDB && len(opts.files) > 0:
		return nil, errors.New("use either table files or -zones/-all, not both")
	case fromDB && opts.dbURL == "":
		return nil, errors.New("-zones and -all need -db or DATABASE_URL")
	case !fromDB && len(opts.files) == 0:
		fs.Usage()
		return nil, errors.New("no zone tables given")
	}
	return opts, nil
}

// zoneSource is the part of the zone database the command reads.
type zoneSource interface {
	Zones(ctx context.Context) ([]string, error)
	LoadZone(ctx context.Context, zone string, from time.Time, datasets []domain.Dataset) (domain.ZoneTable, error)
	Close() error
}

var openSource = func(ctx context.Context, url string) (zoneSource, error) {
	src, err := postgres.Open(ctx, url)
	if err != nil {
		return nil, err
	}
	return src, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := "error"
	if opts.verbose {
		level = "debug"
	}
	logger := sharedobs.NewLogger(level, "text")

	tables, loadErrs, err := loadTables(ctx, opts, logger)
	if err != nil {
		return err
	}
	total := len(tables) + len(loadErrs)

	agg := stats.NewAggregator(stats.NewCalculator(opts.units), opts.datasets)
	partitioner := stats.Partitioner{Start: opts.start, EndYear: opts.endYear}
	engine := stats.NewEngine(partitioner, agg, opts.workers, logger, observability.NewUnregisteredMetrics())
	presenter := heatmap.NewPresenter(opts.units)

	results, computeErr := engine.ComputeAll(ctx, tables)
	reports := make([]heatmap.Report, 0, len(results))
	for _, r := range results {
		reports = append(reports, presenter.Report(r, opts.datasets))
	}

	if err := writeReports(opts.out, stdout, reports); err != nil {
		return err
	}
	if failed := total - len(results); failed > 0 {
		return fmt.Errorf("%d of %d zones failed: %w", failed, total, errors.Join(append(loadErrs, computeErr)...))
	}
	return nil
}

// loadTables returns the tables to compute. Zones that fail to load from the
// database are returned as per-zone errors and do not stop the others.
func loadTables(ctx context.Context, opts *options, logger *slog.Logger) ([]domain.ZoneTable, []error, error) {
	if len(opts.files) > 0 {
		var tables []domain.ZoneTable
		for _, path := range opts.files {
			ts, err := readTableFile(path)
			if err != nil {
				return nil, nil, err
			}
			tables = append(tables, ts...)
		}
		return tables, nil, nil
	}

	src, err := openSource(ctx, opts.dbURL)
	if err != nil {
		return nil, nil, err
	}
	defer src.Close()

	zones := opts.zones
	if opts.all {
		if zones, err = src.Zones(ctx); err != nil {
			return nil, nil, err
		}
	}
	tables, errs := loadZones(ctx, src, zones, opts, logger)
	return tables, errs, nil
}

func loadZones(ctx context.Context, src zoneSource, zones []string, opts *options, logger *slog.Logger) ([]domain.ZoneTable, []error) {
	tables := make([]domain.ZoneTable, 0, len(zones))
	var errs []error
	for _, z := range zones {
		t, err := src.LoadZone(ctx, z, opts.start, opts.datasets)
		if err != nil {
			logger.Warn("zone load failed", "zone", z, "error", err)
			errs = append(errs, err)
			continue
		}
		logger.Debug("zone loaded", "zone", z, "rows", len(t.Rows), "columns", t.Columns)
		tables = append(tables, t)
	}
	return tables, errs
}

// readTableFile accepts either one table object or an array of tables.
func readTableFile(path string) ([]domain.ZoneTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var tables []domain.ZoneTable
		if err := json.Unmarshal(data, &tables); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return tables, nil
	}
	var table domain.ZoneTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return []domain.ZoneTable{table}, nil
}

func writeReports(path string, stdout io.Writer, reports []heatmap.Report) error {
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "" {
		_, err = stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
