// Command genmock generates synthetic zone table fixtures and the reports the
// statistics engine computes for them. It runs the real engine and presenter
// so the report fixture matches service behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -zones DRGC2HUF,GUNC2LF \
//	  -table-out data/mock/zone_tables.json \
//	  -report-out data/mock/zone_reports.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/swe-compare-service/internal/domain"
	"github.com/couchcryptid/swe-compare-service/internal/heatmap"
	"github.com/couchcryptid/swe-compare-service/internal/observability"
	"github.com/couchcryptid/swe-compare-service/internal/stats"
	"github.com/jonboulle/clockwork"
)

var startDate = time.Date(2020, time.October, 1, 0, 0, 0, 0, time.UTC)

// product describes how a dataset's synthetic snowpack differs from the
// zone's underlying season.
type product struct {
	dataset domain.Dataset
	shift   float64 // peak offset in days
	scale   float64 // peak multiplier
	width   float64 // melt width multiplier
	noise   float64 // daily noise, mm
}

var products = []product{
	{domain.Snow17, 0, 1.00, 1.00, 2},
	{domain.ISnobal, 4, 0.92, 0.95, 3},
	{domain.SNODAS, -3, 1.10, 1.05, 4},
	{domain.UArizona, 2, 0.85, 1.10, 3},
	{domain.CUBoulder, 6, 0.95, 0.90, 5},
	{domain.ASO, 0, 1.00, 1.00, 0},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	zoneList := flag.String("zones", "DRGC2HUF,GUNC2LF,CLSC2HF", "comma-separated zone names")
	endYear := flag.Int("end-year", 2024, "last water year to generate")
	seed := flag.Uint64("seed", 42, "random seed")
	tableOut := flag.String("table-out", "", "output path for the zone table fixture")
	reportOut := flag.String("report-out", "", "output path for the report fixture")
	flag.Parse()

	if *tableOut == "" || *reportOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -table-out, -report-out")
	}

	// Set a fixed clock for reproducible ComputedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.October, 2, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	days := int(domain.WaterYearEnd(*endYear).Sub(startDate).Hours() / 24)

	var tables []domain.ZoneTable //nolint:prealloc // zones come from a flag
	for _, zone := range strings.Split(*zoneList, ",") {
		zone = strings.TrimSpace(zone)
		if zone == "" {
			continue
		}
		tables = append(tables, synthesize(zone, days, rng))
	}

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewUnregisteredMetrics()
	agg := stats.NewAggregator(stats.NewCalculator(domain.Inches), domain.DefaultComparison)
	engine := stats.NewEngine(stats.Partitioner{Start: startDate, EndYear: *endYear}, agg, 4, quiet, metrics)
	presenter := heatmap.NewPresenter(domain.Inches)

	results, err := engine.ComputeAll(context.Background(), tables)
	if err != nil {
		return fmt.Errorf("computing statistics: %w", err)
	}
	reports := make([]heatmap.Report, 0, len(results))
	for _, r := range results {
		reports = append(reports, presenter.Report(r, domain.DefaultComparison))
	}

	if err := writeJSON(*tableOut, tables); err != nil {
		return fmt.Errorf("writing table fixture: %w", err)
	}
	log.Printf("wrote table fixture: %s (%d zones, %d days)", *tableOut, len(tables), days)

	if err := writeJSON(*reportOut, reports); err != nil {
		return fmt.Errorf("writing report fixture: %w", err)
	}
	log.Printf("wrote report fixture: %s", *reportOut)

	printStats(reports)
	return nil
}

// synthesize builds a multi-year table where every product follows the same
// seasonal curve with its own bias, timing, and noise.
func synthesize(zone string, days int, rng *rand.Rand) domain.ZoneTable {
	table := domain.ZoneTable{Zone: zone}
	for _, p := range products {
		table.Columns = append(table.Columns, p.dataset)
	}

	peaks := map[int]float64{}
	for i := 0; i < days; i++ {
		date := startDate.AddDate(0, 0, i)
		wy := domain.WaterYear(date)
		peak, ok := peaks[wy]
		if !ok {
			peak = 250 + rng.Float64()*300
			peaks[wy] = peak
		}
		day := date.Sub(domain.WaterYearStart(wy)).Hours() / 24

		row := domain.DailySWE{Date: date}
		for _, p := range products {
			x := (day - (170 + p.shift)) / (32 * p.width)
			v := p.scale*peak*math.Exp(-x*x/2) + rng.NormFloat64()*p.noise
			row.SetValue(p.dataset, math.Max(0, v))
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(reports []heatmap.Report) {
	fmt.Println("\n=== Stats for updating test assertions ===")
	for _, r := range reports {
		fmt.Printf("%s: %d years, %d pair failures\n", r.Zone, len(r.Figures), len(r.Failures))
		for _, fig := range r.Figures {
			fmt.Printf("  WY%d", fig.Year)
			for _, panel := range fig.Panels {
				// Bottom-left cell compares the last dataset against the first.
				c := panel.Cells[len(panel.Cells)-1][0]
				fmt.Printf(" %s=%s", panel.Metric, c.Text)
			}
			fmt.Println()
		}
	}
}
