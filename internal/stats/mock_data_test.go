package stats

import (
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/couchcryptid/swe-compare-service/internal/domain"
	"github.com/couchcryptid/swe-compare-service/internal/observability"
)

var wy2021Start = time.Date(2020, time.October, 1, 0, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// pulse is a Gaussian snowpack peaking on day center.
func pulse(n int, center, width, peak float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		d := (float64(i) - center) / width
		out[i] = peak * math.Exp(-d*d/2)
	}
	return out
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// seasonalTable builds a daily table starting at start with one curve per
// dataset; curve i is a pulse peaking a few days later than curve i-1.
func seasonalTable(zone string, start time.Time, days int, datasets []domain.Dataset) domain.ZoneTable {
	table := domain.ZoneTable{Zone: zone, Columns: datasets}
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		row := domain.DailySWE{Date: date}
		dayOfYear := float64(date.Sub(domain.WaterYearStart(domain.WaterYear(date))).Hours() / 24)
		for k, d := range datasets {
			center := 170 + 6*float64(k)
			x := (dayOfYear - center) / (35 + 3*float64(k))
			row.SetValue(d, (300+40*float64(k))*math.Exp(-x*x/2))
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// tableFromSeries builds a single-window table from explicit columns.
func tableFromSeries(zone string, start time.Time, cols map[domain.Dataset][]float64, order []domain.Dataset) domain.ZoneTable {
	table := domain.ZoneTable{Zone: zone, Columns: order}
	n := len(cols[order[0]])
	for i := 0; i < n; i++ {
		row := domain.DailySWE{Date: start.AddDate(0, 0, i)}
		for _, d := range order {
			row.SetValue(d, cols[d][i])
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func newTestEngine(workers int) *Engine {
	p := Partitioner{Start: wy2021Start, EndYear: 2024}
	a := NewAggregator(NewCalculator(domain.Inches), domain.DefaultComparison)
	return NewEngine(p, a, workers, discardLogger(), observability.NewMetricsForTesting())
}
