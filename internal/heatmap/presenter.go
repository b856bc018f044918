// Package heatmap turns metric matrices into the masked, labelled grids the
// dashboard renders as one heatmap per metric.
package heatmap

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/swe-compare-service/internal/domain"
)

// UnavailableText labels a visible cell whose pair computation failed.
const UnavailableText = "n/a"

// Cell is one grid position. Value is nil when the cell is masked or
// unavailable; otherwise it holds the matrix value unchanged.
type Cell struct {
	Value       *float64 `json:"value"`
	Text        string   `json:"text"`
	Unavailable bool     `json:"unavailable,omitempty"`
}

// Panel is the visible grid for one metric.
type Panel struct {
	Metric  domain.Metric    `json:"metric"`
	Axis    Axis             `json:"axis"`
	Rows    []domain.Dataset `json:"rows"`
	Columns []domain.Dataset `json:"columns"`
	Cells   [][]Cell         `json:"cells"`
}

// Figure holds every metric panel for one zone and water year.
type Figure struct {
	Zone   string  `json:"zone"`
	Year   int     `json:"year"`
	Panels []Panel `json:"panels"`
}

// Failure is a pair failure as carried in a report.
type Failure struct {
	Year   int            `json:"year"`
	A      domain.Dataset `json:"a"`
	B      domain.Dataset `json:"b"`
	Reason string         `json:"reason"`
	Error  string         `json:"error"`
}

// Report is everything the dashboard needs for one zone.
type Report struct {
	Zone       string           `json:"zone"`
	ComputedAt time.Time        `json:"computed_at"`
	Units      domain.Unit      `json:"units"`
	Datasets   []domain.Dataset `json:"datasets"`
	Figures    []Figure         `json:"figures"`
	Failures   []Failure        `json:"failures,omitempty"`
}

// Presenter masks and subsets metric matrices for display.
type Presenter struct {
	units domain.Unit
}

// NewPresenter creates a Presenter labelling depth metrics in units.
func NewPresenter(units domain.Unit) *Presenter {
	if units == "" {
		units = domain.Inches
	}
	return &Presenter{units: units}
}

// Present builds one panel per metric. The upper triangle and diagonal are
// blanked because cell (i, j) for j ≥ i repeats (j, i); the first row and last
// column are then dropped since nothing visible remains in them.
func (p *Presenter) Present(zone string, set *domain.YearlyMatrixSet) Figure {
	fig := Figure{Zone: zone, Year: set.Year, Panels: make([]Panel, 0, len(domain.Metrics))}
	for _, m := range domain.Metrics {
		fig.Panels = append(fig.Panels, p.panel(m, set.Matrices[m]))
	}
	return fig
}

// PresentZone returns one figure per water year, newest first.
func (p *Presenter) PresentZone(stats *domain.ZoneStatistics) []Figure {
	years := stats.YearsDescending()
	figs := make([]Figure, 0, len(years))
	for _, y := range years {
		figs = append(figs, p.Present(stats.Zone, stats.Years[y]))
	}
	return figs
}

// Report wraps a zone's figures and pair failures with the computation time.
func (p *Presenter) Report(stats *domain.ZoneStatistics, datasets []domain.Dataset) Report {
	r := Report{
		Zone:       stats.Zone,
		ComputedAt: domain.Now(),
		Units:      p.units,
		Datasets:   datasets,
		Figures:    p.PresentZone(stats),
	}
	for _, f := range stats.Failures() {
		r.Failures = append(r.Failures, Failure{
			Year:   f.Year,
			A:      f.A,
			B:      f.B,
			Reason: f.Reason(),
			Error:  f.Err.Error(),
		})
	}
	return r
}

func (p *Presenter) panel(m domain.Metric, mx domain.Matrix) Panel {
	n := len(mx.Labels)
	panel := Panel{Metric: m, Axis: AxisFor(m, p.units)}
	if n < 2 {
		return panel
	}

	panel.Rows = mx.Labels[1:n]
	panel.Columns = mx.Labels[0 : n-1]
	panel.Cells = make([][]Cell, 0, n-1)
	for i := 1; i < n; i++ {
		row := make([]Cell, 0, n-1)
		for j := 0; j < n-1; j++ {
			row = append(row, cell(mx.Values[i][j], j >= i))
		}
		panel.Cells = append(panel.Cells, row)
	}
	return panel
}

func cell(v float64, masked bool) Cell {
	switch {
	case masked:
		return Cell{}
	case math.IsNaN(v):
		return Cell{Text: UnavailableText, Unavailable: true}
	default:
		return Cell{Value: &v, Text: FormatValue(v)}
	}
}

// FormatValue renders a metric value the way the dashboard labels cells:
// shortest round-trip decimal, with ".0" kept on whole numbers.
func FormatValue(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if math.IsInf(v, 0) || strings.Contains(s, ".") {
		return s
	}
	return s + ".0"
}
