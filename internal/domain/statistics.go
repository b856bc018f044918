package domain

import (
	"math"
	"sort"
)

// PairwiseMetrics holds the five similarity scores for an ordered pair (A, B).
type PairwiseMetrics struct {
	Overlapping float64 `json:"overlapping"`
	TimingShift float64 `json:"timing_shift"`
	Magnitude   float64 `json:"magnitude"`
	Net         int     `json:"net"`
	RMSE        float64 `json:"rmse"`
}

// Metric identifies one of the five similarity scores.
type Metric string

const (
	MetricTimingShift Metric = "timing_shift"
	MetricOverlapping Metric = "overlapping"
	MetricMagnitude   Metric = "magnitude"
	MetricNet         Metric = "net"
	MetricRMSE        Metric = "rmse"
)

// Metrics lists every metric in presentation order.
var Metrics = []Metric{MetricTimingShift, MetricOverlapping, MetricMagnitude, MetricNet, MetricRMSE}

// Get returns the value of metric m as a float.
func (p PairwiseMetrics) Get(m Metric) float64 {
	switch m {
	case MetricTimingShift:
		return p.TimingShift
	case MetricOverlapping:
		return p.Overlapping
	case MetricMagnitude:
		return p.Magnitude
	case MetricNet:
		return float64(p.Net)
	case MetricRMSE:
		return p.RMSE
	default:
		return math.NaN()
	}
}

// Matrix is a square grid indexed by dataset on both axes. Values[i][j] holds
// metric(Labels[i], Labels[j]); NaN marks a cell whose computation failed.
type Matrix struct {
	Labels []Dataset
	Values [][]float64
}

// NewMatrix allocates an n×n matrix with every cell set to NaN.
func NewMatrix(labels []Dataset) Matrix {
	values := make([][]float64, len(labels))
	for i := range values {
		values[i] = make([]float64, len(labels))
		for j := range values[i] {
			values[i][j] = math.NaN()
		}
	}
	return Matrix{Labels: labels, Values: values}
}

// At returns the cell for the (row, col) dataset pair.
func (m Matrix) At(row, col Dataset) (float64, bool) {
	i, j := m.index(row), m.index(col)
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

func (m Matrix) index(d Dataset) int {
	for i, l := range m.Labels {
		if l == d {
			return i
		}
	}
	return -1
}

// YearlyMatrixSet is the five metric matrices for one zone and water year.
type YearlyMatrixSet struct {
	Year     int
	Datasets []Dataset
	Matrices map[Metric]Matrix
	Failures []*PairError
}

// NewYearlyMatrixSet allocates NaN-filled matrices for every metric.
func NewYearlyMatrixSet(year int, datasets []Dataset) *YearlyMatrixSet {
	set := &YearlyMatrixSet{
		Year:     year,
		Datasets: datasets,
		Matrices: make(map[Metric]Matrix, len(Metrics)),
	}
	for _, m := range Metrics {
		set.Matrices[m] = NewMatrix(datasets)
	}
	return set
}

// Set stores every metric of p at cell (i, j).
func (s *YearlyMatrixSet) Set(i, j int, p PairwiseMetrics) {
	for _, m := range Metrics {
		s.Matrices[m].Values[i][j] = p.Get(m)
	}
}

// Fill stores v at cell (i, j) for every metric.
func (s *YearlyMatrixSet) Fill(i, j int, v float64) {
	for _, m := range Metrics {
		s.Matrices[m].Values[i][j] = v
	}
}

// ZoneStatistics maps water year to that year's matrices for one zone.
type ZoneStatistics struct {
	Zone  string
	Years map[int]*YearlyMatrixSet
}

// YearsDescending returns the computed water years, newest first.
func (z *ZoneStatistics) YearsDescending() []int {
	years := make([]int, 0, len(z.Years))
	for y := range z.Years {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// Failures collects the pair failures of every year, newest year first.
func (z *ZoneStatistics) Failures() []*PairError {
	var out []*PairError
	for _, y := range z.YearsDescending() {
		out = append(out, z.Years[y].Failures...)
	}
	return out
}
