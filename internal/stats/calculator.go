package stats

import (
	"fmt"
	"math"

	"github.com/couchcryptid/swe-compare-service/internal/domain"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// Calculator computes the similarity metrics for one pair of aligned series.
type Calculator struct {
	units domain.Unit
}

// NewCalculator creates a Calculator reporting net and rmse in units.
func NewCalculator(units domain.Unit) *Calculator {
	if units == "" {
		units = domain.Inches
	}
	return &Calculator{units: units}
}

// Units returns the output unit for the depth-valued metrics.
func (c *Calculator) Units() domain.Unit { return c.units }

// Compare scores series b against series a. Both are daily values in mm over
// the same day index.
func (c *Calculator) Compare(a, b []float64) (domain.PairwiseMetrics, error) {
	n := len(a)
	if n != len(b) || n == 0 {
		return domain.PairwiseMetrics{}, fmt.Errorf("%w: %d vs %d samples", domain.ErrShapeMismatch, len(a), len(b))
	}

	areaA, areaB := area(a), area(b)
	if areaA == 0 || areaB == 0 {
		return domain.PairwiseMetrics{}, fmt.Errorf("%w: areas %g and %g", domain.ErrDegenerateSeries, areaA, areaB)
	}

	normA := divide(a, areaA)
	normB := divide(b, areaB)

	x := indexAxis(n)
	weighted := make([]float64, n)
	centroidA := area(floats.MulTo(weighted, x, normA))
	centroidB := area(floats.MulTo(weighted, x, normB))

	lower := make([]float64, n)
	for i := range lower {
		lower[i] = math.Min(normA[i], normB[i])
	}

	diff := floats.SubTo(make([]float64, n), b, a)
	rmse := math.Sqrt(floats.Dot(diff, diff) / float64(n))

	return domain.PairwiseMetrics{
		Overlapping: round2(area(lower)),
		TimingShift: round2(centroidA - centroidB),
		Magnitude:   round2(areaB / areaA),
		Net:         int(c.units.FromMillimetres(areaB - areaA)),
		RMSE:        round2(c.units.FromMillimetres(rmse)),
	}, nil
}

func divide(y []float64, d float64) []float64 {
	out := make([]float64, len(y))
	for i, v := range y {
		out[i] = v / d
	}
	return out
}

// round2 rounds half to even at two decimals.
func round2(v float64) float64 {
	return scalar.RoundEven(v, 2)
}
