package stats

import (
	"math/rand/v2"
	"testing"

	"github.com/couchcryptid/swe-compare-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArea(t *testing.T) {
	t.Run("odd sample count is exact for quadratics", func(t *testing.T) {
		y := []float64{0, 1, 4, 9, 16}
		assert.InDelta(t, 64.0/3, area(y), 1e-12)
	})

	t.Run("even sample count uses end correction", func(t *testing.T) {
		y := []float64{0, 1, 4, 9}
		assert.InDelta(t, 9.0, area(y), 1e-12)
	})

	t.Run("two samples use trapezoid", func(t *testing.T) {
		assert.Equal(t, 3.0, area([]float64{2, 4}))
	})

	t.Run("single sample has no area", func(t *testing.T) {
		assert.Equal(t, 0.0, area([]float64{7}))
	})
}

func TestCompare_IdenticalConstantSeries(t *testing.T) {
	a := constant(365, 10)
	b := constant(365, 10)

	got, err := NewCalculator(domain.Inches).Compare(a, b)
	require.NoError(t, err)

	assert.Equal(t, domain.PairwiseMetrics{
		Overlapping: 1.0,
		TimingShift: 0.0,
		Magnitude:   1.0,
		Net:         0,
		RMSE:        0.0,
	}, got)
}

func TestCompare_TimingShift(t *testing.T) {
	a := pulse(365, 150, 20, 400)

	t.Run("b leads a by 10 days", func(t *testing.T) {
		b := pulse(365, 140, 20, 400)
		got, err := NewCalculator(domain.Inches).Compare(a, b)
		require.NoError(t, err)
		assert.InDelta(t, 10.0, got.TimingShift, 0.01)
		assert.InDelta(t, 1.0, got.Overlapping, 0.25)
		assert.Less(t, got.Overlapping, 1.0)
	})

	t.Run("b lags a by 10 days", func(t *testing.T) {
		b := pulse(365, 160, 20, 400)
		got, err := NewCalculator(domain.Inches).Compare(a, b)
		require.NoError(t, err)
		assert.InDelta(t, -10.0, got.TimingShift, 0.01)
	})
}

func TestCompare_DoubleMagnitude(t *testing.T) {
	a := pulse(365, 150, 25, 300)
	b := make([]float64, len(a))
	for i, v := range a {
		b[i] = 2 * v
	}

	got, err := NewCalculator(domain.Inches).Compare(a, b)
	require.NoError(t, err)

	assert.Equal(t, 2.0, got.Magnitude)
	assert.Equal(t, 1.0, got.Overlapping)
	assert.Equal(t, 0.0, got.TimingShift)
	assert.Equal(t, int(area(a)/domain.MillimetresPerInch), got.Net)
	assert.Positive(t, got.Net)
}

func TestCompare_Units(t *testing.T) {
	a := constant(101, 10)
	b := constant(101, 20)

	inches, err := NewCalculator(domain.Inches).Compare(a, b)
	require.NoError(t, err)
	mm, err := NewCalculator(domain.Millimetres).Compare(a, b)
	require.NoError(t, err)

	// Area difference is 10 mm/day over 100 days.
	assert.Equal(t, 1000, mm.Net)
	assert.Equal(t, 39, inches.Net)
	assert.Equal(t, 10.0, mm.RMSE)
	assert.Equal(t, 0.39, inches.RMSE)

	// Shape metrics are unit-free.
	assert.Equal(t, mm.Magnitude, inches.Magnitude)
	assert.Equal(t, mm.Overlapping, inches.Overlapping)
}

func TestCompare_NetTruncatesTowardZero(t *testing.T) {
	a := constant(101, 20)
	b := constant(101, 10)

	got, err := NewCalculator(domain.Inches).Compare(a, b)
	require.NoError(t, err)
	// -1000 mm = -39.37 in
	assert.Equal(t, -39, got.Net)
}

func TestCompare_DegenerateSeries(t *testing.T) {
	calc := NewCalculator(domain.Inches)

	_, err := calc.Compare(constant(30, 0), constant(30, 5))
	require.ErrorIs(t, err, domain.ErrDegenerateSeries)

	_, err = calc.Compare(constant(30, 5), constant(30, 0))
	require.ErrorIs(t, err, domain.ErrDegenerateSeries)

	_, err = calc.Compare([]float64{4}, []float64{4})
	require.ErrorIs(t, err, domain.ErrDegenerateSeries)
}

func TestCompare_ShapeMismatch(t *testing.T) {
	calc := NewCalculator(domain.Inches)

	_, err := calc.Compare(constant(30, 1), constant(29, 1))
	require.ErrorIs(t, err, domain.ErrShapeMismatch)

	_, err = calc.Compare(nil, nil)
	require.ErrorIs(t, err, domain.ErrShapeMismatch)
}

func TestCompare_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(17, 2022))
	calc := NewCalculator(domain.Inches)

	lengths := []int{3, 4, 5, 6, 365, 366}
	for range 50 {
		lengths = append(lengths, 3+rng.IntN(364))
	}

	for _, n := range lengths {
		a := make([]float64, n)
		b := make([]float64, n)
		for i := range a {
			a[i] = 1 + 500*rng.Float64()
			b[i] = 1 + 500*rng.Float64()
		}

		ab, err := calc.Compare(a, b)
		require.NoError(t, err)
		ba, err := calc.Compare(b, a)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, ab.Overlapping, 0.0)
		assert.LessOrEqual(t, ab.Overlapping, 1.0)
		assert.Equal(t, ab.Overlapping, ba.Overlapping)

		assert.Equal(t, ab.TimingShift, -ba.TimingShift)

		assert.InDelta(t, 1/ba.Magnitude, ab.Magnitude, 0.01*ab.Magnitude*ab.Magnitude+0.005)

		assert.Equal(t, ab.RMSE, ba.RMSE)
		assert.GreaterOrEqual(t, ab.RMSE, 0.0)
	}
}
