package stats

import "gonum.org/v1/gonum/integrate"

// area integrates samples taken at unit spacing (x = 0, 1, ..., n-1).
// Three or more samples use Simpson's rule with the same end correction as
// scipy for an even sample count; two samples fall back to the trapezoid rule
// and a single sample has no extent.
func area(y []float64) float64 {
	switch len(y) {
	case 0, 1:
		return 0
	case 2:
		return (y[0] + y[1]) / 2
	default:
		return integrate.Simpsons(indexAxis(len(y)), y)
	}
}

// indexAxis returns the day-index abscissa 0..n-1.
func indexAxis(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
	}
	return x
}
