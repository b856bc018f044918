package domain

import "fmt"

// MillimetresPerInch converts the stored SWE depths to inches.
const MillimetresPerInch = 25.4

// Unit is the output unit for the depth-valued metrics (net and rmse).
// Inputs are always millimetres.
type Unit string

const (
	Inches      Unit = "in"
	Millimetres Unit = "mm"
)

// ParseUnit accepts "in" or "mm".
func ParseUnit(s string) (Unit, error) {
	switch Unit(s) {
	case Inches, Millimetres:
		return Unit(s), nil
	default:
		return "", fmt.Errorf("unknown unit %q: want %q or %q", s, Inches, Millimetres)
	}
}

// FromMillimetres is the single conversion point for every depth metric.
func (u Unit) FromMillimetres(v float64) float64 {
	if u == Millimetres {
		return v
	}
	return v / MillimetresPerInch
}
