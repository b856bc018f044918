package heatmap

import (
	"fmt"

	"github.com/couchcryptid/swe-compare-service/internal/domain"
)

// Axis is the colour-axis contract for one metric panel. Renderers must apply
// it as given; the centring is part of the output format.
type Axis struct {
	Title      string   `json:"title"`
	ColorScale string   `json:"colorscale"`
	Mid        *float64 `json:"cmid,omitempty"`
	Min        *float64 `json:"cmin,omitempty"`
	Max        *float64 `json:"cmax,omitempty"`
}

// AxisFor returns the colour axis for metric m with depth metrics labelled in u.
func AxisFor(m domain.Metric, u domain.Unit) Axis {
	switch m {
	case domain.MetricTimingShift:
		return Axis{Title: "Timing Shift", ColorScale: "armyrose_r", Mid: ptr(0)}
	case domain.MetricOverlapping:
		return Axis{Title: "Overlapping Index", ColorScale: "tempo_r", Min: ptr(0.75), Max: ptr(1)}
	case domain.MetricMagnitude:
		return Axis{Title: "Area Magnitude", ColorScale: "tealrose_r", Mid: ptr(1)}
	case domain.MetricNet:
		return Axis{Title: fmt.Sprintf("Total Net (%s)", u), ColorScale: "tealrose_r", Mid: ptr(1)}
	case domain.MetricRMSE:
		return Axis{Title: fmt.Sprintf("RMSE (%s/day)", u), ColorScale: "tempo", Min: ptr(0)}
	default:
		return Axis{Title: string(m)}
	}
}

func ptr(v float64) *float64 { return &v }
