package stats

import (
	"github.com/couchcryptid/swe-compare-service/internal/domain"
)

// DiagonalPlaceholder fills every self-comparison cell. It is not the identity
// of every metric (timing_shift's identity is 0), but the dashboard masks the
// diagonal and existing consumers expect 1.
const DiagonalPlaceholder = 1.0

// Aggregator builds the five metric matrices for one water-year window.
type Aggregator struct {
	calc     *Calculator
	datasets []domain.Dataset
	diagonal float64
}

// NewAggregator compares datasets in the given order; the first is the reference.
func NewAggregator(calc *Calculator, datasets []domain.Dataset) *Aggregator {
	return &Aggregator{
		calc:     calc,
		datasets: datasets,
		diagonal: DiagonalPlaceholder,
	}
}

// Datasets returns the ordered comparison list.
func (a *Aggregator) Datasets() []domain.Dataset { return a.datasets }

// Aggregate runs the calculator over every ordered pair of distinct datasets.
// A missing column fails the whole window; a failed pair leaves NaN cells and
// is recorded in the set's Failures.
func (a *Aggregator) Aggregate(zone string, w YearWindow) (*domain.YearlyMatrixSet, error) {
	series := make([][]float64, len(a.datasets))
	for i, d := range a.datasets {
		s, err := w.Table.Series(d)
		if err != nil {
			return nil, err
		}
		series[i] = s
	}

	set := domain.NewYearlyMatrixSet(w.Year, a.datasets)
	for i, da := range a.datasets {
		for j, db := range a.datasets {
			if i == j {
				set.Fill(i, j, a.diagonal)
				continue
			}
			metrics, err := a.calc.Compare(series[i], series[j])
			if err != nil {
				set.Failures = append(set.Failures, &domain.PairError{
					Zone: zone, Year: w.Year, A: da, B: db, Err: err,
				})
				continue
			}
			set.Set(i, j, metrics)
		}
	}
	return set, nil
}
