package stats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/swe-compare-service/internal/domain"
	"github.com/couchcryptid/swe-compare-service/internal/observability"
	"golang.org/x/sync/errgroup"
)

// Engine computes a zone's statistics for every water year in the analysis
// window. Years are independent and run on a bounded worker pool.
type Engine struct {
	partitioner Partitioner
	aggregator  *Aggregator
	workers     int
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// NewEngine creates an Engine. workers < 1 runs one year at a time.
func NewEngine(p Partitioner, a *Aggregator, workers int, logger *slog.Logger, metrics *observability.Metrics) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{
		partitioner: p,
		aggregator:  a,
		workers:     workers,
		logger:      logger,
		metrics:     metrics,
	}
}

// Compute validates table, checks the comparison columns, and aggregates each
// non-empty water year. Pair failures are recorded per year and never abort
// other years; invalid tables and missing columns are returned as errors.
func (e *Engine) Compute(ctx context.Context, table domain.ZoneTable) (*domain.ZoneStatistics, error) {
	start := time.Now()

	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("zone %s: %w", table.Zone, err)
	}
	if err := table.Require(e.aggregator.Datasets()); err != nil {
		return nil, err
	}

	windows := e.partitioner.Windows(table)
	sets := make([]*domain.YearlyMatrixSet, len(windows))

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, w := range windows {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			set, err := e.aggregator.Aggregate(table.Zone, w)
			if err != nil {
				return fmt.Errorf("zone %s WY%d: %w", table.Zone, w.Year, err)
			}
			sets[i] = set
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &domain.ZoneStatistics{
		Zone:  table.Zone,
		Years: make(map[int]*domain.YearlyMatrixSet, len(sets)),
	}
	for _, set := range sets {
		result.Years[set.Year] = set
		e.metrics.YearsComputed.Inc()
		for _, f := range set.Failures {
			e.metrics.PairFailures.WithLabelValues(f.Reason()).Inc()
			e.logger.Warn("pair metrics unavailable",
				"zone", f.Zone,
				"year", f.Year,
				"a", f.A,
				"b", f.B,
				"error", f.Err,
			)
		}
	}

	e.metrics.ZoneComputeDuration.Observe(time.Since(start).Seconds())
	e.logger.Debug("zone statistics computed",
		"zone", table.Zone,
		"years", len(result.Years),
		"rows", len(table.Rows),
	)
	return result, nil
}

// ComputeAll computes every zone concurrently. Zones that fail are left out of
// the result and reported together in the joined error; the others still
// return.
func (e *Engine) ComputeAll(ctx context.Context, tables []domain.ZoneTable) ([]*domain.ZoneStatistics, error) {
	results := make([]*domain.ZoneStatistics, len(tables))
	errs := make([]error, len(tables))

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, table := range tables {
		g.Go(func() error {
			results[i], errs[i] = e.Compute(ctx, table)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]*domain.ZoneStatistics, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out, errors.Join(errs...)
}
