package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// statistics service.
type Metrics struct {
	MessagesConsumed prometheus.Counter
	ReportsProduced  prometheus.Counter
	TransformErrors  prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Statistics engine metrics.
	YearsComputed       prometheus.Counter
	PairFailures        *prometheus.CounterVec // labels: reason={degenerate,shape_mismatch,other}
	ZoneComputeDuration prometheus.Histogram
	StatsCache          *prometheus.CounterVec // labels: result={hit,miss}

	// HTTP API metrics.
	APIRequests *prometheus.CounterVec // labels: source={body,database}, outcome={ok,invalid,missing_column,not_found,error}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := NewUnregisteredMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewUnregisteredMetrics creates the service metrics without registering
// them anywhere. One-shot commands use it, and so can any caller that owns
// its own registry.
func NewUnregisteredMetrics() *Metrics {
	return &Metrics{
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swe_compare",
			Name:      "messages_consumed_total",
			Help:      "Total zone tables read from the source topic.",
		}),
		ReportsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swe_compare",
			Name:      "reports_produced_total",
			Help:      "Total statistics reports written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swe_compare",
			Name:      "transform_errors_total",
			Help:      "Total zone tables that could not be turned into a report.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "swe_compare",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "swe_compare",
			Name:      "batch_size",
			Help:      "Number of zone tables per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "swe_compare",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-compute-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		YearsComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swe_compare",
			Name:      "water_years_computed_total",
			Help:      "Total zone water years aggregated into metric matrices.",
		}),
		PairFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swe_compare",
			Name:      "pair_failures_total",
			Help:      "Dataset pairs whose metrics could not be computed, by reason.",
		}, []string{"reason"}),
		ZoneComputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "swe_compare",
			Name:      "zone_compute_duration_seconds",
			Help:      "Duration of computing all water years for one zone.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		StatsCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swe_compare",
			Name:      "stats_cache_total",
			Help:      "Zone statistics cache lookups by result.",
		}, []string{"result"}),
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swe_compare",
			Name:      "api_requests_total",
			Help:      "Statistics API requests by input source and outcome.",
		}, []string{"source", "outcome"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.MessagesConsumed,
		m.ReportsProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.YearsComputed,
		m.PairFailures,
		m.ZoneComputeDuration,
		m.StatsCache,
		m.APIRequests,
	}
}

// NewMetricsForTesting creates unregistered Metrics to avoid "already
// registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return NewUnregisteredMetrics()
}
