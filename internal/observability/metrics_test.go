package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnregisteredMetrics_Independent(t *testing.T) {
	a := NewUnregisteredMetrics()
	b := NewUnregisteredMetrics()

	a.YearsComputed.Add(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(a.YearsComputed))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.YearsComputed))
}

func TestNewUnregisteredMetrics_RegistersIntoOwnRegistry(t *testing.T) {
	m := NewUnregisteredMetrics()
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(m.YearsComputed))

	m.PairFailures.WithLabelValues("degenerate").Inc()
	require.NoError(t, reg.Register(m.PairFailures))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "swe_compare_water_years_computed_total")
	assert.Contains(t, names, "swe_compare_pair_failures_total")
}

func TestCollectors_CoversEveryMetric(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() { reg.MustRegister(NewUnregisteredMetrics().collectors()...) })
	assert.Len(t, NewUnregisteredMetrics().collectors(), 11)
}
