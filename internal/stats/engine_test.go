package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/couchcryptid/swe-compare-service/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Compute_OmitsEmptyYears(t *testing.T) {
	// WY2021 and WY2022 only; WY2023 and WY2024 have no rows.
	table := seasonalTable("DRGC2HUF", wy2021Start, 730, domain.DefaultComparison)
	e := newTestEngine(2)

	result, err := e.Compute(context.Background(), table)
	require.NoError(t, err)

	assert.Equal(t, "DRGC2HUF", result.Zone)
	assert.Equal(t, []int{2022, 2021}, result.YearsDescending())
	assert.NotContains(t, result.Years, 2023)
	assert.NotContains(t, result.Years, 2024)
	assert.Equal(t, 2.0, testutil.ToFloat64(e.metrics.YearsComputed))
}

func TestEngine_Compute_MissingColumn(t *testing.T) {
	for _, missing := range domain.DefaultComparison {
		t.Run(string(missing), func(t *testing.T) {
			var present []domain.Dataset
			for _, d := range domain.CanonicalDatasets {
				if d != missing {
					present = append(present, d)
				}
			}
			table := seasonalTable("DRGC2HUF", wy2021Start, 365, present)

			result, err := newTestEngine(2).Compute(context.Background(), table)
			assert.Nil(t, result)

			var mce *domain.MissingColumnError
			require.ErrorAs(t, err, &mce)
			assert.Equal(t, missing, mce.Column)
			assert.Equal(t, "DRGC2HUF", mce.Zone)
		})
	}
}

func TestEngine_Compute_InvalidTable(t *testing.T) {
	table := seasonalTable("DRGC2HUF", wy2021Start, 10, domain.DefaultComparison)
	table.Rows[5].Date = table.Rows[4].Date

	_, err := newTestEngine(1).Compute(context.Background(), table)
	require.ErrorIs(t, err, domain.ErrInvalidTable)
}

func TestEngine_Compute_RecordsPairFailuresWithoutAborting(t *testing.T) {
	table := seasonalTable("DRGC2HUF", wy2021Start, 730, domain.DefaultComparison)
	// Zero out iSnobal in WY2022 only.
	for i := range table.Rows {
		if domain.WaterYear(table.Rows[i].Date) == 2022 {
			table.Rows[i].ISnobal = 0
		}
	}
	e := newTestEngine(2)

	result, err := e.Compute(context.Background(), table)
	require.NoError(t, err)

	require.Contains(t, result.Years, 2022)
	require.Contains(t, result.Years, 2021)
	assert.Len(t, result.Years[2022].Failures, 6)
	assert.Empty(t, result.Years[2021].Failures)
	assert.Len(t, result.Failures(), 6)
	assert.Equal(t, 6.0, testutil.ToFloat64(e.metrics.PairFailures.WithLabelValues("degenerate")))
}

func TestEngine_Compute_ConcurrencyMatchesSequential(t *testing.T) {
	table := seasonalTable("DRGC2HUF", wy2021Start, 4*365, domain.DefaultComparison)

	seq, err := newTestEngine(1).Compute(context.Background(), table)
	require.NoError(t, err)
	par, err := newTestEngine(8).Compute(context.Background(), table)
	require.NoError(t, err)

	opts := cmp.Options{
		cmpopts.EquateNaNs(),
		cmpopts.IgnoreFields(domain.YearlyMatrixSet{}, "Failures"),
	}
	if diff := cmp.Diff(seq, par, opts); diff != "" {
		t.Errorf("parallel result differs (-seq +par):\n%s", diff)
	}
}

func TestEngine_Compute_CancelledContext(t *testing.T) {
	table := seasonalTable("DRGC2HUF", wy2021Start, 365, domain.DefaultComparison)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestEngine(1).Compute(ctx, table)
	require.ErrorIs(t, err, context.Canceled)
}

func TestEngine_ComputeAll_PartialResults(t *testing.T) {
	good := seasonalTable("DRGC2HUF", wy2021Start, 365, domain.DefaultComparison)
	other := seasonalTable("GUNC2LF", wy2021Start, 365, domain.DefaultComparison)
	bad := seasonalTable("CLSC2HF", wy2021Start, 365, []domain.Dataset{domain.Snow17, domain.ISnobal})

	results, err := newTestEngine(4).ComputeAll(context.Background(), []domain.ZoneTable{good, bad, other})

	require.Error(t, err)
	var mce *domain.MissingColumnError
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, "CLSC2HF", mce.Zone)

	require.Len(t, results, 2)
	assert.Equal(t, "DRGC2HUF", results[0].Zone)
	assert.Equal(t, "GUNC2LF", results[1].Zone)
}
