package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/swe-compare-service/internal/domain"
	"github.com/couchcryptid/swe-compare-service/internal/heatmap"
	"github.com/couchcryptid/swe-compare-service/internal/stats"
)

// ReportTransformer implements Transformer by decoding a ZoneTable, computing
// its statistics, and presenting them as a Report.
type ReportTransformer struct {
	computer  stats.Computer
	presenter *heatmap.Presenter
	datasets  []domain.Dataset
	logger    *slog.Logger
}

// NewTransformer creates a ReportTransformer. datasets is echoed in each
// report as the comparison order.
func NewTransformer(computer stats.Computer, presenter *heatmap.Presenter, datasets []domain.Dataset, logger *slog.Logger) *ReportTransformer {
	return &ReportTransformer{
		computer:  computer,
		presenter: presenter,
		datasets:  datasets,
		logger:    logger,
	}
}

func (t *ReportTransformer) Transform(ctx context.Context, raw domain.RawEvent) (heatmap.Report, error) {
	table, err := DecodeZoneTable(raw)
	if err != nil {
		return heatmap.Report{}, err
	}

	result, err := t.computer.Compute(ctx, table)
	if err != nil {
		return heatmap.Report{}, err
	}

	report := t.presenter.Report(result, t.datasets)
	if n := len(report.Failures); n > 0 {
		t.logger.Info("report has unavailable pairs", "zone", report.Zone, "failures", n)
	}
	return report, nil
}

// DecodeZoneTable parses a raw message value. The message key names the zone
// when the payload omits it.
func DecodeZoneTable(raw domain.RawEvent) (domain.ZoneTable, error) {
	var table domain.ZoneTable
	if err := json.Unmarshal(raw.Value, &table); err != nil {
		return domain.ZoneTable{}, fmt.Errorf("decode zone table: %w", err)
	}
	if table.Zone == "" {
		table.Zone = string(raw.Key)
	}
	if table.Zone == "" {
		return domain.ZoneTable{}, fmt.Errorf("%w: zone is required", domain.ErrInvalidTable)
	}
	return table, nil
}
