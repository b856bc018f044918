package httpadapter

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/swe-compare-service/internal/domain"
	"github.com/couchcryptid/swe-compare-service/internal/heatmap"
	"github.com/couchcryptid/swe-compare-service/internal/observability"
	"github.com/couchcryptid/swe-compare-service/internal/stats"
)

const maxBodyBytes = 32 << 20

// ZoneLoader fetches a zone's merged daily table for datasets from from
// onwards.
type ZoneLoader interface {
	LoadZone(ctx context.Context, zone string, from time.Time, datasets []domain.Dataset) (domain.ZoneTable, error)
}

// StatisticsAPI serves zone statistics reports computed on request.
type StatisticsAPI struct {
	computer  stats.Computer
	presenter *heatmap.Presenter
	datasets  []domain.Dataset
	loader    ZoneLoader
	from      time.Time
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewStatisticsAPI creates the statistics handlers. loader may be nil, in
// which case zone lookups answer 404.
func NewStatisticsAPI(computer stats.Computer, presenter *heatmap.Presenter, datasets []domain.Dataset,
	loader ZoneLoader, from time.Time, metrics *observability.Metrics, logger *slog.Logger) *StatisticsAPI {
	return &StatisticsAPI{
		computer:  computer,
		presenter: presenter,
		datasets:  datasets,
		loader:    loader,
		from:      from,
		metrics:   metrics,
		logger:    logger,
	}
}

type errorBody struct {
	Error  string         `json:"error"`
	Column domain.Dataset `json:"column,omitempty"`
}

func (a *StatisticsAPI) handleCompute(w http.ResponseWriter, r *http.Request) {
	var table domain.ZoneTable
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&table); err != nil {
		a.fail(w, "body", fmt.Errorf("%w: %v", domain.ErrInvalidTable, err))
		return
	}
	a.respond(r.Context(), w, "body", table)
}

func (a *StatisticsAPI) handleZone(w http.ResponseWriter, r *http.Request) {
	zone := r.PathValue("zone")
	if a.loader == nil {
		a.metrics.APIRequests.WithLabelValues("database", "not_found").Inc()
		sharedobs.WriteJSON(w, http.StatusNotFound, errorBody{Error: "zone database is not configured"})
		return
	}

	table, err := a.loader.LoadZone(r.Context(), zone, a.from, a.datasets)
	if err != nil {
		a.fail(w, "database", err)
		return
	}
	a.respond(r.Context(), w, "database", table)
}

func (a *StatisticsAPI) respond(ctx context.Context, w http.ResponseWriter, source string, table domain.ZoneTable) {
	if table.Zone == "" {
		a.fail(w, source, fmt.Errorf("%w: zone is required", domain.ErrInvalidTable))
		return
	}
	result, err := a.computer.Compute(ctx, table)
	if err != nil {
		a.fail(w, source, err)
		return
	}
	a.metrics.APIRequests.WithLabelValues(source, "ok").Inc()
	sharedobs.WriteJSON(w, http.StatusOK, a.presenter.Report(result, a.datasets))
}

// fail maps err to a status code: missing columns are 422, malformed tables
// 400, unknown zones 404, anything else 500.
func (a *StatisticsAPI) fail(w http.ResponseWriter, source string, err error) {
	var mce *domain.MissingColumnError
	switch {
	case errors.As(err, &mce):
		a.metrics.APIRequests.WithLabelValues(source, "missing_column").Inc()
		sharedobs.WriteJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error(), Column: mce.Column})
	case errors.Is(err, domain.ErrInvalidTable):
		a.metrics.APIRequests.WithLabelValues(source, "invalid").Inc()
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, sql.ErrNoRows):
		a.metrics.APIRequests.WithLabelValues(source, "not_found").Inc()
		sharedobs.WriteJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	default:
		a.metrics.APIRequests.WithLabelValues(source, "error").Inc()
		a.logger.Error("statistics request failed", "source", source, "error", err)
		sharedobs.WriteJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}
