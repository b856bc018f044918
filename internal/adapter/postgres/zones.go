// Package postgres loads merged zonal SWE tables from the shared SWE database.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/couchcryptid/swe-compare-service/internal/domain"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const zoneQuery = `SELECT
	date, snow17, isnobal, snodas, uarizona, cu_boulder, aso
FROM zonal_swe_merged
WHERE zone_name = $1 AND date >= $2
ORDER BY date`

const zoneNamesQuery = `SELECT DISTINCT zone_name FROM zonal_swe_merged ORDER BY zone_name`

// sweRow is one row of the zonal_swe_merged view. Each product column is NULL
// on days the product has no estimate for the zone.
type sweRow struct {
	Date      time.Time       `db:"date"`
	Snow17    sql.NullFloat64 `db:"snow17"`
	ISnobal   sql.NullFloat64 `db:"isnobal"`
	SNODAS    sql.NullFloat64 `db:"snodas"`
	UArizona  sql.NullFloat64 `db:"uarizona"`
	CUBoulder sql.NullFloat64 `db:"cu_boulder"`
	ASO       sql.NullFloat64 `db:"aso"`
}

func (r sweRow) value(d domain.Dataset) sql.NullFloat64 {
	switch d {
	case domain.Snow17:
		return r.Snow17
	case domain.ISnobal:
		return r.ISnobal
	case domain.SNODAS:
		return r.SNODAS
	case domain.UArizona:
		return r.UArizona
	case domain.CUBoulder:
		return r.CUBoulder
	case domain.ASO:
		return r.ASO
	default:
		return sql.NullFloat64{}
	}
}

// ZoneSource reads zone tables from Postgres.
type ZoneSource struct {
	db *sqlx.DB
}

// Open connects to the database at url and verifies the connection.
func Open(ctx context.Context, url string) (*ZoneSource, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, fmt.Errorf("connect to swe database: %w", err)
	}
	return NewZoneSource(db), nil
}

// NewZoneSource wraps an existing connection pool.
func NewZoneSource(db *sqlx.DB) *ZoneSource {
	return &ZoneSource{db: db}
}

// LoadZone returns the zone's daily table for datasets from from onwards.
// A requested dataset becomes a column when the zone has any value for it.
// Days on which any column is NULL are dropped, so a gap costs only the
// affected days and never gets filled. A zone with no rows yields
// sql.ErrNoRows.
func (s *ZoneSource) LoadZone(ctx context.Context, zone string, from time.Time, datasets []domain.Dataset) (domain.ZoneTable, error) {
	var rows []sweRow
	if err := s.db.SelectContext(ctx, &rows, zoneQuery, zone, from); err != nil {
		return domain.ZoneTable{}, fmt.Errorf("load zone %s: %w", zone, err)
	}
	if len(rows) == 0 {
		return domain.ZoneTable{}, fmt.Errorf("load zone %s: %w", zone, sql.ErrNoRows)
	}
	return pivot(zone, rows, datasets), nil
}

// Zones lists every zone name in the view.
func (s *ZoneSource) Zones(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.db.SelectContext(ctx, &names, zoneNamesQuery); err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	return names, nil
}

// CheckReadiness pings the database.
func (s *ZoneSource) CheckReadiness(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ZoneSource) Close() error {
	return s.db.Close()
}

func pivot(zone string, rows []sweRow, datasets []domain.Dataset) domain.ZoneTable {
	table := domain.ZoneTable{Zone: zone}
	for _, d := range datasets {
		if anyValue(rows, d) {
			table.Columns = append(table.Columns, d)
		}
	}

	for _, r := range rows {
		if !r.hasAll(table.Columns) {
			continue
		}
		y, m, dd := r.Date.Date()
		day := domain.DailySWE{Date: time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)}
		for _, d := range table.Columns {
			day.SetValue(d, r.value(d).Float64)
		}
		table.Rows = append(table.Rows, day)
	}
	return table
}

func (r sweRow) hasAll(ds []domain.Dataset) bool {
	for _, d := range ds {
		if !r.value(d).Valid {
			return false
		}
	}
	return true
}

func anyValue(rows []sweRow, d domain.Dataset) bool {
	for _, r := range rows {
		if r.value(d).Valid {
			return true
		}
	}
	return false
}
