package domain

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"time"
)

// DateLayout is the wire format for row dates.
const DateLayout = "2006-01-02"

// DailySWE is one row of a zone's merged table: the date plus one SWE value
// (mm) per dataset. Only the columns listed in ZoneTable.Columns are meaningful.
type DailySWE struct {
	Date      time.Time
	Snow17    float64
	ISnobal   float64
	SNODAS    float64
	UArizona  float64
	CUBoulder float64
	ASO       float64

	// missing has bit datasetBit(d) set when a decoded row carried no value
	// for d. Rows built in code have every value.
	missing uint8
}

func datasetBit(d Dataset) uint8 {
	for i, c := range CanonicalDatasets {
		if c == d {
			return 1 << i
		}
	}
	return 0
}

// Value returns the column for d. ok is false for unknown datasets.
func (r DailySWE) Value(d Dataset) (v float64, ok bool) {
	switch d {
	case Snow17:
		return r.Snow17, true
	case ISnobal:
		return r.ISnobal, true
	case SNODAS:
		return r.SNODAS, true
	case UArizona:
		return r.UArizona, true
	case CUBoulder:
		return r.CUBoulder, true
	case ASO:
		return r.ASO, true
	default:
		return 0, false
	}
}

// Has reports whether the row carries a value for d.
func (r DailySWE) Has(d Dataset) bool {
	bit := datasetBit(d)
	return bit != 0 && r.missing&bit == 0
}

// SetValue assigns the column for d. Unknown datasets are ignored.
func (r *DailySWE) SetValue(d Dataset, v float64) {
	switch d {
	case Snow17:
		r.Snow17 = v
	case ISnobal:
		r.ISnobal = v
	case SNODAS:
		r.SNODAS = v
	case UArizona:
		r.UArizona = v
	case CUBoulder:
		r.CUBoulder = v
	case ASO:
		r.ASO = v
	default:
		return
	}
	r.missing &^= datasetBit(d)
}

type dailySWEJSON struct {
	Date      string   `json:"date"`
	Snow17    *float64 `json:"Snow-17,omitempty"`
	ISnobal   *float64 `json:"iSnobal,omitempty"`
	SNODAS    *float64 `json:"SNODAS,omitempty"`
	UArizona  *float64 `json:"UArizona,omitempty"`
	CUBoulder *float64 `json:"CU Boulder,omitempty"`
	ASO       *float64 `json:"ASO,omitempty"`
}

func (r DailySWE) MarshalJSON() ([]byte, error) {
	out := dailySWEJSON{Date: r.Date.UTC().Format(DateLayout)}
	for _, d := range CanonicalDatasets {
		if !r.Has(d) {
			continue
		}
		v, _ := r.Value(d)
		*out.field(d) = &v
	}
	return json.Marshal(out)
}

func (r *DailySWE) UnmarshalJSON(data []byte) error {
	var raw dailySWEJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, err := time.Parse(DateLayout, raw.Date)
	if err != nil {
		return fmt.Errorf("parse row date: %w", err)
	}
	*r = DailySWE{Date: date}
	for _, d := range CanonicalDatasets {
		if p := *raw.field(d); p != nil {
			r.SetValue(d, *p)
		} else {
			r.missing |= datasetBit(d)
		}
	}
	return nil
}

func (j *dailySWEJSON) field(d Dataset) **float64 {
	switch d {
	case Snow17:
		return &j.Snow17
	case ISnobal:
		return &j.ISnobal
	case SNODAS:
		return &j.SNODAS
	case UArizona:
		return &j.UArizona
	case CUBoulder:
		return &j.CUBoulder
	default:
		return &j.ASO
	}
}

// ZoneTable is a zone's merged daily table, ordered by date.
type ZoneTable struct {
	Zone    string     `json:"zone"`
	Columns []Dataset  `json:"columns"`
	Rows    []DailySWE `json:"rows"`
}

// HasColumn reports whether d is present in the table.
func (t ZoneTable) HasColumn(d Dataset) bool {
	return slices.Contains(t.Columns, d)
}

// Require returns a MissingColumnError for the first dataset in ds that the
// table lacks.
func (t ZoneTable) Require(ds []Dataset) error {
	for _, d := range ds {
		if !t.HasColumn(d) {
			return &MissingColumnError{Zone: t.Zone, Column: d}
		}
	}
	return nil
}

// Series returns column d as a slice in date order.
func (t ZoneTable) Series(d Dataset) ([]float64, error) {
	if !t.HasColumn(d) {
		return nil, &MissingColumnError{Zone: t.Zone, Column: d}
	}
	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		out[i], _ = row.Value(d)
	}
	return out, nil
}

// Validate checks that every column is a known dataset listed once, that
// every row has a value for every column, and that dates are strictly
// increasing.
func (t ZoneTable) Validate() error {
	seen := make(map[Dataset]bool, len(t.Columns))
	for _, c := range t.Columns {
		if _, err := ParseDataset(string(c)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTable, err)
		}
		if seen[c] {
			return fmt.Errorf("%w: duplicate column %q", ErrInvalidTable, c)
		}
		seen[c] = true
	}
	for _, row := range t.Rows {
		for _, c := range t.Columns {
			if !row.Has(c) {
				return fmt.Errorf("%w: row %s has no value for column %q", ErrInvalidTable,
					row.Date.Format(DateLayout), c)
			}
		}
	}
	for i := 1; i < len(t.Rows); i++ {
		if !t.Rows[i].Date.After(t.Rows[i-1].Date) {
			return fmt.Errorf("%w: date %s not after %s", ErrInvalidTable,
				t.Rows[i].Date.Format(DateLayout), t.Rows[i-1].Date.Format(DateLayout))
		}
	}
	return nil
}

// Between returns the rows dated in [from, to). The table must be validated.
// The returned table shares row storage with t.
func (t ZoneTable) Between(from, to time.Time) ZoneTable {
	lo := sort.Search(len(t.Rows), func(i int) bool { return !t.Rows[i].Date.Before(from) })
	hi := sort.Search(len(t.Rows), func(i int) bool { return !t.Rows[i].Date.Before(to) })
	if hi < lo {
		hi = lo
	}
	return ZoneTable{Zone: t.Zone, Columns: t.Columns, Rows: t.Rows[lo:hi]}
}
