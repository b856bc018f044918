package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch is returned when two series differ in length or are empty.
	ErrShapeMismatch = errors.New("series shape mismatch")

	// ErrDegenerateSeries is returned when a series integrates to zero area
	// and cannot be normalised.
	ErrDegenerateSeries = errors.New("degenerate series: zero area")

	// ErrInvalidTable is returned for tables with duplicate or unordered dates
	// or unknown columns.
	ErrInvalidTable = errors.New("invalid zone table")
)

// MissingColumnError reports a requested dataset that the input table lacks.
type MissingColumnError struct {
	Zone   string
	Column Dataset
}

func (e *MissingColumnError) Error() string {
	if e.Zone == "" {
		return fmt.Sprintf("missing dataset column %q", e.Column)
	}
	return fmt.Sprintf("zone %s: missing dataset column %q", e.Zone, e.Column)
}

// PairError attributes a metric failure to one dataset pair in one zone/year.
type PairError struct {
	Zone string
	Year int
	A, B Dataset
	Err  error
}

func (e *PairError) Error() string {
	return fmt.Sprintf("zone %s WY%d %s vs %s: %v", e.Zone, e.Year, e.A, e.B, e.Err)
}

func (e *PairError) Unwrap() error { return e.Err }

// Reason is a short, stable label for the underlying failure, suitable for
// metric labels and JSON payloads.
func (e *PairError) Reason() string {
	switch {
	case errors.Is(e.Err, ErrDegenerateSeries):
		return "degenerate"
	case errors.Is(e.Err, ErrShapeMismatch):
		return "shape_mismatch"
	default:
		return "other"
	}
}
