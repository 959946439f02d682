package domain

import (
	"sort"
	"time"
)

// Record is one observation row: a station, a timestamp, and the dataset's
// value columns keyed by canonical column name. A nil value is an explicit
// missing observation (the archive's -999 sentinel after normalization);
// missing is never encoded as zero.
type Record struct {
	StationID int                 `json:"station_id"`
	Timestamp time.Time           `json:"timestamp"`
	Values    map[string]*float64 `json:"values"`
}

// Value returns the value of a column and whether it is present (non-missing).
func (r Record) Value(column string) (float64, bool) {
	v, ok := r.Values[column]
	if !ok || v == nil {
		return 0, false
	}
	return *v, true
}

// EqualValues reports whether two records carry identical values across the
// union of their columns, treating missing and absent alike. The first
// differing column name is returned for conflict reporting.
func (r Record) EqualValues(other Record) (string, bool) {
	union := make(map[string]bool, len(r.Values)+len(other.Values))
	for col := range r.Values {
		union[col] = true
	}
	for col := range other.Values {
		union[col] = true
	}
	columns := make([]string, 0, len(union))
	for col := range union {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	for _, col := range columns {
		if !valueEqual(r.Values[col], other.Values[col]) {
			return col, false
		}
	}
	return "", true
}

func valueEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Table is the uniform result of one observation fetch. Records are sorted by
// (station id, timestamp) ascending with exact duplicates collapsed; all rows
// share column semantics and units after normalization.
type Table struct {
	Combination Combination `json:"combination"`
	Columns     []string    `json:"columns"`
	Records     []Record    `json:"records"`
	FetchedAt   time.Time   `json:"fetched_at"`
}

// Float returns a pointer to v, for building value maps in literals and tests.
func Float(v float64) *float64 { return &v }
