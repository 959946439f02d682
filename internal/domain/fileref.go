package domain

import "time"

// RemoteFileRef is a resolved pointer to one downloadable archive file. All
// fields besides URL are derived from the filename; the registry's filename
// pattern can rebuild the filename from them (round-trip law).
type RemoteFileRef struct {
	Combination Combination `json:"combination"`
	StationID   int         `json:"station_id"`
	Filename    string      `json:"filename"`
	URL         string      `json:"url"`

	// From/To are the date range encoded in historical filenames. Zero for
	// recent and now files, whose range is implicit.
	From time.Time `json:"from,omitempty"`
	To   time.Time `json:"to,omitempty"`
}

// OverlapsRange reports whether the file's encoded date range overlaps
// [from, to]. Undated files (recent, now) always overlap.
func (r RemoteFileRef) OverlapsRange(from, to time.Time) bool {
	if r.From.IsZero() && r.To.IsZero() {
		return true
	}
	if !to.IsZero() && r.From.After(to) {
		return false
	}
	if !from.IsZero() && r.To.Before(from) {
		return false
	}
	return true
}

// FailedRef pairs a file reference with the error that kept it out of a
// fetch result. Returned alongside the successful table so callers choose
// strict or best-effort handling consciously.
type FailedRef struct {
	Ref RemoteFileRef `json:"ref"`
	Err error         `json:"-"`
}

// Reason returns the error text for serialization.
func (f FailedRef) Reason() string {
	if f.Err == nil {
		return ""
	}
	return f.Err.Error()
}
