package domain

import (
	"fmt"
	"strings"
	"time"
)

// InvalidCombinationError reports a (parameter, resolution, period) triple
// that does not exist in the archive. It is raised before any network access.
type InvalidCombinationError struct {
	Combination Combination
}

func (e *InvalidCombinationError) Error() string {
	return fmt.Sprintf("invalid dataset combination %s", e.Combination)
}

// RemoteUnavailableError reports a transport failure or non-success status
// while talking to the archive. Retry policy belongs to the caller.
type RemoteUnavailableError struct {
	URL    string
	Status int // 0 when the failure happened below HTTP
	Err    error
}

func (e *RemoteUnavailableError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("archive unavailable: %s returned status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("archive unavailable: %s: %v", e.URL, e.Err)
}

func (e *RemoteUnavailableError) Unwrap() error { return e.Err }

// MetadataParseError reports a station description row that violates the
// expected schema. The whole metadata build aborts on the first such row;
// partial station tables are unsafe to serve.
type MetadataParseError struct {
	Source string // description file name
	LineNo int    // 1-based line number in the source file
	Line   string // offending line, verbatim
	Reason string
}

func (e *MetadataParseError) Error() string {
	return fmt.Sprintf("metadata parse error in %s line %d (%s): %q", e.Source, e.LineNo, e.Reason, e.Line)
}

// ObservationParseError reports a malformed row in a product data file. It is
// scoped to one file and collected, not fatal to the batch.
type ObservationParseError struct {
	Filename string
	LineNo   int
	Line     string
	Reason   string
}

func (e *ObservationParseError) Error() string {
	return fmt.Sprintf("observation parse error in %s line %d (%s): %q", e.Filename, e.LineNo, e.Reason, e.Line)
}

// ArchiveFormatError reports a zip payload that does not contain exactly one
// product data member. The archive convention is one data file per zip.
type ArchiveFormatError struct {
	Filename string
	Members  int
}

func (e *ArchiveFormatError) Error() string {
	return fmt.Sprintf("archive %s: expected exactly one product member, found %d", e.Filename, e.Members)
}

// DuplicateConflictError reports two records for the same station and
// timestamp with differing values. It is always surfaced, never auto-resolved.
type DuplicateConflictError struct {
	StationID int
	Timestamp time.Time
	Column    string
}

func (e *DuplicateConflictError) Error() string {
	return fmt.Sprintf("conflicting duplicate for station %d at %s in column %s",
		e.StationID, e.Timestamp.Format(time.RFC3339), e.Column)
}

// UnknownStationError reports requested station ids absent from a station
// table. Raised by the strict id filter.
type UnknownStationError struct {
	IDs []int
}

func (e *UnknownStationError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("unknown station ids: %s", strings.Join(ids, ", "))
}
