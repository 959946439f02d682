package domain

import "time"

// Station is one row of the archive's station description table, joined with
// the file listing of a concrete dataset.
type Station struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	State     string  `json:"state"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation_m"`

	// Coverage window declared in the description file.
	From time.Time `json:"from"`
	To   time.Time `json:"to"`

	// HasFile is true when the dataset's directory listing contains at least
	// one data file for this station.
	HasFile bool `json:"has_file"`
}

// CoversRange reports whether the station's declared coverage window overlaps
// [from, to]. Zero bounds are treated as open.
func (s Station) CoversRange(from, to time.Time) bool {
	if !to.IsZero() && !s.From.IsZero() && s.From.After(to) {
		return false
	}
	if !from.IsZero() && !s.To.IsZero() && s.To.Before(from) {
		return false
	}
	return true
}

// StationTable is the result of one metadata build: all stations of a dataset
// sorted by ascending id. Callers own the table; it is rebuilt on every call.
type StationTable struct {
	Combination Combination `json:"combination"`
	Stations    []Station   `json:"stations"`
	FetchedAt   time.Time   `json:"fetched_at"`
}

// ByID returns the station with the given id, or false when absent.
func (t StationTable) ByID(id int) (Station, bool) {
	for _, s := range t.Stations {
		if s.ID == id {
			return s, true
		}
	}
	return Station{}, false
}

// IDs returns the ids of all stations in table order.
func (t StationTable) IDs() []int {
	ids := make([]int, len(t.Stations))
	for i, s := range t.Stations {
		ids[i] = s.ID
	}
	return ids
}
