package domain

import (
	"math"
	"sort"
	"strings"
)

// earthRadiusKm is the WGS84-approximate sphere radius used for great-circle
// distances.
const earthRadiusKm = 6371.0

// FilterByIDs returns the stations with the requested ids, preserving table
// order. Strict by default: any absent id yields *UnknownStationError and no
// subset.
func FilterByIDs(stations []Station, ids []int) ([]Station, error) {
	wanted := make(map[int]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	subset := make([]Station, 0, len(ids))
	for _, s := range stations {
		if wanted[s.ID] {
			subset = append(subset, s)
			delete(wanted, s.ID)
		}
	}

	if len(wanted) > 0 {
		missing := make([]int, 0, len(wanted))
		for _, id := range ids {
			if wanted[id] {
				missing = append(missing, id)
				delete(wanted, id)
			}
		}
		return nil, &UnknownStationError{IDs: missing}
	}
	return subset, nil
}

// FilterByName returns stations whose name contains the substring,
// case-insensitively, preserving table order.
func FilterByName(stations []Station, substring string) []Station {
	needle := strings.ToLower(substring)
	var subset []Station
	for _, s := range stations {
		if strings.Contains(strings.ToLower(s.Name), needle) {
			subset = append(subset, s)
		}
	}
	return subset
}

// WithinBBox returns stations inside the bounding box, bounds inclusive,
// preserving table order.
func WithinBBox(stations []Station, minLat, maxLat, minLon, maxLon float64) []Station {
	var subset []Station
	for _, s := range stations {
		if s.Latitude >= minLat && s.Latitude <= maxLat &&
			s.Longitude >= minLon && s.Longitude <= maxLon {
			subset = append(subset, s)
		}
	}
	return subset
}

// Nearest returns the up-to-n stations closest to (lat, lon), ranked by
// ascending great-circle distance with ties broken by ascending station id.
// Non-positive n yields an empty subset.
func Nearest(stations []Station, lat, lon float64, n int) []Station {
	if n <= 0 {
		return []Station{}
	}
	type ranked struct {
		station  Station
		distance float64
	}
	byDistance := make([]ranked, len(stations))
	for i, s := range stations {
		byDistance[i] = ranked{station: s, distance: Haversine(lat, lon, s.Latitude, s.Longitude)}
	}
	sort.Slice(byDistance, func(i, j int) bool {
		if byDistance[i].distance != byDistance[j].distance {
			return byDistance[i].distance < byDistance[j].distance
		}
		return byDistance[i].station.ID < byDistance[j].station.ID
	})

	if n > len(byDistance) {
		n = len(byDistance)
	}
	subset := make([]Station, n)
	for i := 0; i < n; i++ {
		subset[i] = byDistance[i].station
	}
	return subset
}

// Haversine returns the great-circle distance in kilometers between two
// WGS84 coordinates.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const degToRad = math.Pi / 180

	dLat := (lat2 - lat1) * degToRad
	dLon := (lon2 - lon1) * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
