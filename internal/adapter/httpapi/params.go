package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jgrothe/dwd-archive/internal/domain"
	"github.com/jgrothe/dwd-archive/internal/service"
)

const dateParamLayout = "2006-01-02"

// parseDatasetFilter reads the optional parameter/resolution/period query
// parameters for /v1/datasets.
func parseDatasetFilter(r *http.Request) (service.DatasetFilter, error) {
	var f service.DatasetFilter
	var err error
	if v := r.URL.Query().Get("parameter"); v != "" {
		if f.Parameter, err = domain.ParseParameter(v); err != nil {
			return service.DatasetFilter{}, err
		}
	}
	if v := r.URL.Query().Get("resolution"); v != "" {
		if f.Resolution, err = domain.ParseResolution(v); err != nil {
			return service.DatasetFilter{}, err
		}
	}
	if v := r.URL.Query().Get("period"); v != "" {
		if f.Period, err = domain.ParsePeriod(v); err != nil {
			return service.DatasetFilter{}, err
		}
	}
	return f, nil
}

// parseCombination reads the mandatory dataset triple.
func parseCombination(r *http.Request) (domain.Combination, error) {
	parameter, err := domain.ParseParameter(r.URL.Query().Get("parameter"))
	if err != nil {
		return domain.Combination{}, err
	}
	resolution, err := domain.ParseResolution(r.URL.Query().Get("resolution"))
	if err != nil {
		return domain.Combination{}, err
	}
	period, err := domain.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		return domain.Combination{}, err
	}
	return domain.Combination{Parameter: parameter, Resolution: resolution, Period: period}, nil
}

func parseStationQuery(r *http.Request) (service.StationQuery, error) {
	var q service.StationQuery
	query := r.URL.Query()

	if v := query.Get("ids"); v != "" {
		ids, err := parseIntList(v)
		if err != nil {
			return service.StationQuery{}, fmt.Errorf("ids: %w", err)
		}
		q.IDs = ids
	}
	q.NameContains = query.Get("name")

	if v := query.Get("bbox"); v != "" {
		parts, err := parseFloatList(v, 4)
		if err != nil {
			return service.StationQuery{}, fmt.Errorf("bbox: %w", err)
		}
		q.BBox = &service.BBox{MinLat: parts[0], MaxLat: parts[1], MinLon: parts[2], MaxLon: parts[3]}
	}
	if v := query.Get("near"); v != "" {
		parts, err := parseFloatList(v, 3)
		if err != nil {
			return service.StationQuery{}, fmt.Errorf("near: %w", err)
		}
		n := int(parts[2])
		if n < 1 || float64(n) != parts[2] {
			return service.StationQuery{}, fmt.Errorf("near: count must be a positive integer")
		}
		q.Nearest = &service.NearestQuery{Lat: parts[0], Lon: parts[1], N: n}
	}
	q.WithFileOnly = query.Get("has_file") == "true"

	var err error
	if q.CoverageFrom, err = parseDate(query.Get("coverage_from")); err != nil {
		return service.StationQuery{}, err
	}
	if q.CoverageTo, err = parseDate(query.Get("coverage_to")); err != nil {
		return service.StationQuery{}, err
	}
	return q, nil
}

func parseObservationQuery(r *http.Request) (service.ObservationQuery, error) {
	stations, err := parseStationQuery(r)
	if err != nil {
		return service.ObservationQuery{}, err
	}
	// Unbounded observation requests would download an entire dataset.
	if len(stations.IDs) == 0 && stations.Nearest == nil && stations.BBox == nil && stations.NameContains == "" {
		return service.ObservationQuery{}, fmt.Errorf("observations require a station selector (ids, name, bbox, or near)")
	}

	from, err := parseDate(r.URL.Query().Get("from"))
	if err != nil {
		return service.ObservationQuery{}, err
	}
	to, err := parseDate(r.URL.Query().Get("to"))
	if err != nil {
		return service.ObservationQuery{}, err
	}
	return service.ObservationQuery{Stations: stations, From: from, To: to}, nil
}

func parseDate(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateParamLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed date %q, want yyyy-mm-dd", v)
	}
	return t, nil
}

func parseIntList(v string) ([]int, error) {
	parts := strings.Split(v, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("malformed integer %q", p)
		}
		out = append(out, n)
	}
	return out, nil
}

func parseFloatList(v string, want int) ([]float64, error) {
	parts := strings.Split(v, ",")
	if len(parts) != want {
		return nil, fmt.Errorf("expected %d comma-separated values", want)
	}
	out := make([]float64, want)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("malformed number %q", p)
		}
		out[i] = f
	}
	return out, nil
}
