// Package service composes the registry, listing resolver, metadata builder,
// and fetch pipeline into the public query surface: discover datasets, build
// station tables, fetch observations.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jgrothe/dwd-archive/internal/domain"
	"github.com/jgrothe/dwd-archive/internal/listing"
	"github.com/jgrothe/dwd-archive/internal/metadata"
	"github.com/jgrothe/dwd-archive/internal/pipeline"
	"github.com/jgrothe/dwd-archive/internal/registry"
)

// Service is the archive client's top-level API. All methods are safe for
// concurrent use; no state is shared across calls beyond the injected
// collaborators.
type Service struct {
	resolver *listing.Resolver
	builder  *metadata.Builder
	pipeline *pipeline.Pipeline
	logger   *slog.Logger
	ready    atomic.Bool
}

// New creates a Service from its collaborators.
func New(resolver *listing.Resolver, builder *metadata.Builder, p *pipeline.Pipeline, logger *slog.Logger) *Service {
	return &Service{resolver: resolver, builder: builder, pipeline: p, logger: logger}
}

// DatasetFilter narrows Discover output. Zero-valued fields match everything.
type DatasetFilter struct {
	Parameter  domain.Parameter
	Resolution domain.Resolution
	Period     domain.Period
}

// Discover returns the valid dataset combinations matching the filter, in the
// registry's deterministic order. Pure lookup, no I/O.
func (s *Service) Discover(f DatasetFilter) []domain.Combination {
	var out []domain.Combination
	for _, c := range registry.All() {
		if f.Parameter != "" && c.Parameter != f.Parameter {
			continue
		}
		if f.Resolution != "" && c.Resolution != f.Resolution {
			continue
		}
		if f.Period != "" && c.Period != f.Period {
			continue
		}
		out = append(out, c)
	}
	return out
}

// BBox is an inclusive geographic bounding box.
type BBox struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// NearestQuery selects the N stations closest to a coordinate.
type NearestQuery struct {
	Lat, Lon float64
	N        int
}

// StationQuery narrows a station table. Filters apply in order: ids (strict),
// name substring, bounding box, nearest-N, file availability, coverage
// overlap. Zero-valued fields are skipped.
type StationQuery struct {
	IDs          []int
	NameContains string
	BBox         *BBox
	Nearest      *NearestQuery
	WithFileOnly bool

	// CoverageFrom/To keep only stations whose declared coverage window
	// overlaps the range. Left zero, no coverage filtering happens; stations
	// outside a requested range are a filterable attribute, never silently
	// dropped elsewhere.
	CoverageFrom time.Time
	CoverageTo   time.Time
}

// Stations builds the dataset's station table and applies the query.
func (s *Service) Stations(ctx context.Context, c domain.Combination, q StationQuery) (domain.StationTable, error) {
	table, err := s.builder.Build(ctx, c)
	if err != nil {
		return domain.StationTable{}, err
	}
	s.ready.Store(true)

	stations, err := applyQuery(table.Stations, q)
	if err != nil {
		return domain.StationTable{}, err
	}
	table.Stations = stations
	return table, nil
}

// ObservationQuery selects stations and an optional date range for an
// observation fetch.
type ObservationQuery struct {
	Stations StationQuery
	From     time.Time
	To       time.Time
}

// Observations resolves the query's stations, downloads their files, and
// returns the merged table plus any per-file failures. Files whose encoded
// date range cannot overlap [q.From, q.To] are skipped before download.
func (s *Service) Observations(ctx context.Context, c domain.Combination, q ObservationQuery) (pipeline.Result, error) {
	table, err := s.Stations(ctx, c, q.Stations)
	if err != nil {
		return pipeline.Result{}, err
	}

	refs, err := s.resolver.List(ctx, c)
	if err != nil {
		return pipeline.Result{}, err
	}

	selected := make(map[int]bool, len(table.Stations))
	for _, st := range table.Stations {
		selected[st.ID] = true
	}

	var wanted []domain.RemoteFileRef
	for _, ref := range refs {
		if !selected[ref.StationID] {
			continue
		}
		if !ref.OverlapsRange(q.From, q.To) {
			continue
		}
		wanted = append(wanted, ref)
	}

	result, err := s.pipeline.Fetch(ctx, c, wanted)
	if err != nil {
		return pipeline.Result{}, err
	}
	return result, nil
}

// Warmup verifies the archive is reachable by resolving one small dataset
// listing. Called from main in a goroutine so readiness does not depend on
// the first user request.
func (s *Service) Warmup(ctx context.Context) error {
	probe := domain.Combination{
		Parameter:  domain.ParameterClimateSummary,
		Resolution: domain.ResolutionDaily,
		Period:     domain.PeriodRecent,
	}
	if _, err := s.resolver.List(ctx, probe); err != nil {
		s.logger.Warn("archive warmup failed", "error", err)
		return err
	}
	s.ready.Store(true)
	return nil
}

// CheckReadiness returns nil once the service has completed at least one
// successful archive request.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("no successful archive request yet")
	}
	return nil
}

// applyQuery runs the station filters in their documented order.
func applyQuery(stations []domain.Station, q StationQuery) ([]domain.Station, error) {
	var err error
	if len(q.IDs) > 0 {
		stations, err = domain.FilterByIDs(stations, q.IDs)
		if err != nil {
			return nil, err
		}
	}
	if q.NameContains != "" {
		stations = domain.FilterByName(stations, q.NameContains)
	}
	if q.BBox != nil {
		stations = domain.WithinBBox(stations, q.BBox.MinLat, q.BBox.MaxLat, q.BBox.MinLon, q.BBox.MaxLon)
	}
	if q.Nearest != nil {
		stations = domain.Nearest(stations, q.Nearest.Lat, q.Nearest.Lon, q.Nearest.N)
	}
	if q.WithFileOnly {
		kept := stations[:0:0]
		for _, st := range stations {
			if st.HasFile {
				kept = append(kept, st)
			}
		}
		stations = kept
	}
	if !q.CoverageFrom.IsZero() || !q.CoverageTo.IsZero() {
		kept := stations[:0:0]
		for _, st := range stations {
			if st.CoversRange(q.CoverageFrom, q.CoverageTo) {
				kept = append(kept, st)
			}
		}
		stations = kept
	}
	return stations, nil
}
