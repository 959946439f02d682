// Package pipeline fetches station data files and parses them into one
// uniform observation table per request.
package pipeline

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jgrothe/dwd-archive/internal/domain"
	"github.com/jgrothe/dwd-archive/internal/observability"
	"github.com/jgrothe/dwd-archive/internal/registry"
)

// Result carries the merged observation table together with the file
// references that failed to fetch or parse. A non-empty Failed list is the
// explicit degraded mode: callers decide between strict-abort and
// best-effort, the pipeline never hides a partial failure.
type Result struct {
	Table  domain.Table
	Failed []domain.FailedRef
}

// Pipeline downloads and parses station data files with bounded fan-out.
type Pipeline struct {
	fetcher domain.Fetcher
	logger  *slog.Logger
	metrics *observability.Metrics
	workers int
}

// New creates a Pipeline. workers bounds concurrent downloads; values below 1
// are treated as 1.
func New(fetcher domain.Fetcher, logger *slog.Logger, metrics *observability.Metrics, workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{fetcher: fetcher, logger: logger, metrics: metrics, workers: workers}
}

// Fetch retrieves all referenced files and merges them into one table sorted
// by (station id, timestamp). Exact duplicate rows collapse to one; rows with
// the same station and timestamp but differing values fail the whole fetch
// with *domain.DuplicateConflictError.
//
// Output ordering is determined by the final sort, never by download
// completion order. On context cancellation, in-flight work is abandoned and
// files that completed before the cancellation still appear in the result;
// the rest are reported as failed with the context error.
func (p *Pipeline) Fetch(ctx context.Context, c domain.Combination, refs []domain.RemoteFileRef) (Result, error) {
	if err := registry.Validate(c); err != nil {
		return Result{}, err
	}
	layout, err := registry.Columns(c)
	if err != nil {
		return Result{}, err
	}

	start := time.Now()
	p.metrics.BatchSize.Observe(float64(len(refs)))

	partials := make([][]domain.Record, len(refs))
	failures := make([]error, len(refs))

	g := new(errgroup.Group)
	g.SetLimit(p.workers)
	for i, ref := range refs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				failures[i] = err
				return nil
			}
			records, err := p.fetchOne(ctx, c, ref)
			if err != nil {
				p.metrics.FileFailures.Inc()
				p.logger.Warn("file fetch failed",
					"dataset", c.String(), "station", ref.StationID,
					"filename", ref.Filename, "error", err)
				failures[i] = err
				return nil
			}
			p.metrics.FilesParsed.Inc()
			p.metrics.RecordsParsed.Add(float64(len(records)))
			partials[i] = records
			return nil
		})
	}
	// Workers record per-ref failures instead of returning errors, so Wait
	// never fails.
	_ = g.Wait()

	var failed []domain.FailedRef
	var merged []domain.Record
	for i, ref := range refs {
		if failures[i] != nil {
			failed = append(failed, domain.FailedRef{Ref: ref, Err: failures[i]})
			continue
		}
		merged = append(merged, partials[i]...)
	}

	merged, err = sortAndCollapse(merged)
	if err != nil {
		return Result{}, err
	}

	p.metrics.BatchDuration.Observe(time.Since(start).Seconds())
	p.logger.Info("observation fetch complete",
		"dataset", c.String(), "files", len(refs), "failed", len(failed), "records", len(merged))

	return Result{
		Table: domain.Table{
			Combination: c,
			Columns:     tableColumns(layout, merged),
			Records:     merged,
			FetchedAt:   domain.Now(),
		},
		Failed: failed,
	}, nil
}

// fetchOne downloads and parses a single file. Errors are scoped to the ref.
func (p *Pipeline) fetchOne(ctx context.Context, c domain.Combination, ref domain.RemoteFileRef) ([]domain.Record, error) {
	payload, err := p.fetcher.Fetch(ctx, ref.URL)
	if err != nil {
		return nil, err
	}
	return parseFile(c, ref, payload)
}

// sortAndCollapse orders records by (station id, timestamp) and collapses
// exact duplicates. Historical and recent files overlap at their boundary, so
// identical duplicate rows are expected; differing values for the same
// station and timestamp are a data integrity problem and abort the fetch.
func sortAndCollapse(records []domain.Record) ([]domain.Record, error) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].StationID != records[j].StationID {
			return records[i].StationID < records[j].StationID
		}
		return records[i].Timestamp.Before(records[j].Timestamp)
	})

	out := records[:0]
	for _, r := range records {
		if len(out) == 0 {
			out = append(out, r)
			continue
		}
		prev := out[len(out)-1]
		if r.StationID != prev.StationID || !r.Timestamp.Equal(prev.Timestamp) {
			out = append(out, r)
			continue
		}
		if col, equal := prev.EqualValues(r); !equal {
			return nil, &domain.DuplicateConflictError{
				StationID: r.StationID,
				Timestamp: r.Timestamp,
				Column:    col,
			}
		}
	}
	return out, nil
}

// tableColumns returns the canonical layout columns followed by any extra
// columns encountered in the data, sorted for determinism.
func tableColumns(layout []registry.Column, records []domain.Record) []string {
	known := make(map[string]bool, len(layout))
	columns := make([]string, 0, len(layout))
	for _, col := range layout {
		known[col.Canonical] = true
		columns = append(columns, col.Canonical)
	}

	extraSet := make(map[string]bool)
	for _, r := range records {
		for name := range r.Values {
			if !known[name] && !extraSet[name] {
				extraSet[name] = true
			}
		}
	}
	if len(extraSet) == 0 {
		return columns
	}
	extras := make([]string, 0, len(extraSet))
	for name := range extraSet {
		extras = append(extras, name)
	}
	sort.Strings(extras)
	return append(columns, extras...)
}
