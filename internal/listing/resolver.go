// Package listing resolves a dataset's remote directory listing into file
// references. The archive serves plain HTML index pages; entries that do not
// follow the dataset's filename convention (description files, checksums,
// subdirectories) are skipped.
package listing

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/jgrothe/dwd-archive/internal/domain"
	"github.com/jgrothe/dwd-archive/internal/registry"
)

// Resolver lists the data files of a dataset through an injected fetcher.
type Resolver struct {
	fetcher domain.Fetcher
	baseURL string
	logger  *slog.Logger
}

// NewResolver creates a Resolver. baseURL is the archive's climate
// observations root, without a trailing slash.
func NewResolver(fetcher domain.Fetcher, baseURL string, logger *slog.Logger) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

// List fetches and parses the dataset's directory listing. The result is
// sorted by (station id, from date) and deduplicated by filename; historical
// datasets legitimately carry several files per station, one per closed date
// range, and all of them are kept.
//
// Invalid combinations fail with *domain.InvalidCombinationError before any
// network access; fetch failures surface as *domain.RemoteUnavailableError.
func (r *Resolver) List(ctx context.Context, c domain.Combination) ([]domain.RemoteFileRef, error) {
	path, err := registry.Path(c)
	if err != nil {
		return nil, err
	}
	pattern, err := registry.Pattern(c)
	if err != nil {
		return nil, err
	}

	dirURL := r.baseURL + "/" + path
	body, err := r.fetcher.Fetch(ctx, dirURL)
	if err != nil {
		var unavailable *domain.RemoteUnavailableError
		if errors.As(err, &unavailable) {
			return nil, err
		}
		return nil, &domain.RemoteUnavailableError{URL: dirURL, Err: err}
	}

	entries := parseEntries(body)

	seen := make(map[string]bool, len(entries))
	refs := make([]domain.RemoteFileRef, 0, len(entries))
	for _, name := range entries {
		if seen[name] {
			continue
		}
		seen[name] = true

		stationID, from, to, ok := pattern.Match(name)
		if !ok {
			continue
		}
		refs = append(refs, domain.RemoteFileRef{
			Combination: c,
			StationID:   stationID,
			Filename:    name,
			URL:         dirURL + name,
			From:        from,
			To:          to,
		})
	}

	sort.Slice(refs, func(i, j int) bool {
		if refs[i].StationID != refs[j].StationID {
			return refs[i].StationID < refs[j].StationID
		}
		return refs[i].From.Before(refs[j].From)
	})

	r.logger.Debug("resolved directory listing",
		"dataset", c.String(), "entries", len(entries), "files", len(refs))
	return refs, nil
}

// parseEntries extracts candidate filenames from a directory listing. HTML
// listings yield their anchor targets; bodies without a single anchor are
// treated as plain-text listings, one entry per line.
func parseEntries(body []byte) []string {
	var names []string

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err == nil {
		for n := range doc.Descendants() {
			if n.Type != html.ElementNode || n.Data != "a" {
				continue
			}
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					names = append(names, basename(attr.Val))
					break
				}
			}
		}
	}

	if len(names) == 0 {
		for _, line := range strings.Split(string(body), "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				names = append(names, basename(line))
			}
		}
	}
	return names
}

// basename strips any path or URL prefix from a listing entry; listings may
// carry absolute hrefs.
func basename(entry string) string {
	entry = strings.TrimSuffix(entry, "/")
	if i := strings.LastIndex(entry, "/"); i >= 0 {
		return entry[i+1:]
	}
	return entry
}
