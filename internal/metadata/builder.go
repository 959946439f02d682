// Package metadata builds the station table of a dataset from the archive's
// station description file, joined against the directory listing.
package metadata

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"

	"github.com/jgrothe/dwd-archive/internal/domain"
	"github.com/jgrothe/dwd-archive/internal/listing"
	"github.com/jgrothe/dwd-archive/internal/registry"
)

const coverageDateLayout = "20060102"

// Builder fetches and parses station description files.
type Builder struct {
	fetcher  domain.Fetcher
	resolver *listing.Resolver
	baseURL  string
	logger   *slog.Logger
}

// NewBuilder creates a Builder sharing the resolver's fetcher and base URL.
func NewBuilder(fetcher domain.Fetcher, resolver *listing.Resolver, baseURL string, logger *slog.Logger) *Builder {
	return &Builder{
		fetcher:  fetcher,
		resolver: resolver,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		logger:   logger,
	}
}

// Build fetches the dataset's station description file, parses it, and joins
// it against the directory listing to set each station's HasFile flag. The
// result is sorted by ascending station id regardless of source order.
//
// The build aborts on the first malformed row with *domain.MetadataParseError;
// downstream filtering depends on every row being well-typed, so a partial
// table is never returned.
func (b *Builder) Build(ctx context.Context, c domain.Combination) (domain.StationTable, error) {
	descName, err := registry.DescriptionFilename(c)
	if err != nil {
		return domain.StationTable{}, err
	}
	path, err := registry.Path(c)
	if err != nil {
		return domain.StationTable{}, err
	}

	descURL := b.baseURL + "/" + path + descName
	raw, err := b.fetcher.Fetch(ctx, descURL)
	if err != nil {
		var unavailable *domain.RemoteUnavailableError
		if errors.As(err, &unavailable) {
			return domain.StationTable{}, err
		}
		return domain.StationTable{}, &domain.RemoteUnavailableError{URL: descURL, Err: err}
	}

	stations, err := parseDescription(descName, raw)
	if err != nil {
		return domain.StationTable{}, err
	}

	refs, err := b.resolver.List(ctx, c)
	if err != nil {
		return domain.StationTable{}, err
	}
	withFile := make(map[int]bool, len(refs))
	for _, ref := range refs {
		withFile[ref.StationID] = true
	}
	for i := range stations {
		stations[i].HasFile = withFile[stations[i].ID]
	}

	sort.Slice(stations, func(i, j int) bool { return stations[i].ID < stations[j].ID })

	b.logger.Debug("built station table", "dataset", c.String(), "stations", len(stations))
	return domain.StationTable{
		Combination: c,
		Stations:    stations,
		FetchedAt:   domain.Now(),
	}, nil
}

// parseDescription parses the fixed-width station description table. The
// files are ISO 8859-1 encoded and open with a German column header line and
// a dashed separator line:
//
//	Stations_id von_datum bis_datum Stationshoehe geoBreite geoLaenge Stationsname Bundesland
//	----------- --------- --------- ------------- --------- --------- ------------ ----------
//	00001 19370101 19860630    478     47.8413    8.8493 Aach         Baden-Württemberg
//
// Station names contain spaces; the federal state is the final field, the
// name everything between the coordinates and the state.
func parseDescription(source string, raw []byte) ([]domain.Station, error) {
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, &domain.MetadataParseError{Source: source, Reason: fmt.Sprintf("decode ISO 8859-1: %v", err)}
	}

	var stations []domain.Station
	scanner := bufio.NewScanner(bytes.NewReader(decoded))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line == "" {
			continue
		}
		// Header and separator rows; matched by content, some files open
		// with blank lines.
		if strings.HasPrefix(line, "Stations_id") || strings.HasPrefix(line, "---") {
			continue
		}

		station, err := parseStationLine(source, lineNo, line)
		if err != nil {
			return nil, err
		}
		stations = append(stations, station)
	}
	if err := scanner.Err(); err != nil {
		return nil, &domain.MetadataParseError{Source: source, LineNo: lineNo, Reason: fmt.Sprintf("read: %v", err)}
	}
	return stations, nil
}

func parseStationLine(source string, lineNo int, line string) (domain.Station, error) {
	fail := func(reason string) (domain.Station, error) {
		return domain.Station{}, &domain.MetadataParseError{Source: source, LineNo: lineNo, Line: line, Reason: reason}
	}

	fields := strings.Fields(line)
	if len(fields) < 8 {
		return fail(fmt.Sprintf("expected at least 8 fields, got %d", len(fields)))
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return fail("station id is not numeric")
	}
	from, err := time.Parse(coverageDateLayout, fields[1])
	if err != nil {
		return fail("malformed coverage start date")
	}
	to, err := time.Parse(coverageDateLayout, fields[2])
	if err != nil {
		return fail("malformed coverage end date")
	}
	elevation, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return fail("malformed elevation")
	}
	lat, err := strconv.ParseFloat(fields[4], 64)
	if err != nil {
		return fail("malformed latitude")
	}
	lon, err := strconv.ParseFloat(fields[5], 64)
	if err != nil {
		return fail("malformed longitude")
	}

	return domain.Station{
		ID:        id,
		Name:      strings.Join(fields[6:len(fields)-1], " "),
		State:     fields[len(fields)-1],
		Latitude:  lat,
		Longitude: lon,
		Elevation: elevation,
		From:      from,
		To:        to,
	}, nil
}
