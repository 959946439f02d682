package listing_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgrothe/dwd-archive/internal/domain"
	"github.com/jgrothe/dwd-archive/internal/listing"
	"github.com/jgrothe/dwd-archive/internal/registry"
)

const baseURL = "https://archive.test/climate"

var dailyKL = domain.Combination{
	Parameter:  domain.ParameterClimateSummary,
	Resolution: domain.ResolutionDaily,
	Period:     domain.PeriodHistorical,
}

// fakeFetcher serves canned bodies by URL and records every request.
type fakeFetcher struct {
	bodies   map[string][]byte
	err      error
	requests []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.requests = append(f.requests, url)
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.bodies[url]
	if !ok {
		return nil, &domain.RemoteUnavailableError{URL: url, Status: 404}
	}
	return body, nil
}

const dailyKLListing = `<html><head><title>Index of /daily/kl/historical</title></head>
<body><h1>Index of /daily/kl/historical</h1><pre>
<a href="../">../</a>
<a href="KL_Tageswerte_Beschreibung_Stationen.txt">KL_Tageswerte_Beschreibung_Stationen.txt</a>
<a href="tageswerte_KL_00044_19710301_20231231_hist.zip">tageswerte_KL_00044_19710301_20231231_hist.zip</a>
<a href="tageswerte_KL_00001_19370101_19860630_hist.zip">tageswerte_KL_00001_19370101_19860630_hist.zip</a>
<a href="tageswerte_KL_00001_19870101_20051231_hist.zip">tageswerte_KL_00001_19870101_20051231_hist.zip</a>
<a href="tageswerte_KL_00001_19370101_19860630_hist.zip">tageswerte_KL_00001_19370101_19860630_hist.zip</a>
<a href="checksums.sha256">checksums.sha256</a>
</pre></body></html>`

func TestList_ParsesHTMLListing(t *testing.T) {
	dirURL := baseURL + "/daily/kl/historical/"
	fetcher := &fakeFetcher{bodies: map[string][]byte{dirURL: []byte(dailyKLListing)}}
	resolver := listing.NewResolver(fetcher, baseURL, slog.Default())

	refs, err := resolver.List(context.Background(), dailyKL)
	require.NoError(t, err)

	// Repeated anchor deduplicated, description file and checksums skipped,
	// both date-range files of station 1 kept, sorted by (id, from).
	require.Len(t, refs, 3)
	assert.Equal(t, 1, refs[0].StationID)
	assert.Equal(t, 1, refs[1].StationID)
	assert.Equal(t, 44, refs[2].StationID)
	assert.True(t, refs[0].From.Before(refs[1].From))

	assert.Equal(t, "tageswerte_KL_00001_19370101_19860630_hist.zip", refs[0].Filename)
	assert.Equal(t, dirURL+"tageswerte_KL_00001_19370101_19860630_hist.zip", refs[0].URL)
	assert.Equal(t, dailyKL, refs[0].Combination)
	assert.Equal(t, time.Date(1937, 1, 1, 0, 0, 0, 0, time.UTC), refs[0].From)
}

func TestList_PlainTextListing(t *testing.T) {
	dirURL := baseURL + "/daily/kl/historical/"
	body := "tageswerte_KL_00044_19710301_20231231_hist.zip\nKL_Tageswerte_Beschreibung_Stationen.txt\n"
	fetcher := &fakeFetcher{bodies: map[string][]byte{dirURL: []byte(body)}}
	resolver := listing.NewResolver(fetcher, baseURL, slog.Default())

	refs, err := resolver.List(context.Background(), dailyKL)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, 44, refs[0].StationID)
}

func TestList_InvalidCombinationFailsBeforeFetch(t *testing.T) {
	fetcher := &fakeFetcher{}
	resolver := listing.NewResolver(fetcher, baseURL, slog.Default())

	_, err := resolver.List(context.Background(), domain.Combination{
		Parameter:  domain.ParameterClimateSummary,
		Resolution: domain.ResolutionMinute1,
		Period:     domain.PeriodHistorical,
	})

	var invalid *domain.InvalidCombinationError
	require.ErrorAs(t, err, &invalid)
	assert.Empty(t, fetcher.requests, "invalid combinations must not reach the network")
}

func TestList_TransportFailureSurfaces(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection reset")}
	resolver := listing.NewResolver(fetcher, baseURL, slog.Default())

	_, err := resolver.List(context.Background(), dailyKL)

	var unavailable *domain.RemoteUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Contains(t, unavailable.URL, "/daily/kl/historical/")
}

func TestList_RoundTripLaw(t *testing.T) {
	dirURL := baseURL + "/daily/kl/historical/"
	fetcher := &fakeFetcher{bodies: map[string][]byte{dirURL: []byte(dailyKLListing)}}
	resolver := listing.NewResolver(fetcher, baseURL, slog.Default())

	refs, err := resolver.List(context.Background(), dailyKL)
	require.NoError(t, err)

	// Re-applying the pattern to each resolved filename recovers the same
	// station id and date range.
	for _, ref := range refs {
		assert.Equal(t, ref.Filename, rebuildFilename(t, ref))
	}
}

func rebuildFilename(t *testing.T, ref domain.RemoteFileRef) string {
	t.Helper()
	pattern, err := registry.Pattern(ref.Combination)
	require.NoError(t, err)
	return pattern.Filename(ref.StationID, ref.From, ref.To)
}
