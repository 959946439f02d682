package service_test

import (
	"archive/zip"
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jgrothe/dwd-archive/internal/domain"
	"github.com/jgrothe/dwd-archive/internal/listing"
	"github.com/jgrothe/dwd-archive/internal/metadata"
	"github.com/jgrothe/dwd-archive/internal/observability"
	"github.com/jgrothe/dwd-archive/internal/pipeline"
	"github.com/jgrothe/dwd-archive/internal/service"
)

const (
	baseURL = "https://archive.test/climate"
	dirURL  = baseURL + "/daily/kl/historical/"
)

var dailyKL = domain.Combination{
	Parameter:  domain.ParameterClimateSummary,
	Resolution: domain.ResolutionDaily,
	Period:     domain.PeriodHistorical,
}

type fakeFetcher struct {
	mu     sync.Mutex
	bodies map[string][]byte
	urls   []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, url)
	body, ok := f.bodies[url]
	if !ok {
		return nil, &domain.RemoteUnavailableError{URL: url, Status: 404}
	}
	return body, nil
}

func (f *fakeFetcher) fetched(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.urls {
		if u == url {
			return true
		}
	}
	return false
}

const description = `Stations_id von_datum bis_datum Stationshoehe geoBreite geoLaenge Stationsname Bundesland
----------- --------- --------- ------------- --------- --------- ------------ ----------
00044 19710301 20231231     44     52.9336    8.2370 Großenkneten                             Niedersachsen
00433 19480101 19991231     48     52.4675   13.4021 Berlin-Tempelhof                         Berlin
01443 19450101 20231231    236     47.9894    7.8344 Freiburg                                 Baden-Württemberg
`

const dirListing = `<html><body>
<a href="tageswerte_KL_00044_19710301_20231231_hist.zip">tageswerte_KL_00044_19710301_20231231_hist.zip</a>
<a href="tageswerte_KL_00433_19480101_19991231_hist.zip">tageswerte_KL_00433_19480101_19991231_hist.zip</a>
<a href="tageswerte_KL_01443_19450101_20231231_hist.zip">tageswerte_KL_01443_19450101_20231231_hist.zip</a>
</body></html>`

func productZip(t *testing.T, member, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(member)
	require.NoError(t, err)
	_, err = w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func newFixtureFetcher(t *testing.T) *fakeFetcher {
	t.Helper()
	desc, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(description))
	require.NoError(t, err)

	header := "STATIONS_ID;MESS_DATUM;QN_4;TMK;eor\n"
	return &fakeFetcher{bodies: map[string][]byte{
		dirURL: []byte(dirListing),
		dirURL + "KL_Tageswerte_Beschreibung_Stationen.txt": desc,
		dirURL + "tageswerte_KL_00044_19710301_20231231_hist.zip": productZip(t,
			"produkt_klima_tag_00044.txt", header+"         44;19710301;   10;   4.2;eor\n"),
		dirURL + "tageswerte_KL_00433_19480101_19991231_hist.zip": productZip(t,
			"produkt_klima_tag_00433.txt", header+"        433;19480101;   10;   1.1;eor\n"),
		dirURL + "tageswerte_KL_01443_19450101_20231231_hist.zip": productZip(t,
			"produkt_klima_tag_01443.txt", header+"       1443;19450101;   10;   7.9;eor\n"),
	}}
}

func newService(fetcher domain.Fetcher) *service.Service {
	logger := slog.Default()
	metrics := observability.NewMetricsForTesting()
	resolver := listing.NewResolver(fetcher, baseURL, logger)
	builder := metadata.NewBuilder(fetcher, resolver, baseURL, logger)
	pipe := pipeline.New(fetcher, logger, metrics, 2)
	return service.New(resolver, builder, pipe, logger)
}

func TestDiscover(t *testing.T) {
	svc := newService(&fakeFetcher{})

	all := svc.Discover(service.DatasetFilter{})
	assert.NotEmpty(t, all)

	daily := svc.Discover(service.DatasetFilter{Resolution: domain.ResolutionDaily})
	require.NotEmpty(t, daily)
	for _, c := range daily {
		assert.Equal(t, domain.ResolutionDaily, c.Resolution)
	}
	assert.Less(t, len(daily), len(all))

	// Daily solar exists only as recent data.
	solar := svc.Discover(service.DatasetFilter{
		Parameter:  domain.ParameterSolar,
		Resolution: domain.ResolutionDaily,
	})
	require.Len(t, solar, 1)
	assert.Equal(t, domain.PeriodRecent, solar[0].Period)
}

func TestStations_AppliesQuery(t *testing.T) {
	svc := newService(newFixtureFetcher(t))

	table, err := svc.Stations(context.Background(), dailyKL, service.StationQuery{})
	require.NoError(t, err)
	assert.Equal(t, []int{44, 433, 1443}, table.IDs())

	table, err = svc.Stations(context.Background(), dailyKL, service.StationQuery{
		NameContains: "berlin",
	})
	require.NoError(t, err)
	require.Len(t, table.Stations, 1)
	assert.Equal(t, 433, table.Stations[0].ID)

	table, err = svc.Stations(context.Background(), dailyKL, service.StationQuery{
		Nearest: &service.NearestQuery{Lat: 52.52, Lon: 13.40, N: 2},
	})
	require.NoError(t, err)
	require.Len(t, table.Stations, 2)
	assert.Equal(t, 433, table.Stations[0].ID, "Tempelhof is closest to central Berlin")
}

func TestStations_CoverageFilter(t *testing.T) {
	svc := newService(newFixtureFetcher(t))

	// Tempelhof's coverage ends 1999; a 2010+ range excludes it.
	table, err := svc.Stations(context.Background(), dailyKL, service.StationQuery{
		CoverageFrom: time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC),
		CoverageTo:   time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, []int{44, 1443}, table.IDs())
}

func TestStations_UnknownIDIsStrict(t *testing.T) {
	svc := newService(newFixtureFetcher(t))

	_, err := svc.Stations(context.Background(), dailyKL, service.StationQuery{
		IDs: []int{44, 999999},
	})

	var unknown *domain.UnknownStationError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []int{999999}, unknown.IDs)
}

func TestObservations_FetchesOnlySelectedStations(t *testing.T) {
	fetcher := newFixtureFetcher(t)
	svc := newService(fetcher)

	result, err := svc.Observations(context.Background(), dailyKL, service.ObservationQuery{
		Stations: service.StationQuery{IDs: []int{44, 1443}},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Failed)

	require.Len(t, result.Table.Records, 2)
	assert.Equal(t, 44, result.Table.Records[0].StationID)
	assert.Equal(t, 1443, result.Table.Records[1].StationID)

	assert.False(t, fetcher.fetched(dirURL+"tageswerte_KL_00433_19480101_19991231_hist.zip"),
		"unselected station files must not be downloaded")
}

func TestObservations_DateRangeSkipsNonOverlappingFiles(t *testing.T) {
	fetcher := newFixtureFetcher(t)
	svc := newService(fetcher)

	// Tempelhof's file covers 1948-1999, outside the requested range.
	result, err := svc.Observations(context.Background(), dailyKL, service.ObservationQuery{
		Stations: service.StationQuery{IDs: []int{433, 1443}},
		From:     time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC),
		To:       time.Date(2015, 12, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Empty(t, result.Failed)

	require.Len(t, result.Table.Records, 1)
	assert.Equal(t, 1443, result.Table.Records[0].StationID)
	assert.False(t, fetcher.fetched(dirURL+"tageswerte_KL_00433_19480101_19991231_hist.zip"))
}

func TestReadiness(t *testing.T) {
	fetcher := newFixtureFetcher(t)
	svc := newService(fetcher)

	require.Error(t, svc.CheckReadiness(context.Background()))

	_, err := svc.Stations(context.Background(), dailyKL, service.StationQuery{})
	require.NoError(t, err)
	assert.NoError(t, svc.CheckReadiness(context.Background()))
}

func TestWarmup(t *testing.T) {
	recentURL := baseURL + "/daily/kl/recent/"
	fetcher := &fakeFetcher{bodies: map[string][]byte{
		recentURL: []byte("<html></html>"),
	}}
	svc := newService(fetcher)

	require.NoError(t, svc.Warmup(context.Background()))
	assert.NoError(t, svc.CheckReadiness(context.Background()))
	assert.True(t, fetcher.fetched(recentURL))
}

func TestWarmup_FailureLeavesNotReady(t *testing.T) {
	svc := newService(&fakeFetcher{})

	require.Error(t, svc.Warmup(context.Background()))
	assert.Error(t, svc.CheckReadiness(context.Background()))
}
