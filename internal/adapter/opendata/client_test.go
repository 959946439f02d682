package opendata

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgrothe/dwd-archive/internal/domain"
	"github.com/jgrothe/dwd-archive/internal/observability"
)

func newTestClient() *Client {
	return NewClient(5*time.Second, 100, slog.Default(), observability.NewMetricsForTesting())
}

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte("station data")) //nolint:errcheck
	}))
	defer srv.Close()

	body, err := newTestClient().Fetch(context.Background(), srv.URL+"/daily/kl/historical/")
	require.NoError(t, err)
	assert.Equal(t, []byte("station data"), body)
}

func TestFetch_FractionalRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("listing")) //nolint:errcheck
	}))
	defer srv.Close()

	// A sub-1 rate must still allow single requests through.
	client := NewClient(5*time.Second, 0.4, slog.Default(), observability.NewMetricsForTesting())
	body, err := client.Fetch(context.Background(), srv.URL+"/daily/kl/historical/")
	require.NoError(t, err)
	assert.Equal(t, []byte("listing"), body)
}

func TestFetch_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	url := srv.URL + "/daily/kl/historical/missing.zip"
	_, err := newTestClient().Fetch(context.Background(), url)

	var unavailable *domain.RemoteUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, 404, unavailable.Status)
	assert.Equal(t, url, unavailable.URL)
}

func TestFetch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient().Fetch(context.Background(), srv.URL+"/")

	var unavailable *domain.RemoteUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, 502, unavailable.Status)
}

func TestFetch_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestClient().Fetch(context.Background(), url+"/daily/kl/historical/")

	var unavailable *domain.RemoteUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Zero(t, unavailable.Status)
	assert.Error(t, unavailable.Unwrap())
}

func TestFetch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient().Fetch(ctx, "https://archive.test/")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPayloadKind(t *testing.T) {
	assert.Equal(t, "listing", payloadKind(BaseURL+"/daily/kl/historical/"))
	assert.Equal(t, "metadata", payloadKind(BaseURL+"/daily/kl/historical/KL_Tageswerte_Beschreibung_Stationen.txt"))
	assert.Equal(t, "data", payloadKind(BaseURL+"/daily/kl/historical/tageswerte_KL_00001_19370101_19860630_hist.zip"))
}
