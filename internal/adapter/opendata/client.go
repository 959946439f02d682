// Package opendata implements the archive fetch capability over HTTP against
// opendata.dwd.de, with rate limiting and an optional response cache.
package opendata

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jgrothe/dwd-archive/internal/domain"
	"github.com/jgrothe/dwd-archive/internal/observability"
)

// BaseURL is the climate observations root of the DWD open-data server.
const BaseURL = "https://opendata.dwd.de/climate_environment/CDC/observations_germany/climate"

// Client implements domain.Fetcher against the archive. Requests pass through
// a token-bucket limiter; the open-data server is a shared public resource
// and bulk downloads without pacing get throttled server-side anyway.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an archive HTTP client. requestsPerSecond bounds the
// sustained request rate; bursts of up to twice that are allowed.
func NewClient(timeout time.Duration, requestsPerSecond float64, logger *slog.Logger, metrics *observability.Metrics) *Client {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	// Fractional rates truncate to a zero burst, which makes Wait reject
	// every request.
	burst := int(2 * requestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		logger:     logger,
		metrics:    metrics,
	}
}

// Fetch retrieves the raw bytes behind url. Transport failures and
// non-success statuses are reported as *domain.RemoteUnavailableError; retry
// policy belongs to the caller.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	kind := payloadKind(url)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.FetchRequests.WithLabelValues(kind, "error").Inc()
		return nil, &domain.RemoteUnavailableError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain for connection reuse
		c.metrics.FetchRequests.WithLabelValues(kind, "error").Inc()
		return nil, &domain.RemoteUnavailableError{URL: url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.FetchRequests.WithLabelValues(kind, "error").Inc()
		return nil, &domain.RemoteUnavailableError{URL: url, Err: err}
	}

	c.metrics.FetchRequests.WithLabelValues(kind, "success").Inc()
	c.metrics.FetchDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	c.metrics.FetchBytes.Add(float64(len(body)))
	c.logger.Debug("fetched", "url", url, "bytes", len(body), "duration", time.Since(start))
	return body, nil
}

// payloadKind classifies a URL for metrics labels.
func payloadKind(url string) string {
	switch {
	case strings.HasSuffix(url, "/"):
		return "listing"
	case strings.HasSuffix(url, ".txt"):
		return "metadata"
	default:
		return "data"
	}
}
