package opendata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgrothe/dwd-archive/internal/domain"
	"github.com/jgrothe/dwd-archive/internal/observability"
)

type countingFetcher struct {
	bodies map[string][]byte
	calls  map[string]int
}

func newCountingFetcher(bodies map[string][]byte) *countingFetcher {
	return &countingFetcher{bodies: bodies, calls: make(map[string]int)}
}

func (f *countingFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.calls[url]++
	body, ok := f.bodies[url]
	if !ok {
		return nil, &domain.RemoteUnavailableError{URL: url, Status: 503}
	}
	return body, nil
}

func TestCachedFetcher_HitSkipsInnerFetch(t *testing.T) {
	inner := newCountingFetcher(map[string][]byte{
		"a": []byte("listing a"),
	})
	cached := NewCachedFetcher(inner, 4, observability.NewMetricsForTesting())

	for range 3 {
		body, err := cached.Fetch(context.Background(), "a")
		require.NoError(t, err)
		assert.Equal(t, []byte("listing a"), body)
	}
	assert.Equal(t, 1, inner.calls["a"])
}

func TestCachedFetcher_FailuresAreNotCached(t *testing.T) {
	inner := newCountingFetcher(nil)
	cached := NewCachedFetcher(inner, 4, observability.NewMetricsForTesting())

	for range 2 {
		_, err := cached.Fetch(context.Background(), "down")
		var unavailable *domain.RemoteUnavailableError
		require.ErrorAs(t, err, &unavailable)
	}
	assert.Equal(t, 2, inner.calls["down"], "failed responses must be retried, not served from cache")
}

func TestCachedFetcher_EvictsLeastRecentlyUsed(t *testing.T) {
	inner := newCountingFetcher(map[string][]byte{
		"a": []byte("a"), "b": []byte("b"), "c": []byte("c"),
	})
	cached := NewCachedFetcher(inner, 2, observability.NewMetricsForTesting())
	ctx := context.Background()

	_, err := cached.Fetch(ctx, "a")
	require.NoError(t, err)
	_, err = cached.Fetch(ctx, "b")
	require.NoError(t, err)

	// Touch a so b becomes the eviction candidate.
	_, err = cached.Fetch(ctx, "a")
	require.NoError(t, err)

	_, err = cached.Fetch(ctx, "c")
	require.NoError(t, err)

	_, err = cached.Fetch(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls["a"], "a stayed cached")

	_, err = cached.Fetch(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls["b"], "b was evicted and re-fetched")
}
