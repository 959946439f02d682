package domain

import "context"

// Fetcher is the injected fetch capability: it retrieves the raw bytes behind
// a URL. Implementations report transport failures and non-success statuses
// as *RemoteUnavailableError. The core never constructs its own HTTP client,
// so every component stays testable without network access.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}
