package golden

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/pders01/visreg/internal/cache"
	vrerrors "github.com/pders01/visreg/internal/errors"
)

// Fetcher downloads the body behind a URL
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches over HTTP. Requests carry no timeout of their own;
// cancellation comes from the caller's context.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher creates a fetcher using http.DefaultClient
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{Client: http.DefaultClient}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &vrerrors.FetchError{URL: url, Err: err}
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &vrerrors.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &vrerrors.FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &vrerrors.FetchError{URL: url, Err: fmt.Errorf("failed to read body: %w", err)}
	}
	return body, nil
}

// CachingFetcher serves repeated URLs from a cache.Store
type CachingFetcher struct {
	next  Fetcher
	store *cache.Store
}

// NewCachingFetcher wraps next with store
func NewCachingFetcher(next Fetcher, store *cache.Store) *CachingFetcher {
	return &CachingFetcher{next: next, store: store}
}

func (f *CachingFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	path, err := f.store.PathFor(url)
	if err != nil {
		// Not cacheable, go straight to the network
		return f.next.Fetch(ctx, url)
	}

	if f.store.Has(path) {
		if data, err := f.store.Get(path); err == nil {
			slog.Debug("cache hit", "url", url)
			return data, nil
		}
	}

	data, err := f.next.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := f.store.Put(path, data); err != nil {
		slog.Warn("failed to cache download", "url", url, "error", err)
	}
	return data, nil
}
