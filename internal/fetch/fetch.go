// Package fetch provides the data fetchers that back daily aggregation.
// A fetcher either performs a network request or returns pre-supplied data;
// both report failure through an ordinary error return so the section runner
// can classify outcomes without knowing the variant.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxBodySize caps how much of a response body a URL fetcher will read.
const maxBodySize = 1 << 20 // 1MB

// Fetcher is the capability a section resource exposes to the runner.
type Fetcher interface {
	Fetch(ctx context.Context) (any, error)
}

// Resource pairs a name (unique within its section) with the fetcher that
// produces its payload. Registration order is meaningful downstream.
type Resource struct {
	Name    string
	Fetcher Fetcher
}

// URLFetcher fetches data from a URL. JSON bodies are decoded; anything else
// is returned as text.
type URLFetcher struct {
	URL       string
	Timeout   time.Duration
	UserAgent string
	Client    *http.Client
}

// NewURLFetcher validates the address and returns a fetcher with a 10s
// default timeout.
func NewURLFetcher(url string) (*URLFetcher, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, fmt.Errorf("invalid URL %q: must start with http:// or https://", url)
	}
	return &URLFetcher{
		URL:     url,
		Timeout: 10 * time.Second,
		Client:  http.DefaultClient,
	}, nil
}

// Fetch performs the GET request. Non-2xx responses are errors.
func (f *URLFetcher) Fetch(ctx context.Context) (any, error) {
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", f.URL, err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", f.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d fetching %s", resp.StatusCode, f.URL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading body from %s: %w", f.URL, err)
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		// Not JSON, hand back the raw text.
		return string(body), nil
	}
	return decoded, nil
}

// StaticFetcher returns a fixed, pre-supplied value. It never fails.
type StaticFetcher struct {
	Value any
}

// NewStaticFetcher wraps a fixed value in a Fetcher.
func NewStaticFetcher(value any) *StaticFetcher {
	return &StaticFetcher{Value: value}
}

// Fetch returns the static value.
func (f *StaticFetcher) Fetch(ctx context.Context) (any, error) {
	return f.Value, nil
}
