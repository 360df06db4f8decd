// Package fetch implements the Fetcher interface.
// It downloads reference-data files relative to a base URL.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "canonhtml/1.0 (https://github.com/gaurav-prasanna/canonhtml)"

	// DefaultBaseURL serves the published data files and their manifest.
	DefaultBaseURL = "https://raw.githubusercontent.com/gaurav-prasanna/canonhtml-data/main/"
)

// HTTPFetcher fetches data files via HTTP.
type HTTPFetcher struct {
	base   *url.URL
	client *http.Client
}

// New creates an HTTPFetcher rooted at baseURL with a sensible timeout.
func New(baseURL string) (*HTTPFetcher, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL: %s (must include scheme, e.g. https://example.com)", baseURL)
	}
	return &HTTPFetcher{
		base:   base,
		client: &http.Client{Timeout: defaultTimeout},
	}, nil
}

// Fetch retrieves the file called name, resolved against the base URL.
func (f *HTTPFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	ref, err := url.Parse(name)
	if err != nil {
		return nil, fmt.Errorf("parsing file name %q: %w", name, err)
	}
	target := f.base.ResolveReference(ref).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, target)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}
