// Package fetch obtains raw schedule page text for extraction. The
// planning table is rendered client-side, so the default fetcher goes
// through a text-rendering reader proxy that executes the page's
// JavaScript and returns the visible text.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Fetcher returns one or more raw text chunks for a single run. Multiple
// chunks arise when a capture mechanism reads the page piecewise (e.g.
// one chunk per scroll position); chunk order must be chronological.
type Fetcher interface {
	Fetch(ctx context.Context) ([]string, error)
}

// Some reader proxies block unidentified clients; a desktop UA avoids
// that.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"

// ReaderFetcher GETs the schedule page through a reader proxy prefix
// (e.g. "https://r.jina.ai/" + page URL) and returns the rendered text
// as a single chunk.
type ReaderFetcher struct {
	client    *http.Client
	target    string
	userAgent string
	log       *slog.Logger
}

// NewReaderFetcher builds a fetcher for pageURL behind readerPrefix.
// An empty prefix fetches the page directly.
func NewReaderFetcher(pageURL, readerPrefix string, timeout time.Duration, log *slog.Logger) *ReaderFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ReaderFetcher{
		client:    &http.Client{Timeout: timeout},
		target:    readerPrefix + pageURL,
		userAgent: defaultUserAgent,
		log:       log,
	}
}

// Fetch performs the GET and returns the body as one chunk.
func (f *ReaderFetcher) Fetch(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.target, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	f.log.Debug("fetching schedule page", "url", f.target)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", f.target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: status %d", f.target, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return []string{string(body)}, nil
}

// Static is a fixed-chunk fetcher, used for replaying saved captures and
// in tests.
type Static struct {
	Chunks []string
}

// Fetch returns the configured chunks.
func (s Static) Fetch(context.Context) ([]string, error) {
	return s.Chunks, nil
}
