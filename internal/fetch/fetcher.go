// Package fetch retrieves entries from remote feeds.
//
// It handles the raw HTTP round trip and RSS/Atom field extraction, and
// converts feed documents into feed.Entry values. A feed that cannot be
// reached or parsed yields a *FetchError, never a partial silent success.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"

	"junefeed/internal/feed"
)

// Source is one configured feed: a unique short name and its URL.
type Source struct {
	Name string
	URL  string
}

// FetchError reports a single feed's retrieval or parse failure. A refresh
// records it and moves on to the remaining feeds.
type FetchError struct {
	Feed string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Feed, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher retrieves entries from feed sources over HTTP.
//
// A shared rate limiter spaces out requests so a refresh across many feeds
// doesn't burst. Safe for concurrent use.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewFetcher creates a Fetcher with the given per-request timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 5),
	}
}

// Fetch retrieves one source's entries, newest-first as the source orders
// them. It respects context cancellation and returns a *FetchError on any
// failure.
func (f *Fetcher) Fetch(ctx context.Context, src Source) ([]*feed.Entry, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{Feed: src.Name, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, &FetchError{Feed: src.Name, Err: err}
	}
	req.Header.Set("User-Agent", "junefeed/0.1")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{Feed: src.Name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Feed: src.Name, Err: fmt.Errorf("HTTP %d %s", resp.StatusCode, resp.Status)}
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, &FetchError{Feed: src.Name, Err: err}
	}

	entries := make([]*feed.Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		entries = append(entries, convertItem(item, src))
	}
	return entries, nil
}

// convertItem maps a parsed feed item onto an Entry. The published date is
// kept as the source-provided string, whatever its format.
func convertItem(item *gofeed.Item, src Source) *feed.Entry {
	summary := item.Description
	if summary == "" {
		summary = item.Content
	}
	return feed.NewEntry(src.Name, item.Title, summary, item.Link, item.Published)
}
