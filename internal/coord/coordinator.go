// Package coord orchestrates feed refreshes for junefeed.
//
// A refresh fetches every configured feed concurrently and merges the
// results into an entry collection in configuration order, so the merged
// ordering is deterministic regardless of which fetch finishes first.
//
// The coordinator also implements speculative prefetch: one background
// refresh runs against a clone of the current collection while the user
// keeps browsing, and the finished result is adopted on demand. At most
// one prefetch is in flight at a time; extra requests are dropped.
package coord

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"junefeed/internal/feed"
	"junefeed/internal/fetch"
	"junefeed/internal/logging"
)

// fetchTimeout bounds each individual feed fetch.
const fetchTimeout = 30 * time.Second

// maxConcurrentFetches limits parallel fetch operations.
const maxConcurrentFetches = 5

// ErrNoPrefetch is returned by Await when no prefetch is in flight and no
// result is waiting.
var ErrNoPrefetch = errors.New("no prefetch in flight")

// ErrAwaitTimeout is returned by Await when the in-flight prefetch does
// not finish within the caller's bound.
var ErrAwaitTimeout = errors.New("timed out waiting for refresh")

// fetcher is the collaborator contract for retrieving one feed's entries.
type fetcher interface {
	Fetch(ctx context.Context, src fetch.Source) ([]*feed.Entry, error)
}

// Result is one completed refresh: the fully merged collection and the
// feeds that failed. A caller adopts the collection by reference swap.
type Result struct {
	Collection *feed.EntryCollection
	Failures   []*fetch.FetchError
}

// Coordinator runs refreshes and manages the exclusive prefetch slot.
type Coordinator struct {
	fetcher fetcher
	sources []fetch.Source // set at construction, never modified

	mu       sync.Mutex
	inflight bool
	result   chan Result // capacity 1, holds the latest unclaimed result
	wg       sync.WaitGroup
}

// NewCoordinator creates a Coordinator with the real fetcher.
func NewCoordinator(f *fetch.Fetcher, sources []fetch.Source) *Coordinator {
	return NewCoordinatorWithFetcher(f, sources)
}

// NewCoordinatorWithFetcher allows injecting a custom fetcher (for testing).
func NewCoordinatorWithFetcher(f fetcher, sources []fetch.Source) *Coordinator {
	sourcesCopy := make([]fetch.Source, len(sources))
	copy(sourcesCopy, sources)

	return &Coordinator{
		fetcher: f,
		sources: sourcesCopy,
		result:  make(chan Result, 1),
	}
}

// Refresh fetches all configured feeds and merges the new entries into
// collection, mutating it in place. Fetches run concurrently; merge order
// is configuration order. A feed that fails is skipped and reported in
// the returned slice rather than aborting the refresh.
func (c *Coordinator) Refresh(ctx context.Context, collection *feed.EntryCollection) []*fetch.FetchError {
	batches := make([][]*feed.Entry, len(c.sources))

	var mu sync.Mutex
	var failures []*fetch.FetchError

	var g errgroup.Group
	g.SetLimit(maxConcurrentFetches)

	for i, src := range c.sources {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
			defer cancel()

			entries, err := c.fetcher.Fetch(fetchCtx, src)
			if err != nil {
				logging.Warn("feed fetch failed", "feed", src.Name, "error", err)
				mu.Lock()
				failures = append(failures, asFetchError(src.Name, err))
				mu.Unlock()
				return nil // never fail the group, errors reported per feed
			}

			batches[i] = entries
			return nil
		})
	}

	_ = g.Wait()

	collection.Merge(batches...)
	return failures
}

// Prefetch starts one background refresh against a clone of base and
// reports whether it was started. A request made while another prefetch
// is in flight is dropped, not queued.
func (c *Coordinator) Prefetch(ctx context.Context, base *feed.EntryCollection) bool {
	c.mu.Lock()
	if c.inflight {
		c.mu.Unlock()
		return false
	}
	c.inflight = true
	c.mu.Unlock()

	clone := base.Clone()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		failures := c.Refresh(ctx, clone)

		c.mu.Lock()
		c.inflight = false
		// Drop any unclaimed earlier result; newest wins.
		select {
		case <-c.result:
		default:
		}
		c.result <- Result{Collection: clone, Failures: failures}
		c.mu.Unlock()

		logging.Info("prefetch complete", "entries", clone.Len(), "failed_feeds", len(failures))
	}()

	return true
}

// Await blocks until the in-flight prefetch result is available, up to
// timeout. If a finished result is already waiting it is returned
// immediately; if nothing is in flight and nothing is waiting, Await
// returns ErrNoPrefetch without blocking.
func (c *Coordinator) Await(ctx context.Context, timeout time.Duration) (Result, error) {
	c.mu.Lock()
	if !c.inflight {
		select {
		case res := <-c.result:
			c.mu.Unlock()
			return res, nil
		default:
			c.mu.Unlock()
			return Result{}, ErrNoPrefetch
		}
	}
	c.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-c.result:
		return res, nil
	case <-timer.C:
		return Result{}, ErrAwaitTimeout
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// InFlight reports whether a prefetch is currently running.
func (c *Coordinator) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight
}

// Wait blocks until any background prefetch goroutine exits. Call after
// canceling the context passed to Prefetch.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

func asFetchError(feedName string, err error) *fetch.FetchError {
	var fe *fetch.FetchError
	if errors.As(err, &fe) {
		return fe
	}
	return &fetch.FetchError{Feed: feedName, Err: err}
}
