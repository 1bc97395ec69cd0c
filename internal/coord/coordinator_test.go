package coord

import (
	"context"
	"errors"
	"testing"
	"time"

	"junefeed/internal/feed"
	"junefeed/internal/fetch"
)

// stubFetcher serves canned batches per feed name. An optional block
// channel holds every fetch until the test releases it.
type stubFetcher struct {
	batches map[string][]*feed.Entry
	errs    map[string]error
	delays  map[string]time.Duration
	block   chan struct{}
}

func (s *stubFetcher) Fetch(ctx context.Context, src fetch.Source) ([]*feed.Entry, error) {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if d := s.delays[src.Name]; d > 0 {
		time.Sleep(d)
	}
	if err := s.errs[src.Name]; err != nil {
		return nil, err
	}
	return s.batches[src.Name], nil
}

func batch(feedName string, titles ...string) []*feed.Entry {
	out := make([]*feed.Entry, len(titles))
	for i, t := range titles {
		out[i] = feed.NewEntry(feedName, t, "", "", "")
	}
	return out
}

func sources(names ...string) []fetch.Source {
	out := make([]fetch.Source, len(names))
	for i, n := range names {
		out[i] = fetch.Source{Name: n, URL: "http://example.com/" + n}
	}
	return out
}

func assertTitles(t *testing.T, c *feed.EntryCollection, want ...string) {
	t.Helper()
	if c.Len() != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), c.Len())
	}
	for i, w := range want {
		if c.At(i).Title != w {
			t.Fatalf("entry %d: expected %s, got %s", i, w, c.At(i).Title)
		}
	}
}

func TestRefreshMergesInConfiguredOrder(t *testing.T) {
	// Feed a finishes last; the merge must still follow config order,
	// which puts the later-configured feed b nearest the front.
	f := &stubFetcher{
		batches: map[string][]*feed.Entry{
			"a": batch("a", "a2", "a1"),
			"b": batch("b", "b2", "b1"),
		},
		delays: map[string]time.Duration{"a": 30 * time.Millisecond},
	}
	c := NewCoordinatorWithFetcher(f, sources("a", "b"))

	collection := feed.NewCollection()
	failures := c.Refresh(context.Background(), collection)

	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %v", failures)
	}
	assertTitles(t, collection, "b2", "b1", "a2", "a1")
}

func TestRefreshSkipsFailedFeeds(t *testing.T) {
	f := &stubFetcher{
		batches: map[string][]*feed.Entry{"ok": batch("ok", "x")},
		errs:    map[string]error{"broken": errors.New("boom")},
	}
	c := NewCoordinatorWithFetcher(f, sources("broken", "ok"))

	collection := feed.NewCollection()
	failures := c.Refresh(context.Background(), collection)

	if len(failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(failures))
	}
	if failures[0].Feed != "broken" {
		t.Errorf("expected failure for broken, got %s", failures[0].Feed)
	}
	assertTitles(t, collection, "x")
}

func TestPrefetchIsExclusive(t *testing.T) {
	f := &stubFetcher{
		batches: map[string][]*feed.Entry{"a": batch("a", "new")},
		block:   make(chan struct{}),
	}
	c := NewCoordinatorWithFetcher(f, sources("a"))
	base := feed.NewCollection()

	if !c.Prefetch(context.Background(), base) {
		t.Fatal("first prefetch should start")
	}
	if c.Prefetch(context.Background(), base) {
		t.Fatal("second prefetch must be dropped while one is in flight")
	}
	if !c.InFlight() {
		t.Error("expected a refresh in flight")
	}

	close(f.block)
	result, err := c.Await(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("await failed: %v", err)
	}
	assertTitles(t, result.Collection, "new")

	// The slot is free again.
	if !c.Prefetch(context.Background(), base) {
		t.Error("prefetch should start once the previous one finished")
	}
	c.Wait()
}

func TestPrefetchLeavesBaseUntouched(t *testing.T) {
	f := &stubFetcher{
		batches: map[string][]*feed.Entry{"a": batch("a", "new")},
	}
	c := NewCoordinatorWithFetcher(f, sources("a"))

	base := feed.NewCollection(feed.NewEntry("a", "old", "", "", ""))
	if !c.Prefetch(context.Background(), base) {
		t.Fatal("prefetch should start")
	}
	result, err := c.Await(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("await failed: %v", err)
	}

	assertTitles(t, base, "old")
	assertTitles(t, result.Collection, "new", "old")
}

func TestReadMarksSurviveAdoption(t *testing.T) {
	f := &stubFetcher{
		batches: map[string][]*feed.Entry{"a": batch("a", "new")},
		block:   make(chan struct{}),
	}
	c := NewCoordinatorWithFetcher(f, sources("a"))

	base := feed.NewCollection(feed.NewEntry("a", "old", "", "", ""))
	if !c.Prefetch(context.Background(), base) {
		t.Fatal("prefetch should start")
	}

	// The user marks an entry read while the refresh is running.
	base.At(0).MarkRead()
	close(f.block)

	result, err := c.Await(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("await failed: %v", err)
	}
	if !result.Collection.At(1).IsRead {
		t.Error("read mark made mid-refresh must be visible in the adopted collection")
	}
}

func TestAwaitWithoutPrefetch(t *testing.T) {
	c := NewCoordinatorWithFetcher(&stubFetcher{}, sources("a"))

	if _, err := c.Await(context.Background(), time.Second); !errors.Is(err, ErrNoPrefetch) {
		t.Errorf("expected ErrNoPrefetch, got %v", err)
	}
}

func TestAwaitTimesOut(t *testing.T) {
	f := &stubFetcher{block: make(chan struct{})}
	c := NewCoordinatorWithFetcher(f, sources("a"))

	if !c.Prefetch(context.Background(), feed.NewCollection()) {
		t.Fatal("prefetch should start")
	}
	if _, err := c.Await(context.Background(), 20*time.Millisecond); !errors.Is(err, ErrAwaitTimeout) {
		t.Errorf("expected ErrAwaitTimeout, got %v", err)
	}

	// The refresh keeps running; its result is still collectable.
	close(f.block)
	c.Wait()
	if _, err := c.Await(context.Background(), time.Second); err != nil {
		t.Errorf("expected buffered result after completion, got %v", err)
	}
}

func TestSecondPrefetchSupersedesStaleResult(t *testing.T) {
	f := &stubFetcher{
		batches: map[string][]*feed.Entry{"a": batch("a", "first")},
	}
	c := NewCoordinatorWithFetcher(f, sources("a"))
	base := feed.NewCollection()

	if !c.Prefetch(context.Background(), base) {
		t.Fatal("prefetch should start")
	}
	c.Wait()

	// The completed result was never collected. A new prefetch replaces it.
	f.batches["a"] = batch("a", "second")
	if !c.Prefetch(context.Background(), base) {
		t.Fatal("second prefetch should start")
	}

	result, err := c.Await(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("await failed: %v", err)
	}
	assertTitles(t, result.Collection, "second")
}
