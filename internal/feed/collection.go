package feed

// EntryCollection is the ordered set of all known entries. Insertion order
// is display order: index 0 is the entry shown at the top of the list.
//
// The collection owns no locking. A caller that merges in the background
// must do so on a Clone and adopt the result by swapping references.
type EntryCollection struct {
	entries []*Entry
}

// NewCollection creates a collection holding the given entries in order.
func NewCollection(entries ...*Entry) *EntryCollection {
	c := &EntryCollection{entries: make([]*Entry, len(entries))}
	copy(c.entries, entries)
	return c
}

// Len returns the number of entries.
func (c *EntryCollection) Len() int {
	return len(c.entries)
}

// At returns the entry at index i, or nil if i is out of range.
func (c *EntryCollection) At(i int) *Entry {
	if i < 0 || i >= len(c.entries) {
		return nil
	}
	return c.entries[i]
}

// Entries returns the backing slice in display order. Callers must not
// reorder it; mutate entries only through MarkRead/MarkUnread.
func (c *EntryCollection) Entries() []*Entry {
	return c.entries
}

// Append adds an entry at the back. It is a low-level primitive and does
// not deduplicate; Merge is the only operation that guarantees unique
// titles.
func (c *EntryCollection) Append(e *Entry) {
	c.entries = append(c.entries, e)
}

// Pop removes and returns the entry at index i, or nil if out of range.
func (c *EntryCollection) Pop(i int) *Entry {
	if i < 0 || i >= len(c.entries) {
		return nil
	}
	e := c.entries[i]
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	return e
}

// IndexOf returns the position of e, or -1 if e is not in the collection.
// Identity is pointer identity, not title equality.
func (c *EntryCollection) IndexOf(e *Entry) int {
	for i, have := range c.entries {
		if have == e {
			return i
		}
	}
	return -1
}

// UnreadCount returns the number of unread entries.
func (c *EntryCollection) UnreadCount() int {
	n := 0
	for _, e := range c.entries {
		if !e.IsRead {
			n++
		}
	}
	return n
}

// Clone returns a collection with its own entry slice but shared Entry
// pointers. Merge only prepends, so a background merge on the clone never
// mutates entries the original still displays — and read marks made on
// the original mid-flight stay visible after the clone is adopted.
func (c *EntryCollection) Clone() *EntryCollection {
	return NewCollection(c.entries...)
}

// Merge folds freshly fetched batches into the collection, one batch per
// configured feed in configuration order. Each batch is newest-first as
// produced by its source.
//
// The set of known titles is snapshotted once, before any batch is
// applied: entries fetched during the same merge do not suppress each
// other, only entries already present beforehand do. Each batch is walked
// oldest-first and unseen entries are prepended, which restores
// newest-first order within the batch and leaves the last batch's entries
// nearest the front. Entries whose title is already known keep their
// stored fields and position.
func (c *EntryCollection) Merge(batches ...[]*Entry) {
	known := make(map[string]struct{}, len(c.entries))
	for _, e := range c.entries {
		known[e.Title] = struct{}{}
	}

	for _, batch := range batches {
		for i := len(batch) - 1; i >= 0; i-- {
			e := batch[i]
			if _, ok := known[e.Title]; ok {
				continue
			}
			c.entries = append([]*Entry{e}, c.entries...)
		}
	}
}
