// Package nav maintains cursor, highlight and scroll state over a
// filterable entry list.
//
// The navigator is pure state: it renders nothing and is consumed by the
// presentation layer through Visible, Index, ScrollOffset and
// HighlightState. It is not safe for concurrent use; only the single
// interaction path may touch it. Refresh results arrive via SetCollection
// as a reference swap, never by mutating a navigator mid-read.
package nav

import (
	"junefeed/internal/feed"
)

// HighlightState classifies a visible row for rendering, derived purely
// from its distance to the cursor.
type HighlightState int

const (
	// StateDefault is any row more than one step from the cursor.
	StateDefault HighlightState = iota
	// StateAdjacent is the row directly above or below the cursor.
	StateAdjacent
	// StateCurrent is the cursor row. Exactly one row is current
	// whenever the visible list is non-empty.
	StateCurrent
)

// DefaultWindowHeight is the viewport height used until the presentation
// layer reports a real size.
const DefaultWindowHeight = 14

// Navigator owns the visible projection of an entry collection, the
// cursor into it, and the scroll window bookkeeping.
type Navigator struct {
	collection *feed.EntryCollection
	showRead   bool

	visible []*feed.Entry
	cursor  int
	scroll  int // backing index of the viewport's top row
	window  int
}

// New creates a navigator over collection. The cursor starts on the
// first (newest) visible entry.
func New(collection *feed.EntryCollection, showRead bool) *Navigator {
	n := &Navigator{
		collection: collection,
		showRead:   showRead,
		window:     DefaultWindowHeight,
	}
	n.rebuildVisible()
	return n
}

// SetWindowHeight updates the viewport height and keeps the cursor in
// view.
func (n *Navigator) SetWindowHeight(h int) {
	if h < 1 {
		h = 1
	}
	n.window = h
	n.ensureVisible()
}

// SetCollection swaps in a freshly refreshed collection. The cursor stays
// on the same logical entry when it survives the swap, otherwise it is
// clamped.
func (n *Navigator) SetCollection(collection *feed.EntryCollection) {
	var current *feed.Entry
	if n.cursor < len(n.visible) {
		current = n.visible[n.cursor]
	}

	n.collection = collection
	n.rebuildVisible()

	if current != nil {
		for i, e := range n.visible {
			if e == current {
				n.cursor = i
				break
			}
		}
	}
	n.clampCursor()
	n.ensureVisible()
}

// Collection returns the backing collection.
func (n *Navigator) Collection() *feed.EntryCollection {
	return n.collection
}

// Visible returns the filtered projection in display order.
func (n *Navigator) Visible() []*feed.Entry {
	return n.visible
}

// Len returns the number of visible entries.
func (n *Navigator) Len() int {
	return len(n.visible)
}

// Index returns the cursor position, or -1 when nothing is visible.
func (n *Navigator) Index() int {
	if len(n.visible) == 0 {
		return -1
	}
	return n.cursor
}

// Current returns the entry under the cursor, or nil when nothing is
// visible.
func (n *Navigator) Current() *feed.Entry {
	if len(n.visible) == 0 {
		return nil
	}
	return n.visible[n.cursor]
}

// ShowRead reports whether read entries are included in the projection.
func (n *Navigator) ShowRead() bool {
	return n.showRead
}

// ScrollOffset returns the visible index of the viewport's top row.
func (n *Navigator) ScrollOffset() int {
	return n.scroll
}

// WindowHeight returns the viewport height in rows.
func (n *Navigator) WindowHeight() int {
	return n.window
}

// HighlightState classifies visible row i relative to the cursor.
func (n *Navigator) HighlightState(i int) HighlightState {
	if len(n.visible) == 0 || i < 0 || i >= len(n.visible) {
		return StateDefault
	}
	switch d := i - n.cursor; d {
	case 0:
		return StateCurrent
	case -1, 1:
		return StateAdjacent
	default:
		return StateDefault
	}
}

// MoveDown advances the cursor one row, scrolling the viewport by one
// row when the cursor crosses its bottom edge. Moving past the end
// clamps. No-op when nothing is visible.
func (n *Navigator) MoveDown() {
	if len(n.visible) == 0 {
		return
	}
	if n.cursor < len(n.visible)-1 {
		n.cursor++
	}
	if n.cursor >= n.scroll+n.window-1 {
		n.scroll++
	}
	n.clampScroll()
}

// MoveUp moves the cursor one row back, scrolling the viewport by one
// row when the cursor crosses its top edge. Moving past the start
// clamps.
func (n *Navigator) MoveUp() {
	if len(n.visible) == 0 {
		return
	}
	if n.cursor > 0 {
		n.cursor--
	}
	if n.cursor <= n.scroll {
		n.scroll--
	}
	n.clampScroll()
}

// MarkRead marks the current entry as read. Under the hide-read filter
// the entry leaves the visible projection but stays in the backing
// collection, so unread/read counts survive a later filter toggle.
func (n *Navigator) MarkRead() {
	e := n.Current()
	if e == nil {
		return
	}
	e.MarkRead()
	if !n.showRead {
		n.visible = append(n.visible[:n.cursor], n.visible[n.cursor+1:]...)
		n.clampCursor()
		n.ensureVisible()
	}
}

// MarkUnread marks the current entry as unread. The entry was already
// visible, so the projection never changes.
func (n *Navigator) MarkUnread() {
	if e := n.Current(); e != nil {
		e.MarkUnread()
	}
}

// ToggleRead flips the current entry's read flag.
func (n *Navigator) ToggleRead() {
	e := n.Current()
	if e == nil {
		return
	}
	if e.IsRead {
		n.MarkUnread()
	} else {
		n.MarkRead()
	}
}

// ToggleFilter flips read-entry visibility, carrying the cursor to the
// same logical position instead of resetting it.
//
// Revealing read entries moves the cursor forward by the number of read
// entries at or before the current entry in the full collection (they
// now reappear in front of it). Hiding them moves it back by the same
// count. The viewport is then re-anchored so the cursor stays in view,
// with no animation.
func (n *Navigator) ToggleFilter() {
	if len(n.visible) == 0 {
		n.showRead = !n.showRead
		n.rebuildVisible()
		return
	}

	current := n.visible[n.cursor]
	backing := n.collection.IndexOf(current)

	n.showRead = !n.showRead
	n.rebuildVisible()

	if n.showRead {
		// Visible is now the full collection: the cursor lands on the
		// same entry at its backing position.
		n.cursor = backing
	} else {
		readBefore := 0
		for i, e := range n.collection.Entries() {
			if i > backing {
				break
			}
			if e.IsRead {
				readBefore++
			}
		}
		n.cursor = backing - readBefore
	}

	n.clampCursor()
	n.ensureVisible()
}

// rebuildVisible recomputes the projection and resets cursor bookkeeping
// into the new bounds.
func (n *Navigator) rebuildVisible() {
	n.visible = n.visible[:0]
	for _, e := range n.collection.Entries() {
		if n.showRead || !e.IsRead {
			n.visible = append(n.visible, e)
		}
	}
	n.clampCursor()
	n.clampScroll()
}

func (n *Navigator) clampCursor() {
	if n.cursor >= len(n.visible) {
		n.cursor = len(n.visible) - 1
	}
	if n.cursor < 0 {
		n.cursor = 0
	}
}

func (n *Navigator) clampScroll() {
	maxScroll := len(n.visible) - n.window
	if maxScroll < 0 {
		maxScroll = 0
	}
	if n.scroll > maxScroll {
		n.scroll = maxScroll
	}
	if n.scroll < 0 {
		n.scroll = 0
	}
}

// ensureVisible snaps the viewport so the cursor row is inside it.
func (n *Navigator) ensureVisible() {
	if n.cursor < n.scroll {
		n.scroll = n.cursor
	}
	if n.cursor >= n.scroll+n.window {
		n.scroll = n.cursor - n.window + 1
	}
	n.clampScroll()
}
