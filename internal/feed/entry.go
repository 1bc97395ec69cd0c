// Package feed provides the junefeed data model: entries, the ordered
// entry collection with title-based merge deduplication, and the JSON
// history cache.
package feed

// Entry is a single item from an RSS/Atom feed.
//
// Summary holds plain text; HTML is stripped at construction. Date keeps
// the source-provided string verbatim, whatever format the feed used.
// After construction only the read flag changes.
type Entry struct {
	Feed    string `json:"feed"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Link    string `json:"link"`
	Date    string `json:"date"`
	IsRead  bool   `json:"is_read"`
}

// NewEntry builds an Entry, converting an HTML summary to plain text.
func NewEntry(feedName, title, summary, link, date string) *Entry {
	return &Entry{
		Feed:    feedName,
		Title:   title,
		Summary: StripHTML(summary),
		Link:    link,
		Date:    date,
	}
}

// MarkRead marks the entry as read.
func (e *Entry) MarkRead() {
	e.IsRead = true
}

// MarkUnread marks the entry as unread.
func (e *Entry) MarkUnread() {
	e.IsRead = false
}
