package ui

import (
	"fmt"
	"strings"

	"junefeed/internal/feed"
	"junefeed/internal/nav"
)

// renderList draws the visible slice of the entry list, one row per
// entry, windowed by the navigator's scroll offset.
func (m Model) renderList() string {
	if m.navigator.Len() == 0 {
		if m.navigator.ShowRead() {
			return HelpStyle.Render("No entries yet. Press r to refresh.")
		}
		return HelpStyle.Render("All caught up. Press t to show read entries.")
	}

	var b strings.Builder
	visible := m.navigator.Visible()
	start := m.navigator.ScrollOffset()
	end := start + m.navigator.WindowHeight()
	if end > len(visible) {
		end = len(visible)
	}

	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(visible[i], i))
		b.WriteString("\n")
	}
	return b.String()
}

// renderRow formats one list row. The cursor row and its neighbors get
// distinct styles; read entries are dimmed everywhere else.
func (m Model) renderRow(e *feed.Entry, i int) string {
	badge := FeedBadge.Render(e.Feed)
	title := truncate(e.Title, m.titleWidth(e))
	line := fmt.Sprintf("%s %s  %s", badge, title, e.Date)

	switch m.navigator.HighlightState(i) {
	case nav.StateCurrent:
		return CurrentItem.Render(line)
	case nav.StateAdjacent:
		return AdjacentItem.Render(line)
	}
	if e.IsRead {
		return ReadItem.Render(line)
	}
	return NormalItem.Render(line)
}

func (m Model) titleWidth(e *feed.Entry) int {
	w := m.width - len(e.Feed) - len(e.Date) - 12
	if w < 20 {
		w = 20
	}
	return w
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
