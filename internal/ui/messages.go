// Package ui provides the Bubble Tea TUI for junefeed.
package ui

import "junefeed/internal/coord"

// RefreshStarted is sent when a background refresh has been kicked off.
type RefreshStarted struct{}

// RefreshDone is sent when a background refresh finishes and its result
// has been collected.
type RefreshDone struct {
	Result coord.Result
	Err    error
}

// HistorySaved is sent after the adopted collection has been written to
// disk following a refresh.
type HistorySaved struct {
	Err error
}

// EntryOpened is sent after an attempt to open the current entry's link
// in a browser.
type EntryOpened struct {
	Link string
	Err  error
}
