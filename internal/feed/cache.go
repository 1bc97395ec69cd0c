package feed

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio"
	jsoniter "github.com/json-iterator/go"
)

// ErrNoHistory is returned when no history file exists yet (first run).
// Callers fall back to an empty collection or a network refresh.
var ErrNoHistory = errors.New("history file not found")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Encode writes the collection as a JSON array in display order.
func (c *EntryCollection) Encode(w io.Writer) error {
	entries := c.entries
	if entries == nil {
		entries = []*Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	return nil
}

// Decode reads a JSON array of entries, preserving order. Missing fields
// on a record default to empty strings and unread.
func Decode(r io.Reader) (*EntryCollection, error) {
	var entries []*Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return &EntryCollection{entries: entries}, nil
}

// Save persists the collection to path. The file is replaced atomically
// so a crash mid-write never leaves a truncated history behind.
func (c *EntryCollection) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save history: %w", err)
	}

	t, err := renameio.TempFile("", path)
	if err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	defer t.Cleanup()

	if err := c.Encode(t); err != nil {
		return err
	}
	if err := t.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// Load reads the persisted collection from path. A missing file yields
// ErrNoHistory.
func Load(path string) (*EntryCollection, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoHistory, path)
		}
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	return Decode(f)
}
