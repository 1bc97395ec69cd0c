package feed

import "testing"

func TestNewEntryStripsHTMLSummary(t *testing.T) {
	e := NewEntry("nature", "title", "<p>Hello <b>world</b></p>", "http://example.com", "2025-01-01")
	if e.Summary != "Hello world" {
		t.Errorf("expected plain text summary, got %q", e.Summary)
	}
}

func TestMarkReadAndUnread(t *testing.T) {
	e := NewEntry("test", "t", "", "", "")
	if e.IsRead {
		t.Fatal("new entries must be unread")
	}
	e.MarkRead()
	if !e.IsRead {
		t.Error("expected read after MarkRead")
	}
	e.MarkUnread()
	if e.IsRead {
		t.Error("expected unread after MarkUnread")
	}
}

func TestStripHTML(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plain text", "plain text"},
		{"  padded  ", "padded"},
		{"<div><p>nested</p><p>blocks</p></div>", "nested blocks"},
		{"<p>a &amp; b</p>", "a & b"},
		{"line<br/>break", "line break"},
		{"", ""},
	}
	for _, c := range cases {
		if got := StripHTML(c.in); got != c.want {
			t.Errorf("StripHTML(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
