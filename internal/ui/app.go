package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"junefeed/internal/coord"
	"junefeed/internal/feed"
	"junefeed/internal/logging"
	"junefeed/internal/nav"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// refreshWait bounds how long the UI waits on a background refresh
// before giving up on it.
const refreshWait = 2 * time.Minute

// ViewMode represents the current screen.
type ViewMode int

const (
	ModeList ViewMode = iota
	ModeEntry
)

// Model is the root Bubble Tea model for junefeed.
type Model struct {
	navigator   *nav.Navigator
	coordinator *coord.Coordinator
	historyPath string

	// UI state
	mode      ViewMode
	width     int
	height    int
	spinner   spinner.Model
	loading   bool
	statusMsg string
	statusErr bool

	// Entry screen
	entryView viewport.Model
	entry     *feed.Entry

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates the app model over an already loaded navigator. An empty
// historyPath disables the write-through after refreshes; the final save
// on quit stays with the caller.
func New(navigator *nav.Navigator, coordinator *coord.Coordinator, historyPath string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = StatusBarKey

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		navigator:   navigator,
		coordinator: coordinator,
		historyPath: historyPath,
		mode:        ModeList,
		spinner:     s,
		statusMsg:   "Starting...",
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Collection returns the entry collection currently on screen. The
// caller persists it after the program exits.
func (m Model) Collection() *feed.EntryCollection {
	return m.navigator.Collection()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.startRefresh(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.navigator.SetWindowHeight(msg.Height - 3) // Reserve for header/status
		m.entryView.Width = msg.Width
		m.entryView.Height = msg.Height - 3
		if m.entry != nil {
			m.entryView.SetContent(m.renderEntryContent())
		}

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case RefreshStarted:
		m.loading = true
		m.statusMsg = "Refreshing..."
		m.statusErr = false
		cmds = append(cmds, m.awaitRefresh())

	case RefreshDone:
		m.loading = false
		if msg.Err != nil {
			m.statusMsg = fmt.Sprintf("Refresh failed: %v", msg.Err)
			m.statusErr = true
			logging.Error("refresh failed", "err", msg.Err)
			break
		}
		before := m.navigator.Collection().Len()
		m.navigator.SetCollection(msg.Result.Collection)
		added := msg.Result.Collection.Len() - before
		if len(msg.Result.Failures) > 0 {
			m.statusMsg = fmt.Sprintf("%d new entries, %d feeds failed", added, len(msg.Result.Failures))
			m.statusErr = true
		} else {
			m.statusMsg = fmt.Sprintf("%d new entries", added)
			m.statusErr = false
		}
		cmds = append(cmds, m.saveHistory())

	case HistorySaved:
		if msg.Err != nil {
			m.statusMsg = fmt.Sprintf("History save failed: %v", msg.Err)
			m.statusErr = true
			logging.Error("history save failed", "err", msg.Err)
		}

	case EntryOpened:
		if msg.Err != nil {
			m.statusMsg = fmt.Sprintf("Open failed: %v", msg.Err)
			m.statusErr = true
		} else {
			m.statusMsg = msg.Link
			m.statusErr = false
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		// On the entry screen q backs out; only ctrl+c force-quits
		// from there.
		if m.mode == ModeEntry && msg.String() == "q" {
			m.mode = ModeList
			m.entry = nil
			return m, nil
		}
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, keys.Back):
		if m.mode == ModeEntry {
			m.mode = ModeList
			m.entry = nil
		}
		return m, nil

	case key.Matches(msg, keys.Refresh):
		return m, m.startRefresh()

	case key.Matches(msg, keys.Open):
		return m, m.openCurrent()
	}

	if m.mode == ModeEntry {
		var cmd tea.Cmd
		m.entryView, cmd = m.entryView.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.Down):
		m.navigator.MoveDown()
	case key.Matches(msg, keys.Up):
		m.navigator.MoveUp()
	case key.Matches(msg, keys.ToggleRead):
		m.navigator.ToggleRead()
	case key.Matches(msg, keys.ToggleFilter):
		m.navigator.ToggleFilter()
		m.statusErr = false
		if m.navigator.ShowRead() {
			m.statusMsg = "Showing read entries"
		} else {
			m.statusMsg = "Hiding read entries"
		}
	case key.Matches(msg, keys.Enter):
		if e := m.navigator.Current(); e != nil {
			m.entry = e
			m.navigator.MarkRead()
			m.mode = ModeEntry
			m.entryView.SetContent(m.renderEntryContent())
			m.entryView.GotoTop()
		}
	}
	return m, nil
}

// startRefresh kicks off a background refresh over a clone of the
// current collection. A refresh already in flight makes this a no-op;
// the pending await will pick up its result.
func (m Model) startRefresh() tea.Cmd {
	collection := m.navigator.Collection()
	return func() tea.Msg {
		if !m.coordinator.Prefetch(m.ctx, collection) {
			return nil
		}
		return RefreshStarted{}
	}
}

func (m Model) awaitRefresh() tea.Cmd {
	return func() tea.Msg {
		result, err := m.coordinator.Await(m.ctx, refreshWait)
		return RefreshDone{Result: result, Err: err}
	}
}

// saveHistory writes the collection through to disk right after a
// refresh is adopted, so a crash before quit cannot lose merged entries.
func (m Model) saveHistory() tea.Cmd {
	if m.historyPath == "" {
		return nil
	}
	collection := m.navigator.Collection()
	path := m.historyPath
	return func() tea.Msg {
		return HistorySaved{Err: collection.Save(path)}
	}
}

func (m Model) openCurrent() tea.Cmd {
	e := m.entry
	if m.mode == ModeList {
		e = m.navigator.Current()
	}
	if e == nil {
		return nil
	}
	link := e.Link
	return func() tea.Msg {
		return EntryOpened{Link: link, Err: openInBrowser(link)}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch m.mode {
	case ModeList:
		b.WriteString(m.renderList())
	case ModeEntry:
		b.WriteString(m.entryView.View())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	return b.String()
}

func (m Model) renderHeader() string {
	collection := m.navigator.Collection()
	left := fmt.Sprintf("JUNEFEED │ %d entries │ %d unread", collection.Len(), collection.UnreadCount())

	right := ""
	if m.loading {
		right = m.spinner.View() + " refreshing"
	}

	// lipgloss.Width, not len: the separator runes are multibyte and
	// the spinner carries escape sequences.
	padding := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if padding < 0 {
		padding = 0
	}
	return StatusBar.Render(left + strings.Repeat(" ", padding) + right)
}

func (m Model) renderStatusBar() string {
	help := "j/k: move  enter: read  m: mark  t: filter  r: refresh  o: open  q: quit"
	if m.mode == ModeEntry {
		help = "esc/q: back  o: open"
	}
	status := m.statusMsg
	if m.statusErr {
		status = ErrorStyle.Render(m.statusMsg)
	}
	return StatusBar.Render(fmt.Sprintf("%s │ %s", status, StatusBarText.Render(help)))
}

func (m Model) renderEntryContent() string {
	if m.entry == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(EntryTitle.Render(m.entry.Title))
	b.WriteString("\n")
	b.WriteString(EntryMeta.Render(fmt.Sprintf("%s · %s", m.entry.Feed, m.entry.Date)))
	if m.entry.Link != "" {
		b.WriteString("\n")
		b.WriteString(EntryMeta.Render(m.entry.Link))
	}
	b.WriteString("\n\n")
	b.WriteString(wrap(m.entry.Summary, m.width-4))
	return b.String()
}

// wrap breaks text into lines no wider than width, on word boundaries.
// A single word longer than width is hard-broken mid-word.
func wrap(s string, width int) string {
	if width < 20 {
		width = 20
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	line := 0
	for _, w := range words {
		for len(w) > width {
			if line > 0 {
				b.WriteString("\n")
				line = 0
			}
			b.WriteString(w[:width])
			b.WriteString("\n")
			w = w[width:]
		}
		if w == "" {
			continue
		}
		if line > 0 && line+1+len(w) > width {
			b.WriteString("\n")
			line = 0
		} else if line > 0 {
			b.WriteString(" ")
			line++
		}
		b.WriteString(w)
		line += len(w)
	}
	return b.String()
}

// Key bindings
var keys = struct {
	Quit         key.Binding
	Back         key.Binding
	Up           key.Binding
	Down         key.Binding
	ToggleRead   key.Binding
	ToggleFilter key.Binding
	Refresh      key.Binding
	Open         key.Binding
	Enter        key.Binding
}{
	Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c")),
	Back:         key.NewBinding(key.WithKeys("esc")),
	Up:           key.NewBinding(key.WithKeys("up", "k")),
	Down:         key.NewBinding(key.WithKeys("down", "j")),
	ToggleRead:   key.NewBinding(key.WithKeys("m")),
	ToggleFilter: key.NewBinding(key.WithKeys("t")),
	Refresh:      key.NewBinding(key.WithKeys("r")),
	Open:         key.NewBinding(key.WithKeys("o")),
	Enter:        key.NewBinding(key.WithKeys("enter")),
}
