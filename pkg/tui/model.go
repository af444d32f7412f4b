// SPDX-License-Identifier: GPL-3.0-only
package tui

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bascanada/logexplorer/pkg/datasource"
	"github.com/bascanada/logexplorer/pkg/explore"
	"github.com/bascanada/logexplorer/pkg/explore/query"
	"github.com/bascanada/logexplorer/pkg/explore/view"
	"github.com/bascanada/logexplorer/pkg/log"
	"github.com/bascanada/logexplorer/pkg/ty"
)

const requestTimeout = 30 * time.Second

// FocusMode represents which component has focus
type FocusMode int

const (
	FocusList FocusMode = iota
	FocusChips
	FocusPrompt
)

// StartValuesMsg delivers the values offered as starting points.
type StartValuesMsg struct {
	Seq    int
	Values []string
	Err    error
}

// EntriesMsg delivers the result of a logs query.
type EntriesMsg struct {
	Seq     int
	Entries []datasource.Entry
	Err     error
}

// FileChangedMsg is sent when the watched file datasource changed.
type FileChangedMsg struct{}

// ClearStatusMsg is sent to clear status messages
type ClearStatusMsg struct{}

// Model is the main TUI state. It drives one exploration and renders the
// tree composed from it.
type Model struct {
	// Window dimensions
	Width  int
	Height int

	Exploration  *explore.Exploration
	Source       datasource.Source
	DatasourceID string
	Limit        int
	// Changes, when set, triggers a refresh on every signal.
	Changes <-chan struct{}
	// Clock is used for time ranges and relative times.
	Clock func() time.Time
	// Clipboard receives the share link, clipboard.WriteAll by default.
	Clipboard func(string) error

	// UI State
	Focus    FocusMode
	Chips    view.ChipFocus
	ShowHelp bool

	// Start selector
	StartValues []string
	StartCursor int

	// Logs
	Entries []datasource.Entry
	Cursor  int
	Loading bool
	Err     error
	seq     int

	// Components
	Prompt    Prompt
	StatusBar StatusBar
	Viewport  viewport.Model
	SidebarVP viewport.Model

	// Styling
	Styles Styles
	Keys   KeyMap

	tree *view.Tree
}

// New creates a model for an activated exploration.
func New(e *explore.Exploration, src datasource.Source, datasourceID string) Model {
	m := Model{
		Width:        80,
		Height:       24,
		Exploration:  e,
		Source:       src,
		DatasourceID: datasourceID,
		Clock:        time.Now,
		Clipboard:    clipboard.WriteAll,
		Focus:        FocusList,
		Chips:        view.NoChipFocus,
		Prompt:       NewPrompt(),
		StatusBar:    NewStatusBar(),
		Viewport:     viewport.New(80, 20),
		SidebarVP:    viewport.New(30, 20),
		Styles:       DefaultStyles(),
		Keys:         DefaultKeyMap(),
	}
	if src != nil {
		// the first request is issued by Init
		m.seq = 1
		m.Loading = true
	}
	m.sync()
	return m
}

// Init loads the view matching the current mode.
func (m Model) Init() tea.Cmd {
	log.Debug("tui init exploration=%s mode=%q", m.Exploration.ID(), m.Exploration.State().Mode)
	return tea.Batch(m.fetch(m.seq), m.waitForChange())
}

func (m Model) inLogs() bool { return m.Exploration.State().Mode == explore.ModeLogs }

// loadCmd starts a new request for what the current top view shows.
// Results of earlier requests are dropped when they arrive.
func (m *Model) loadCmd() tea.Cmd {
	if m.Source == nil {
		return nil
	}
	m.seq++
	m.Loading = true
	m.Err = nil
	return m.fetch(m.seq)
}

func (m Model) fetch(seq int) tea.Cmd {
	src := m.Source
	if src == nil {
		return nil
	}

	if !m.inLogs() {
		label := m.Exploration.StartingLabel()
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			values, err := src.LabelValues(ctx, label)
			return StartValuesMsg{Seq: seq, Values: values, Err: err}
		}
	}

	req := datasource.NewRequest(m.Exploration, m.Clock(), m.Limit)
	log.Debug("tui query %q", req.Query)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		entries, err := src.Query(ctx, req)
		return EntriesMsg{Seq: seq, Entries: entries, Err: err}
	}
}

func (m Model) waitForChange() tea.Cmd {
	ch := m.Changes
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return FileChangedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case tea.KeyMsg:
		var cmd tea.Cmd
		switch m.Focus {
		case FocusPrompt:
			m, cmd = m.handlePromptInput(msg)
		case FocusChips:
			m, cmd = m.handleChipKey(msg)
		default:
			m, cmd = m.handleKeyPress(msg)
		}
		cmds = append(cmds, cmd)

	case StartValuesMsg:
		if msg.Seq != m.seq {
			break
		}
		m.Loading = false
		m.Err = msg.Err
		m.StartValues = msg.Values
		m.StartCursor = min(m.StartCursor, max(0, len(msg.Values)-1))

	case EntriesMsg:
		if msg.Seq != m.seq {
			log.Trace("tui drop stale result seq=%d current=%d", msg.Seq, m.seq)
			break
		}
		m.Loading = false
		m.Err = msg.Err
		m.Entries = msg.Entries
		m.Cursor = min(m.Cursor, max(0, len(msg.Entries)-1))

	case FileChangedMsg:
		cmds = append(cmds, m.loadCmd(), m.waitForChange())

	case ClearStatusMsg:
		m.StatusBar.ClearMessage()
	}

	m.sync()
	return m, tea.Batch(cmds...)
}

// handleKeyPress processes keyboard input while the list has the focus.
func (m Model) handleKeyPress(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Help):
		m.ShowHelp = !m.ShowHelp
		return m, nil

	case key.Matches(msg, m.Keys.Refresh):
		cmd := m.loadCmd()
		return m, cmd

	case key.Matches(msg, m.Keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.Keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.Keys.PageUp):
		m.moveCursor(-10)
	case key.Matches(msg, m.Keys.PageDown):
		m.moveCursor(10)
	case key.Matches(msg, m.Keys.Home):
		m.moveCursor(-len(m.Entries) - len(m.StartValues))
	case key.Matches(msg, m.Keys.End):
		m.moveCursor(len(m.Entries) + len(m.StartValues))

	case key.Matches(msg, m.Keys.Select):
		return m.selectCurrent()
	}

	if !m.inLogs() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.Keys.ToggleDetails):
		cmd := m.check(m.Exploration.ToggleDetails())
		return m, cmd

	case key.Matches(msg, m.Keys.NextChip):
		if n := len(m.Exploration.State().Patterns); n > 0 {
			m.Chips = m.Chips.Next(n)
			m.Focus = FocusChips
		}

	case key.Matches(msg, m.Keys.PrevChip):
		if n := len(m.Exploration.State().Patterns); n > 0 {
			m.Chips = m.Chips.Prev(n)
			m.Focus = FocusChips
		}

	case key.Matches(msg, m.Keys.IncludePattern):
		return m.openPrompt(PromptInclude, "", nil)
	case key.Matches(msg, m.Keys.ExcludePattern):
		return m.openPrompt(PromptExclude, "", nil)
	case key.Matches(msg, m.Keys.FieldFilter):
		return m.openPrompt(PromptField, "", m.fieldSuggestions())
	case key.Matches(msg, m.Keys.LineFilter):
		return m.openPrompt(PromptLine, m.Exploration.Variables().LineFilter.Value(), nil)
	case key.Matches(msg, m.Keys.TimeRange):
		return m.openPrompt(PromptTime, ty.FormatLast(m.Exploration.State().TimeRange.Last), nil)

	case key.Matches(msg, m.Keys.ClearFilters):
		vars := m.Exploration.Variables()
		if err := vars.FieldFilters().ReplaceAll(nil); err != nil {
			cmd := m.showStatusMessage(err.Error())
			return m, cmd
		}
		vars.LineFilter.ChangeValueTo("")
		cmd := m.loadCmd()
		return m, cmd

	case key.Matches(msg, m.Keys.Share):
		cmd := m.copyShareLink()
		return m, cmd

	case key.Matches(msg, m.Keys.StartOver):
		return m.startOver()
	}

	return m, nil
}

// handleChipKey handles input while a pattern chip has the focus.
func (m Model) handleChipKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	patterns := chipPatterns(m.tree)
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Cancel):
		m.Chips = m.Chips.Blur()
		m.Focus = FocusList
	case key.Matches(msg, m.Keys.NextChip):
		m.Chips = m.Chips.Next(len(patterns))
	case key.Matches(msg, m.Keys.PrevChip):
		m.Chips = m.Chips.Prev(len(patterns))
	case key.Matches(msg, m.Keys.ExpandChip):
		m.Chips = m.Chips.Toggle()
	case key.Matches(msg, m.Keys.RemoveChip):
		if m.Chips.Index < 0 || m.Chips.Index >= len(patterns) {
			return m, nil
		}
		removed, err := m.Exploration.RemovePattern(patterns[m.Chips.Index])
		if err != nil {
			cmd := m.check(err)
			return m, cmd
		}
		m.Chips = m.Chips.Clamp(len(patterns) - 1)
		if !m.Chips.Focused() {
			m.Focus = FocusList
		}
		if removed {
			cmd := m.loadCmd()
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) openPrompt(kind PromptKind, value string, suggestions []string) (Model, tea.Cmd) {
	m.Focus = FocusPrompt
	m.Chips = m.Chips.Blur()
	cmd := m.Prompt.Open(kind, value, suggestions)
	return m, cmd
}

// handlePromptInput handles input when the footer prompt is open.
func (m Model) handlePromptInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.Prompt.Close()
		m.Focus = FocusList
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEnter:
		kind, value := m.Prompt.Close()
		m.Focus = FocusList
		if err := m.applyPrompt(kind, value); err != nil {
			cmd := m.showStatusMessage(err.Error())
			return m, cmd
		}
		cmd := m.loadCmd()
		return m, cmd
	}

	var cmd tea.Cmd
	m.Prompt, cmd = m.Prompt.Update(msg)
	return m, cmd
}

// applyPrompt feeds the typed value into the exploration.
func (m *Model) applyPrompt(kind PromptKind, value string) error {
	vars := m.Exploration.Variables()
	switch kind {
	case PromptInclude, PromptExclude:
		if _, err := query.CompilePattern(value); err != nil {
			return err
		}
		typ := query.Include
		if kind == PromptExclude {
			typ = query.Exclude
		}
		return m.Exploration.AddPattern(query.AppliedPattern{Pattern: value, Type: typ})

	case PromptField:
		t, err := query.ParseFilterExpr(value)
		if err != nil {
			return err
		}
		return vars.FieldFilters().Add(t)

	case PromptLine:
		vars.LineFilter.ChangeValueTo(value)

	case PromptTime:
		d, err := ty.ParseLast(value)
		if err != nil {
			return err
		}
		return m.Exploration.SetTimeRange(d)
	}
	return nil
}

func (m *Model) moveCursor(delta int) {
	if m.inLogs() {
		m.Cursor = clamp(m.Cursor+delta, len(m.Entries))
		return
	}
	m.StartCursor = clamp(m.StartCursor+delta, len(m.StartValues))
}

func clamp(i, n int) int {
	if n == 0 {
		return 0
	}
	return max(0, min(i, n-1))
}

// selectCurrent picks the starting point under the cursor, or shows the
// details of the selected entry.
func (m Model) selectCurrent() (Model, tea.Cmd) {
	if !m.inLogs() {
		if len(m.StartValues) == 0 {
			return m, nil
		}
		value := m.StartValues[m.StartCursor]
		m.Exploration.SelectStartingPoint(value)
		if !m.inLogs() {
			cmd := m.showStatusMessage(fmt.Sprintf("could not start from %q", value))
			return m, cmd
		}
		m.Entries = nil
		m.Cursor = 0
		cmd := m.loadCmd()
		return m, cmd
	}

	if len(m.Entries) == 0 {
		return m, nil
	}
	cmd := m.check(m.Exploration.UpdateDetails(m.Entries[m.Cursor].Details()))
	return m, cmd
}

// startOver returns to the starting point selector, dropping the label
// filters bound by the previous selection.
func (m Model) startOver() (Model, tea.Cmd) {
	if err := m.Exploration.Variables().LabelFilters().ReplaceAll(nil); err != nil {
		cmd := m.check(err)
		return m, cmd
	}
	if err := m.Exploration.SetMode(explore.ModeStart); err != nil {
		cmd := m.check(err)
		return m, cmd
	}
	m.Chips = view.NoChipFocus
	m.Entries = nil
	m.Cursor = 0
	cmd := m.loadCmd()
	return m, cmd
}

func (m *Model) copyShareLink() tea.Cmd {
	link := explore.ShareURL(m.Exploration.GetURLState())
	if err := m.Clipboard(link); err != nil {
		return m.showStatusMessage(fmt.Sprintf("Clipboard error: %v", err))
	}
	return m.showStatusMessage("Link copied: " + link)
}

// fieldSuggestions offers "key=" for every field of the loaded entries.
func (m Model) fieldSuggestions() []string {
	keys := map[string]bool{}
	for _, e := range m.Entries {
		for k := range e.Fields {
			keys[k+"="] = true
		}
	}
	return slices.Sorted(maps.Keys(keys))
}

// check surfaces err in the status bar.
func (m *Model) check(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	if errors.Is(err, explore.ErrUnsettled) {
		log.Error("tui: %v", err)
	}
	return m.showStatusMessage(err.Error())
}

// showStatusMessage temporarily shows a message in the status bar
// Returns a command that will clear the message after a delay
func (m *Model) showStatusMessage(message string) tea.Cmd {
	m.StatusBar.SetMessage(message)
	return tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// sync recomposes the layout tree and refreshes the components from it.
func (m *Model) sync() {
	m.tree = view.Compose(view.InputOf(m.Exploration, m.Chips))
	state := m.Exploration.State()

	m.StatusBar.Width = m.Width
	m.StatusBar.Datasource = m.DatasourceID
	m.StatusBar.Mode = string(state.Mode)
	m.StatusBar.Last = state.TimeRange.Last
	m.StatusBar.Query = m.Exploration.Query()
	m.StatusBar.Loading = m.Loading
	m.StatusBar.EntryCount = len(m.Entries)
	m.StatusBar.CursorPosition = m.Cursor
	if !m.inLogs() {
		m.StatusBar.EntryCount = len(m.StartValues)
		m.StatusBar.CursorPosition = m.StartCursor
	}

	m.updateViewportSizes()
	m.updateViewportContent()
	m.updateSidebarContent()
}
