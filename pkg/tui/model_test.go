// SPDX-License-Identifier: GPL-3.0-only
package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bascanada/logexplorer/pkg/datasource"
	"github.com/bascanada/logexplorer/pkg/explore"
	"github.com/bascanada/logexplorer/pkg/explore/filter"
	"github.com/bascanada/logexplorer/pkg/explore/query"
	"github.com/bascanada/logexplorer/pkg/ty"
)

var testNow = time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)

// fakeSource serves fixed values and records the requests it receives.
type fakeSource struct {
	mu      sync.Mutex
	values  []string
	entries []datasource.Entry
	err     error
	reqs    []datasource.Request
}

func (f *fakeSource) Query(_ context.Context, req datasource.Request) ([]datasource.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	return f.entries, f.err
}

func (f *fakeSource) LabelValues(_ context.Context, _ string) ([]string, error) {
	return f.values, f.err
}

func (f *fakeSource) requests() []datasource.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]datasource.Request(nil), f.reqs...)
}

func sampleEntries() []datasource.Entry {
	return []datasource.Entry{
		{
			Timestamp: testNow.Add(-time.Minute),
			Line:      `level=error msg="db timeout"`,
			Labels:    ty.MS{"app": "api"},
			Fields:    ty.MS{"level": "error", "msg": "db timeout"},
		},
		{
			Timestamp: testNow.Add(-2 * time.Minute),
			Line:      `level=info msg="GET /health"`,
			Labels:    ty.MS{"app": "api"},
			Fields:    ty.MS{"level": "info", "msg": "GET /health"},
		},
	}
}

func newFakeSource() *fakeSource {
	return &fakeSource{values: []string{"api", "web"}, entries: sampleEntries()}
}

func newTestModel(t *testing.T, src datasource.Source, opts explore.Options) (Model, *string) {
	t.Helper()
	if opts.StartingLabel == "" {
		opts.StartingLabel = "app"
	}
	e := explore.New(opts)
	t.Cleanup(e.Activate())

	var copied string
	m := New(e, src, "local")
	m.Clock = func() time.Time { return testNow }
	m.Clipboard = func(s string) error {
		copied = s
		return nil
	}
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	return m, &copied
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model
}

func press(t *testing.T, m Model, k tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(k)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// load resolves the pending request synchronously.
func load(t *testing.T, m Model) Model {
	t.Helper()
	cmd := m.fetch(m.seq)
	require.NotNil(t, cmd)
	return update(t, m, cmd())
}

// inLogsWithEntries moves a model past the start selector.
func inLogsWithEntries(t *testing.T, opts explore.Options) (Model, *fakeSource, *string) {
	t.Helper()
	src := newFakeSource()
	m, copied := newTestModel(t, src, opts)
	m = load(t, m)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, explore.ModeLogs, m.Exploration.State().Mode)
	m = load(t, m)
	require.Len(t, m.Entries, 2)
	return m, src, copied
}

func TestNew_LoadingUntilFirstResult(t *testing.T) {
	m, _ := newTestModel(t, newFakeSource(), explore.Options{Mode: explore.ModeStart})
	assert.True(t, m.Loading)
	assert.Contains(t, m.View(), "Loading...")

	m = load(t, m)
	assert.False(t, m.Loading)
	assert.Equal(t, []string{"api", "web"}, m.StartValues)
	assert.Contains(t, m.View(), "Select a app")
}

func TestNew_WithoutSource(t *testing.T) {
	m, _ := newTestModel(t, nil, explore.Options{})
	assert.False(t, m.Loading)
	assert.Nil(t, m.Init())
	assert.Contains(t, m.View(), "No datasource configured.")
}

func TestSelectStartingPoint(t *testing.T) {
	src := newFakeSource()
	m, _ := newTestModel(t, src, explore.Options{Mode: explore.ModeStart})
	m = load(t, m)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.StartCursor)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, explore.ModeLogs, m.Exploration.State().Mode)
	assert.True(t, m.Loading)
	assert.Equal(t,
		[]filter.Triple{{Key: "app", Operator: filter.OpEqual, Value: "web"}},
		m.Exploration.Variables().LabelFilters().Filters())

	m = load(t, m)
	assert.Len(t, m.Entries, 2)
	reqs := src.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, testNow, reqs[0].To)
	assert.Equal(t, testNow.Add(-explore.DefaultLast), reqs[0].From)
	assert.Contains(t, reqs[0].Query, "app=`web`")

	view := m.View()
	assert.Contains(t, view, "db timeout")
	assert.Contains(t, view, "ERROR")
	assert.Contains(t, view, "Last 15m")
}

func TestStaleResultsDropped(t *testing.T) {
	m, src, _ := inLogsWithEntries(t, explore.Options{Mode: explore.ModeStart})
	stale := m.fetch(m.seq)

	m, cmd := press(t, m, runes("r"))
	require.NotNil(t, cmd)
	assert.True(t, m.Loading)

	src.entries = nil
	m = update(t, m, stale())
	assert.True(t, m.Loading, "a stale result must not end the current request")
	assert.Len(t, m.Entries, 2)

	m = load(t, m)
	assert.False(t, m.Loading)
	assert.Empty(t, m.Entries)
	assert.Contains(t, m.View(), "No log entries found.")
}

func TestBackendError(t *testing.T) {
	src := newFakeSource()
	src.err = errors.New("connection refused")
	m, _ := newTestModel(t, src, explore.Options{Mode: explore.ModeLogs})

	m = load(t, m)
	assert.Error(t, m.Err)
	assert.Contains(t, m.View(), "Backend Error")
	assert.Contains(t, m.View(), "connection refused")
}

func TestDetailsPanel(t *testing.T) {
	m, _, _ := inLogsWithEntries(t, explore.Options{Mode: explore.ModeStart})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	state := m.Exploration.State()
	require.True(t, state.DetailsVisible)
	require.NotNil(t, state.Details)
	assert.Equal(t, `level=info msg="GET /health"`, state.Details.Line)
	assert.Less(t, m.Viewport.Width, m.Width)

	view := m.View()
	assert.Contains(t, view, "Fields")
	assert.Contains(t, view, "2 minutes ago")
	assert.Equal(t, m.Exploration.ID(), state.Details.Session)
	assert.Contains(t, m.SidebarVP.View(), "session: "+m.Exploration.ID()[:8])

	m, _ = press(t, m, runes("d"))
	assert.False(t, m.Exploration.State().DetailsVisible)
	assert.Equal(t, m.Width, m.Viewport.Width)
}

func TestPromptAddsPatterns(t *testing.T) {
	tests := []struct {
		key      string
		pattern  string
		expected query.PatternType
	}{
		{"p", "<_> level=error <_>", query.Include},
		{"P", "<_>GET /health<_>", query.Exclude},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m, src, _ := inLogsWithEntries(t, explore.Options{Mode: explore.ModeStart})

			m, _ = press(t, m, runes(tt.key))
			require.Equal(t, FocusPrompt, m.Focus)
			assert.True(t, m.Prompt.Active())

			m, _ = press(t, m, runes(tt.pattern))
			m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
			require.NotNil(t, cmd)
			assert.Equal(t, FocusList, m.Focus)
			assert.Equal(t,
				[]query.AppliedPattern{{Pattern: tt.pattern, Type: tt.expected}},
				m.Exploration.State().Patterns)

			load(t, m)
			reqs := src.requests()
			assert.Equal(t, m.Exploration.State().Patterns, reqs[len(reqs)-1].Patterns)
		})
	}
}

func TestPromptRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"p", "<_>"},
		{"f", "no operator"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m, _, _ := inLogsWithEntries(t, explore.Options{Mode: explore.ModeStart})
			seq := m.seq

			m, _ = press(t, m, runes(tt.key))
			m, _ = press(t, m, runes(tt.value))
			m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

			assert.Empty(t, m.Exploration.State().Patterns)
			assert.Equal(t, 0, m.Exploration.Variables().FieldFilters().Len())
			assert.NotEmpty(t, m.StatusBar.Message)
			assert.Equal(t, seq, m.seq, "no request after a rejected input")
		})
	}
}

func TestPromptEscapeCancels(t *testing.T) {
	m, _, _ := inLogsWithEntries(t, explore.Options{Mode: explore.ModeStart})

	m, _ = press(t, m, runes("p"))
	m, _ = press(t, m, runes("<_>boom<_>"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, FocusList, m.Focus)
	assert.False(t, m.Prompt.Active())
	assert.Empty(t, m.Exploration.State().Patterns)
}

func TestFieldAndLineFilters(t *testing.T) {
	m, _, _ := inLogsWithEntries(t, explore.Options{Mode: explore.ModeStart})

	m, _ = press(t, m, runes("f"))
	assert.Contains(t, m.Prompt.Input.AvailableSuggestions(), "level=")
	m, _ = press(t, m, runes("level!=info"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t,
		[]filter.Triple{{Key: "level", Operator: filter.OpNotEqual, Value: "info"}},
		m.Exploration.Variables().FieldFilters().Filters())

	m, _ = press(t, m, runes("/"))
	m, _ = press(t, m, runes("timeout"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "timeout", m.Exploration.Variables().LineFilter.Value())
	assert.Contains(t, m.StatusBar.Query, "timeout")

	m, _ = press(t, m, runes("X"))
	assert.Equal(t, 0, m.Exploration.Variables().FieldFilters().Len())
	assert.Empty(t, m.Exploration.Variables().LineFilter.Value())
}

func TestTimeRangePrompt(t *testing.T) {
	m, _, _ := inLogsWithEntries(t, explore.Options{Mode: explore.ModeStart})

	m, _ = press(t, m, runes("t"))
	assert.Equal(t, "15m", m.Prompt.Input.Value())

	m.Prompt.Input.SetValue("2h")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 2*time.Hour, m.Exploration.State().TimeRange.Last)
	assert.Contains(t, m.View(), "Last 2h")
}

func TestChipFocusAndRemoval(t *testing.T) {
	patterns := []query.AppliedPattern{
		{Pattern: "<_>GET<_>", Type: query.Include},
		{Pattern: "<_>health<_>", Type: query.Exclude},
	}
	m, _, _ := inLogsWithEntries(t, explore.Options{Mode: explore.ModeStart, Patterns: patterns})

	view := m.View()
	assert.Contains(t, view, "Include patterns:")
	assert.Contains(t, view, "Exclude patterns:")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, FocusChips, m.Focus)
	assert.Equal(t, 0, m.Chips.Index)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 1, m.Chips.Index)
	assert.Contains(t, m.View(), "▸ ")

	m, cmd := press(t, m, runes("x"))
	require.NotNil(t, cmd)
	assert.Equal(t, patterns[:1], m.Exploration.State().Patterns)
	assert.Equal(t, 0, m.Chips.Index)

	m, _ = press(t, m, runes("x"))
	assert.Empty(t, m.Exploration.State().Patterns)
	assert.Equal(t, FocusList, m.Focus)
	assert.NotContains(t, m.View(), "patterns:")
}

func TestChipEscapeBlurs(t *testing.T) {
	patterns := []query.AppliedPattern{{Pattern: "<_>GET<_>", Type: query.Include}}
	m, _, _ := inLogsWithEntries(t, explore.Options{Mode: explore.ModeStart, Patterns: patterns})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, FocusList, m.Focus)
	assert.False(t, m.Chips.Focused())
	assert.Len(t, m.Exploration.State().Patterns, 1)
}

func TestShareCopiesLink(t *testing.T) {
	patterns := []query.AppliedPattern{{Pattern: "<_>GET<_>", Type: query.Include}}
	m, _, copied := inLogsWithEntries(t, explore.Options{Mode: explore.ModeStart, Patterns: patterns})

	m, cmd := press(t, m, runes("y"))
	assert.NotNil(t, cmd)

	expected := explore.ShareURL(m.Exploration.GetURLState())
	assert.Equal(t, expected, *copied)
	assert.Contains(t, m.StatusBar.Message, "Link copied")

	values, err := explore.ParseShareURL(*copied)
	require.NoError(t, err)
	assert.Equal(t, string(explore.ModeLogs), values[explore.URLKeyMode])

	m = update(t, m, ClearStatusMsg{})
	assert.Empty(t, m.StatusBar.Message)
}

func TestStartOver(t *testing.T) {
	m, _, _ := inLogsWithEntries(t, explore.Options{Mode: explore.ModeStart})

	m, cmd := press(t, m, runes("s"))
	require.NotNil(t, cmd)
	assert.Equal(t, explore.ModeStart, m.Exploration.State().Mode)
	assert.Equal(t, 0, m.Exploration.Variables().LabelFilters().Len())
	assert.Empty(t, m.Entries)

	m = load(t, m)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 1, m.Exploration.Variables().LabelFilters().Len())
}

func TestFileChangedReloads(t *testing.T) {
	m, _, _ := inLogsWithEntries(t, explore.Options{Mode: explore.ModeStart})
	seq := m.seq

	m = update(t, m, FileChangedMsg{})
	assert.Equal(t, seq+1, m.seq)
	assert.True(t, m.Loading)
}

func TestCursorClamped(t *testing.T) {
	m, _, _ := inLogsWithEntries(t, explore.Options{Mode: explore.ModeStart})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.Cursor)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, 1, m.Cursor)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, 1, m.Cursor)
	assert.Equal(t, 1, m.StatusBar.CursorPosition)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, newFakeSource(), explore.Options{Mode: explore.ModeStart})
	_, cmd := press(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
