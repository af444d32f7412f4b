// SPDX-License-Identifier: GPL-3.0-only
package tui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/bascanada/logexplorer/pkg/datasource"
	"github.com/bascanada/logexplorer/pkg/explore"
	"github.com/bascanada/logexplorer/pkg/explore/view"
	"github.com/bascanada/logexplorer/pkg/log/printer"
	"github.com/bascanada/logexplorer/pkg/ty"
)

// startHeaderLines is the height of the start selector title and its margin.
const startHeaderLines = 2

func (m Model) detailsOpen() bool {
	return m.tree != nil && m.tree.First(view.KindSecondary) != nil
}

func (m Model) footerHeight() int {
	if m.Prompt.Active() {
		return 2
	}
	return 1
}

func (m *Model) updateViewportSizes() {
	headerHeight := 0
	if m.tree.First(view.KindControls) != nil {
		headerHeight = 1
	}
	headerHeight += len(m.renderPatterns(m.tree))

	mainHeight := m.Height - headerHeight - m.StatusBar.Height() - m.footerHeight()
	if mainHeight < 1 {
		mainHeight = 1
	}

	if m.detailsOpen() {
		listWidth := int(float64(m.Width) * m.tree.Ratio)
		sidebarWidth := m.Width - listWidth - 1 // -1 for border

		m.Viewport.Width = listWidth
		m.Viewport.Height = mainHeight

		// the sidebar padding takes two more columns
		m.SidebarVP.Width = max(1, sidebarWidth-2)
		m.SidebarVP.Height = mainHeight
	} else {
		m.Viewport.Width = m.Width
		m.Viewport.Height = mainHeight
	}
}

// updateViewportContent refreshes the start selector or the log list.
func (m *Model) updateViewportContent() {
	if m.Source == nil {
		m.Viewport.SetContent("No datasource configured.")
		return
	}

	if m.Loading && len(m.Entries) == 0 && len(m.StartValues) == 0 {
		m.Viewport.SetContent("Loading...")
		return
	}

	if m.Err != nil {
		content := fmt.Sprintf("❌ Backend Error\n\n%v\n\nPress 'r' to retry or 'q' to quit", m.Err)
		m.Viewport.SetContent(m.Styles.Error.Render(content))
		return
	}

	if !m.inLogs() {
		m.renderStartSelector()
		return
	}

	if len(m.Entries) == 0 {
		m.Viewport.SetContent("No log entries found.")
		return
	}

	lines := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		lines[i] = m.renderLogEntry(e, i == m.Cursor, m.Viewport.Width)
	}
	m.Viewport.SetContent(strings.Join(lines, "\n"))
	m.keepVisible(m.Cursor)
}

func (m *Model) renderStartSelector() {
	title := m.Styles.StartTitle.Render("Select a " + m.Exploration.StartingLabel())
	if len(m.StartValues) == 0 {
		m.Viewport.SetContent(title + "\n" + "No values found. Press 'r' to retry.")
		return
	}

	lines := []string{title}
	for i, v := range m.StartValues {
		if i == m.StartCursor {
			lines = append(lines, m.Styles.StartSelected.Render("> "+v))
			continue
		}
		lines = append(lines, m.Styles.StartItem.Render("  "+v))
	}
	m.Viewport.SetContent(strings.Join(lines, "\n"))
	m.keepVisible(m.StartCursor + startHeaderLines)
}

// keepVisible scrolls the list so that line stays on screen.
func (m *Model) keepVisible(line int) {
	h := m.Viewport.Height
	if h <= 0 {
		return
	}
	if line < m.Viewport.YOffset {
		m.Viewport.SetYOffset(line)
	} else if line >= m.Viewport.YOffset+h {
		m.Viewport.SetYOffset(line - h + 1)
	}
}

// renderLogEntry renders a single entry on one line.
func (m Model) renderLogEntry(e datasource.Entry, selected bool, maxWidth int) string {
	if maxWidth < 20 {
		maxWidth = 20
	}

	var parts []string
	parts = append(parts, m.Styles.LogTimestamp.Render(printer.FormatTimestamp(e.Timestamp, "15:04:05")))
	if level := entryLevel(e); level != "" {
		parts = append(parts, GetLevelStyle(level).Render(level))
	}
	parts = append(parts, strings.ReplaceAll(e.Line, "\n", " "))
	line := strings.Join(parts, " ")

	if selected {
		return m.Styles.LogSelected.Render(truncate("▶ "+ansi.Strip(line), maxWidth))
	}
	return m.Styles.LogEntry.Render(truncate("  "+line, maxWidth))
}

func entryLevel(e datasource.Entry) string {
	level := printer.Field(e.Fields, "level")
	if level == "" {
		level = printer.Field(e.Labels, "level")
	}
	return strings.ToUpper(level)
}

// updateSidebarContent fills the details pane from the composed tree.
func (m *Model) updateSidebarContent() {
	secondary := m.tree.First(view.KindSecondary)
	if secondary == nil {
		return
	}
	d := secondary.Details
	if d.Empty() {
		m.SidebarVP.SetContent("No entry selected.\nPress Enter on a log line.")
		return
	}

	width := m.SidebarVP.Width
	wrap := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	b.WriteString(m.Styles.SidebarTitle.Render(truncate(d.Title, width)))
	b.WriteString("\n")

	if !d.Timestamp.IsZero() {
		when := printer.FormatTimestamp(d.Timestamp, "2006-01-02 15:04:05")
		rel := humanize.RelTime(d.Timestamp, m.Clock(), "ago", "from now")
		b.WriteString(m.renderDetailRow("time", when+" ("+rel+")", wrap))
	}
	if d.Session != "" {
		b.WriteString(m.renderDetailRow("session", shortID(d.Session), wrap))
	}

	if len(d.Labels) > 0 {
		b.WriteString("\n" + m.Styles.SidebarTitle.Render("Labels") + "\n")
		b.WriteString(m.renderDetailMap(d.Labels, wrap))
	}
	if len(d.Fields) > 0 {
		b.WriteString("\n" + m.Styles.SidebarTitle.Render("Fields") + "\n")
		b.WriteString(m.renderDetailMap(d.Fields, wrap))
	}

	if d.Line != "" {
		b.WriteString("\n" + m.Styles.SidebarTitle.Render("Line") + "\n")
		b.WriteString(wrap.Render(d.Line))
		if expanded := printer.ExpandJson(d.Line); expanded != "" {
			b.WriteString(expanded)
		}
		b.WriteString("\n")
	}

	m.SidebarVP.SetContent(b.String())
}

func (m Model) renderDetailMap(values ty.MS, wrap lipgloss.Style) string {
	var b strings.Builder
	for _, k := range slices.Sorted(maps.Keys(values)) {
		b.WriteString(m.renderDetailRow(k, values[k], wrap))
	}
	return b.String()
}

func (m Model) renderDetailRow(k, v string, wrap lipgloss.Style) string {
	row := m.Styles.SidebarKey.Render(k+": ") + m.Styles.SidebarValue.Render(v)
	return wrap.Render(row) + "\n"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// controlText is the label of a trailing control.
func (m Model) controlText(n *view.Node) string {
	switch n.Control.Kind {
	case explore.ControlTimePicker:
		return "Last " + ty.FormatLast(m.Exploration.State().TimeRange.Last)
	case explore.ControlRefreshPicker:
		return "⟳ r"
	}
	return n.Text
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

func (m Model) View() string {
	if m.Width == 0 || m.Height == 0 {
		return "Loading..."
	}

	var sections []string

	if controls := m.renderControls(m.tree); controls != "" {
		sections = append(sections, controls)
	}
	sections = append(sections, m.renderPatterns(m.tree)...)
	sections = append(sections, m.renderMainArea())

	// Status bar (between viewport and footer)
	sections = append(sections, m.StatusBar.View())
	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderMainArea() string {
	if !m.detailsOpen() {
		return m.Viewport.View()
	}

	listView := m.Viewport.View()
	sidebarView := m.Styles.Sidebar.Height(m.Viewport.Height).Render(m.SidebarVP.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, listView, sidebarView)
}

// renderFooter renders the prompt, when open, and the help text.
func (m Model) renderFooter() string {
	var parts []string
	if m.Prompt.Active() {
		parts = append(parts, m.Styles.Prompt.Render(m.Prompt.View()))
	}

	helpText := m.helpText()
	parts = append(parts, m.Styles.HelpBar.Render(truncate(helpText, max(1, m.Width-2))))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) helpText() string {
	switch {
	case m.Prompt.Active():
		return "Enter apply • Esc cancel • Tab complete"
	case m.Focus == FocusChips:
		return "Tab/Shift+Tab move • Space expand • x remove • Esc back"
	case !m.inLogs():
		return "↑↓ navigate • Enter select • r refresh • ? help • q quit"
	case m.ShowHelp:
		var keys []string
		for _, group := range m.Keys.FullHelp() {
			for _, b := range group {
				keys = append(keys, b.Help().Key+" "+b.Help().Desc)
			}
		}
		return strings.Join(keys, " • ")
	}
	return "↑↓ navigate • Enter details • p/P pattern • f field • / line • t time • y share • ? help • q quit"
}
