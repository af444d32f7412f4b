// SPDX-License-Identifier: GPL-3.0-only
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/bascanada/logexplorer/pkg/ty"
)

// StatusBarStyles defines the styles for the status bar
type StatusBarStyles struct {
	Container lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Separator lipgloss.Style
	Query     lipgloss.Style
	Message   lipgloss.Style
	Loading   lipgloss.Style
}

// DefaultStatusBarStyles returns the default styles for the status bar
func DefaultStatusBarStyles() StatusBarStyles {
	return StatusBarStyles{
		Container: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderBottom(true).
			BorderForeground(ColorBorder).
			Padding(0, 1),
		Label: lipgloss.NewStyle().
			Foreground(ColorMuted),
		Value: lipgloss.NewStyle().
			Foreground(ColorText),
		Separator: lipgloss.NewStyle().
			Foreground(ColorMuted),
		Query: lipgloss.NewStyle().
			Foreground(ColorSecondary),
		Message: lipgloss.NewStyle().
			Foreground(ColorWarning),
		Loading: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),
	}
}

// StatusBar displays the datasource, the time range and the composed query
// between the main area and the footer.
type StatusBar struct {
	Width  int
	Styles StatusBarStyles

	Datasource     string
	Mode           string
	Last           time.Duration
	Query          string
	EntryCount     int
	CursorPosition int
	Loading        bool
	Message        string
}

// NewStatusBar creates a new status bar with default styles
func NewStatusBar() StatusBar {
	return StatusBar{
		Width:  80,
		Styles: DefaultStatusBarStyles(),
	}
}

// SetMessage shows a notice until ClearMessage.
func (s *StatusBar) SetMessage(msg string) {
	s.Message = msg
}

func (s *StatusBar) ClearMessage() {
	s.Message = ""
}

// View renders the status bar
func (s StatusBar) View() string {
	if s.Width < 20 {
		return ""
	}
	sep := s.Styles.Separator.Render(" | ")
	inner := s.Width - 2

	var line1Parts []string
	line1Parts = append(line1Parts,
		s.Styles.Label.Render("Source: ")+s.Styles.Value.Render(orNA(s.Datasource)))
	if s.Mode != "" {
		line1Parts = append(line1Parts,
			s.Styles.Label.Render("Mode: ")+s.Styles.Value.Render(s.Mode))
	}
	if s.Last > 0 {
		line1Parts = append(line1Parts,
			s.Styles.Label.Render("Last: ")+s.Styles.Value.Render(ty.FormatLast(s.Last)))
	}
	if s.Loading {
		line1Parts = append(line1Parts, s.Styles.Loading.Render("Loading..."))
	} else {
		line1Parts = append(line1Parts,
			s.Styles.Label.Render("Entries: ")+s.Styles.Value.Render(humanize.Comma(int64(s.EntryCount))))
		if s.EntryCount > 0 {
			line1Parts = append(line1Parts,
				s.Styles.Value.Render(fmt.Sprintf("Line %d/%d", s.CursorPosition+1, s.EntryCount)))
		}
	}

	var line2 string
	if s.Message != "" {
		line2 = s.Styles.Message.Render(ansi.Truncate(s.Message, inner, "…"))
	} else {
		line2 = s.Styles.Query.Render(ansi.Truncate(orNA(s.Query), inner, "…"))
	}

	line1 := ansi.Truncate(strings.Join(line1Parts, sep), inner, "…")
	content := lipgloss.JoinVertical(lipgloss.Left, line1, line2)
	return s.Styles.Container.Width(s.Width).Render(content)
}

// Height returns the height of the status bar including its borders.
func (s StatusBar) Height() int {
	return 4
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
