// SPDX-License-Identifier: GPL-3.0-only
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary = lipgloss.Color("#3B82F6") // Blue
	ColorSuccess   = lipgloss.Color("#22C55E") // Green
	ColorWarning   = lipgloss.Color("#F59E0B") // Amber
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorMuted     = lipgloss.Color("#6B7280") // Gray
	ColorBorder    = lipgloss.Color("#374151") // Dark gray
	ColorBg        = lipgloss.Color("#1F2937") // Dark background
	ColorBgActive  = lipgloss.Color("#374151") // Active background
	ColorText      = lipgloss.Color("#F9FAFB") // Light text
	ColorTextMuted = lipgloss.Color("#9CA3AF") // Muted text
)

// Log level colors
var LogLevelColors = map[string]lipgloss.Color{
	"ERROR":   ColorError,
	"WARN":    ColorWarning,
	"WARNING": ColorWarning,
	"INFO":    ColorSuccess,
	"DEBUG":   ColorSecondary,
	"TRACE":   ColorMuted,
}

// Styles contains all UI styles
type Styles struct {
	Header  lipgloss.Style
	HelpBar lipgloss.Style

	// Controls row
	VariableLabel lipgloss.Style
	VariableValue lipgloss.Style
	Control       lipgloss.Style

	// Pattern chips
	PatternHeader lipgloss.Style
	ChipInclude   lipgloss.Style
	ChipExclude   lipgloss.Style
	ChipFocused   lipgloss.Style

	// Start selector
	StartTitle    lipgloss.Style
	StartItem     lipgloss.Style
	StartSelected lipgloss.Style

	// Log view styles
	LogEntry     lipgloss.Style
	LogSelected  lipgloss.Style
	LogTimestamp lipgloss.Style

	// Sidebar styles
	Sidebar      lipgloss.Style
	SidebarTitle lipgloss.Style
	SidebarKey   lipgloss.Style
	SidebarValue lipgloss.Style

	// Prompt
	Prompt lipgloss.Style

	Error lipgloss.Style
}

// DefaultStyles creates the default style set
func DefaultStyles() Styles {
	chip := lipgloss.NewStyle().
		Foreground(ColorBg).
		Padding(0, 1).
		MarginRight(1)

	return Styles{
		Header: lipgloss.NewStyle().
			Background(ColorBg).
			Foreground(ColorText).
			Padding(0, 1),

		HelpBar: lipgloss.NewStyle().
			Background(ColorBg).
			Foreground(ColorMuted).
			Padding(0, 1),

		VariableLabel: lipgloss.NewStyle().
			Foreground(ColorTextMuted),

		VariableValue: lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true),

		Control: lipgloss.NewStyle().
			Foreground(ColorSecondary),

		PatternHeader: lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			MarginRight(1),

		ChipInclude: chip.Background(lipgloss.Color("62")),

		ChipExclude: chip.Background(lipgloss.Color("166")), // Orange-brown

		ChipFocused: lipgloss.NewStyle().
			Background(ColorPrimary).
			Foreground(ColorText).
			Bold(true).
			Padding(0, 1).
			MarginRight(1),

		StartTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1),

		StartItem: lipgloss.NewStyle().
			Foreground(ColorText).
			PaddingLeft(2),

		StartSelected: lipgloss.NewStyle().
			Background(ColorBgActive).
			Foreground(ColorText).
			Bold(true).
			PaddingLeft(2),

		LogEntry: lipgloss.NewStyle().
			Foreground(ColorText),

		LogSelected: lipgloss.NewStyle().
			Background(ColorBgActive).
			Foreground(ColorText).
			Bold(true),

		LogTimestamp: lipgloss.NewStyle().
			Foreground(ColorMuted),

		Sidebar: lipgloss.NewStyle().
			BorderLeft(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1),

		SidebarTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1),

		SidebarKey: lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true),

		SidebarValue: lipgloss.NewStyle().
			Foreground(ColorText),

		Prompt: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true).
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorError),
	}
}

// GetLevelStyle returns a style for the given log level
func GetLevelStyle(level string) lipgloss.Style {
	color, ok := LogLevelColors[level]
	if !ok {
		color = ColorMuted
	}
	return lipgloss.NewStyle().
		Foreground(color).
		Bold(true).
		Width(7).
		Align(lipgloss.Center)
}
