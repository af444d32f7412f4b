// SPDX-License-Identifier: GPL-3.0-only

// Package tui provides the terminal user interface of an exploration.
package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Select   key.Binding

	// Pattern chips
	NextChip   key.Binding
	PrevChip   key.Binding
	RemoveChip key.Binding
	ExpandChip key.Binding

	// Query editing
	IncludePattern key.Binding
	ExcludePattern key.Binding
	FieldFilter    key.Binding
	LineFilter     key.Binding
	TimeRange      key.Binding
	ClearFilters   key.Binding

	// Panels and modes
	ToggleDetails key.Binding
	StartOver     key.Binding
	Cancel        key.Binding

	// Actions
	Refresh key.Binding
	Share   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("Home/g", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("End/G", "go to bottom"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "select"),
		),
		NextChip: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "next pattern"),
		),
		PrevChip: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-Tab", "prev pattern"),
		),
		RemoveChip: key.NewBinding(
			key.WithKeys("x", "delete", "backspace"),
			key.WithHelp("x", "remove pattern"),
		),
		ExpandChip: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "expand pattern"),
		),
		IncludePattern: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "include pattern"),
		),
		ExcludePattern: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "exclude pattern"),
		),
		FieldFilter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "field filter"),
		),
		LineFilter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "line filter"),
		),
		TimeRange: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "time range"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "clear filters"),
		),
		ToggleDetails: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "toggle details"),
		),
		StartOver: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start over"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "cancel"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "refresh"),
		),
		Share: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy link"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.IncludePattern, k.FieldFilter, k.LineFilter, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End, k.Select},
		{k.NextChip, k.PrevChip, k.RemoveChip, k.ExpandChip},
		{k.IncludePattern, k.ExcludePattern, k.FieldFilter, k.LineFilter, k.TimeRange, k.ClearFilters},
		{k.ToggleDetails, k.StartOver, k.Cancel, k.Refresh, k.Share},
		{k.Help, k.Quit},
	}
}
