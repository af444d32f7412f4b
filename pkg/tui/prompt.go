// SPDX-License-Identifier: GPL-3.0-only
package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// PromptKind tells what the footer input edits.
type PromptKind int

const (
	PromptNone PromptKind = iota
	PromptInclude
	PromptExclude
	PromptField
	PromptLine
	PromptTime
)

func (k PromptKind) label() string {
	switch k {
	case PromptInclude:
		return "include pattern> "
	case PromptExclude:
		return "exclude pattern> "
	case PromptField:
		return "field filter> "
	case PromptLine:
		return "line contains> "
	case PromptTime:
		return "last> "
	}
	return "> "
}

func (k PromptKind) placeholder() string {
	switch k {
	case PromptInclude, PromptExclude:
		return "<_> level=error <_>"
	case PromptField:
		return "key=value or key!=value"
	case PromptLine:
		return "text, empty to clear"
	case PromptTime:
		return "15m, 1h, 2d"
	}
	return ""
}

// Prompt is the single line input of the footer.
type Prompt struct {
	Kind  PromptKind
	Input textinput.Model
}

func NewPrompt() Prompt {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.ShowSuggestions = true
	return Prompt{Input: ti}
}

// Active reports whether the prompt has the focus.
func (p Prompt) Active() bool { return p.Kind != PromptNone }

// Open focuses the prompt for kind, prefilled with value.
func (p *Prompt) Open(kind PromptKind, value string, suggestions []string) tea.Cmd {
	p.Kind = kind
	p.Input.Prompt = kind.label()
	p.Input.Placeholder = kind.placeholder()
	p.Input.SetValue(value)
	p.Input.CursorEnd()
	p.Input.SetSuggestions(suggestions)
	return p.Input.Focus()
}

// Close blurs the prompt and returns what was typed.
func (p *Prompt) Close() (PromptKind, string) {
	kind, value := p.Kind, p.Input.Value()
	p.Kind = PromptNone
	p.Input.Blur()
	p.Input.Reset()
	p.Input.SetSuggestions(nil)
	return kind, value
}

func (p Prompt) Update(msg tea.Msg) (Prompt, tea.Cmd) {
	var cmd tea.Cmd
	p.Input, cmd = p.Input.Update(msg)
	return p, cmd
}

func (p Prompt) View() string {
	return p.Input.View()
}
