// SPDX-License-Identifier: GPL-3.0-only
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bascanada/logexplorer/pkg/explore"
	"github.com/bascanada/logexplorer/pkg/explore/query"
	"github.com/bascanada/logexplorer/pkg/explore/view"
)

// renderPatterns draws the pattern section of the tree, one row per group:
// the header followed by its chips.
func (m Model) renderPatterns(tree *view.Tree) []string {
	section := tree.First(view.KindPatterns)
	if section == nil {
		return nil
	}

	var rows []string
	for _, group := range tree.Children(section.ID) {
		var parts []string
		for _, n := range tree.Children(group.ID) {
			switch n.Kind {
			case view.KindHeader:
				parts = append(parts, m.Styles.PatternHeader.Render(n.Text+":"))
			case view.KindChip:
				parts = append(parts, m.renderChip(n))
			}
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
		rows = append(rows, truncate(row, m.Width))
	}
	return rows
}

func (m Model) renderChip(n *view.Node) string {
	text := n.Text
	if n.Focused {
		text = "▸ " + text
		return m.Styles.ChipFocused.Render(text)
	}
	if n.PatternType == query.Exclude {
		return m.Styles.ChipExclude.Render(text)
	}
	return m.Styles.ChipInclude.Render(text)
}

// chipPatterns lists the patterns in chip display order.
func chipPatterns(tree *view.Tree) []query.AppliedPattern {
	chips := tree.Chips()
	out := make([]query.AppliedPattern, len(chips))
	for i, c := range chips {
		out[i] = c.Pattern
	}
	return out
}

// renderControls draws the controls row: the variable selectors on the
// left, the other controls pushed right by the spacer.
func (m Model) renderControls(tree *view.Tree) string {
	if tree.First(view.KindControls) == nil {
		return ""
	}

	var left []string
	for _, v := range tree.Find(view.KindVariable) {
		if len(v.Variable.Values) == 0 {
			continue
		}
		value := m.Styles.VariableValue.Render(strings.Join(v.Variable.Values, ", "))
		if v.Text != "" {
			value = m.Styles.VariableLabel.Render(v.Text+" ") + value
		}
		left = append(left, value)
	}

	var right []string
	spacer := false
	group := tree.Find(view.KindControlGroup)
	if len(group) > 0 {
		for _, c := range tree.Children(group[0].ID) {
			switch c.Control.Kind {
			case explore.ControlSpacer:
				spacer = true
			default:
				right = append(right, m.Styles.Control.Render(m.controlText(c)))
			}
		}
	}

	l := strings.Join(left, "  ")
	r := strings.Join(right, "  ")
	gap := 1
	if spacer {
		gap = max(1, m.Width-2-lipgloss.Width(l)-lipgloss.Width(r))
	}
	return m.Styles.Header.Render(truncate(l+strings.Repeat(" ", gap)+r, m.Width-2))
}
