// Package query renders filter state into LogQL-style text fragments and
// parses the short filter expressions accepted on the command line.
//
// Values are interpolated verbatim between backticks. A value containing a
// backtick or a brace produces a broken expression; callers must not pass
// such values.
package query

import (
	"strings"

	"github.com/bascanada/logexplorer/pkg/explore/filter"
)

// RenderLabelExpression renders the stream selector, "{}" when empty.
func RenderLabelExpression(filters []filter.Triple) string {
	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		parts = append(parts, f.Key+f.Operator+"`"+f.Value+"`")
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// RenderFieldExpression renders one pipeline stage per filter, "" when empty.
func RenderFieldExpression(filters []filter.Triple) string {
	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		parts = append(parts, "| "+f.Key+f.Operator+"`"+f.Value+"`")
	}
	return strings.Join(parts, " ")
}

// RenderPatterns renders the pattern filter line in list order.
func RenderPatterns(patterns []AppliedPattern) string {
	parts := make([]string, 0, len(patterns))
	for _, p := range patterns {
		op := "|>"
		if p.Type == Exclude {
			op = "!>"
		}
		parts = append(parts, op+" `"+p.Pattern+"`")
	}
	return strings.Join(parts, " ")
}

// RenderLineFilter renders a substring line filter, "" for empty text.
func RenderLineFilter(text string) string {
	if text == "" {
		return ""
	}
	return "|= `" + text + "`"
}
