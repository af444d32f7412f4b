package query

import "strings"

// Parsers inserted before field filters so that both JSON and logfmt lines
// expose their fields; parse errors are dropped rather than failing the line.
const fieldPipeline = "| json | logfmt | drop __error__, __error_details__"

// Parts are the already rendered fragments of a logs query.
type Parts struct {
	Labels     string
	Patterns   string
	LineFilter string
	Fields     string
}

// Compose joins the fragments into the full query, omitting empty ones.
// The parser stages are only added when there are field filters.
func Compose(p Parts) string {
	labels := p.Labels
	if labels == "" {
		labels = "{}"
	}
	segments := []string{labels}
	for _, s := range []string{p.Patterns, p.LineFilter} {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if p.Fields != "" {
		segments = append(segments, fieldPipeline, p.Fields)
	}
	return strings.Join(segments, " ")
}
