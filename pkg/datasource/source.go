// Package datasource provides the log backends an exploration queries: a
// local file evaluated in process and a Loki HTTP endpoint.
package datasource

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bascanada/logexplorer/pkg/explore"
	"github.com/bascanada/logexplorer/pkg/explore/filter"
	"github.com/bascanada/logexplorer/pkg/explore/query"
	"github.com/bascanada/logexplorer/pkg/ty"
)

// Entry is one log line.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Line      string    `json:"line"`
	Labels    ty.MS     `json:"labels,omitempty"`
	Fields    ty.MS     `json:"fields,omitempty"`
}

// Request describes a logs query both structurally, for backends that
// evaluate it themselves, and as composed query text.
type Request struct {
	Labels     []filter.Triple
	Fields     []filter.Triple
	Patterns   []query.AppliedPattern
	LineFilter string
	Query      string
	From       time.Time
	To         time.Time
	Limit      int
}

// Source is a queryable log backend.
type Source interface {
	Query(ctx context.Context, req Request) ([]Entry, error)
	LabelValues(ctx context.Context, label string) ([]string, error)
}

// NewRequest captures the current query of an exploration.
func NewRequest(e *explore.Exploration, now time.Time, limit int) Request {
	s := e.State()
	vars := e.Variables()
	from, to := s.TimeRange.Bounds(now)
	return Request{
		Labels:     vars.LabelFilters().Filters(),
		Fields:     vars.FieldFilters().Filters(),
		Patterns:   s.Patterns,
		LineFilter: vars.LineFilter.Value(),
		Query:      e.Query(),
		From:       from,
		To:         to,
		Limit:      limit,
	}
}

// Open builds the backend for ds.
func Open(ds Datasource) (Source, error) {
	switch strings.ToLower(ds.Type) {
	case TypeFile:
		return NewFileSource(ds), nil
	case TypeLoki:
		return NewLokiSource(ds), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownType, ds.Type)
}

// Details converts an entry into the content of the details panel.
func (e Entry) Details() explore.DetailsState {
	title := e.Line
	if !e.Timestamp.IsZero() {
		title = e.Timestamp.Format(time.RFC3339)
	}
	return explore.DetailsState{
		Title:     title,
		Timestamp: e.Timestamp,
		Line:      e.Line,
		Labels:    e.Labels,
		Fields:    e.Fields,
	}
}
