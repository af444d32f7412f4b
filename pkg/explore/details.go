package explore

import (
	"maps"
	"time"
)

// DetailsState is the content of the details side panel. The zero value is
// an empty panel.
type DetailsState struct {
	Title     string
	Timestamp time.Time
	Line      string
	Labels    map[string]string
	Fields    map[string]string
	// Session is the id of the exploration that filled the panel.
	Session string
}

// Empty reports whether nothing has been put in the panel.
func (d *DetailsState) Empty() bool {
	return d == nil || (d.Title == "" && d.Line == "" && len(d.Labels) == 0 && len(d.Fields) == 0)
}

// Clone returns a deep copy, nil for nil.
func (d *DetailsState) Clone() *DetailsState {
	if d == nil {
		return nil
	}
	c := *d
	c.Labels = maps.Clone(d.Labels)
	c.Fields = maps.Clone(d.Fields)
	return &c
}
