package explore

import (
	"github.com/bascanada/logexplorer/pkg/explore/filter"
	"github.com/bascanada/logexplorer/pkg/log"
)

// SelectStartingPoint binds value to the starting label in the label
// filters and publishes StartingPointSelected. An empty value or a missing
// label collection makes it a no-op.
func (e *Exploration) SelectStartingPoint(value string) {
	c, ok := e.vars.Filters.Lookup(VarFilters)
	if !ok {
		log.Debug("exploration %s: no %q collection, starting point ignored", e.id, VarFilters)
		return
	}
	if value == "" {
		return
	}

	t := filter.Triple{Key: e.startingLabel, Operator: filter.OpEqual, Value: value}
	if err := c.Add(t); err != nil {
		log.Warn("exploration %s: starting point %s: %v", e.id, t, err)
		return
	}
	c.SetVisibility(filter.VisibilityHideLabel)

	e.Publish(Event{Kind: StartingPointSelected})
}

// StartingLabel is the label key bound by SelectStartingPoint.
func (e *Exploration) StartingLabel() string { return e.startingLabel }
