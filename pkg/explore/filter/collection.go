// Package filter holds the editable key/operator/value collections that feed
// the label selector and the field pipeline of an exploration.
package filter

import (
	"errors"
	"fmt"
	"slices"
)

// Supported comparison operators.
const (
	OpEqual    = "="
	OpNotEqual = "!="
)

// ErrOperatorNotAllowed is returned when a triple uses an operator the
// collection does not accept.
var ErrOperatorNotAllowed = errors.New("operator not allowed")

// Triple is a single key/operator/value constraint.
type Triple struct {
	Key      string `json:"key" yaml:"key"`
	Operator string `json:"operator" yaml:"operator"`
	Value    string `json:"value" yaml:"value"`
}

func (t Triple) String() string {
	return t.Key + t.Operator + t.Value
}

// Visibility controls how the collection's selector is displayed.
type Visibility int

const (
	// VisibilityShown renders label and inputs.
	VisibilityShown Visibility = iota
	// VisibilityHideLabel renders inputs without the label.
	VisibilityHideLabel
	// VisibilityHidden renders nothing.
	VisibilityHidden
)

func (v Visibility) String() string {
	switch v {
	case VisibilityShown:
		return "shown"
	case VisibilityHideLabel:
		return "hide-label"
	case VisibilityHidden:
		return "hidden"
	}
	return fmt.Sprintf("visibility(%d)", int(v))
}

// Snapshot is an immutable copy of a collection's state.
type Snapshot struct {
	Filters    []Triple
	Visibility Visibility
}

// Observer is notified synchronously after every state change, before the
// mutating call returns.
type Observer func(old, new Snapshot)

// Renderer turns the filters into a query fragment.
type Renderer func([]Triple) string

// Collection is an ordered, mutable list of filter triples with a
// visibility flag. It is not safe for concurrent use; all mutations go
// through the single event loop that owns the exploration.
type Collection struct {
	name       string
	label      string
	operators  []string
	render     Renderer
	filters    []Triple
	visibility Visibility

	observers map[int]Observer
	nextID    int
}

// Option configures a Collection.
type Option func(*Collection)

// WithLabel sets the display label.
func WithLabel(label string) Option {
	return func(c *Collection) { c.label = label }
}

// WithOperators restricts the accepted operators.
func WithOperators(ops ...string) Option {
	return func(c *Collection) { c.operators = slices.Clone(ops) }
}

// WithRenderer sets the expression builder used by Expression.
func WithRenderer(r Renderer) Option {
	return func(c *Collection) { c.render = r }
}

// WithFilters seeds the collection.
func WithFilters(filters []Triple) Option {
	return func(c *Collection) { c.filters = slices.Clone(filters) }
}

// WithVisibility sets the initial visibility.
func WithVisibility(v Visibility) Option {
	return func(c *Collection) { c.visibility = v }
}

// NewCollection creates a collection accepting "=" and "!=" unless
// restricted by WithOperators.
func NewCollection(name string, opts ...Option) *Collection {
	c := &Collection{
		name:      name,
		label:     name,
		operators: []string{OpEqual, OpNotEqual},
		observers: make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Collection) Name() string  { return c.name }
func (c *Collection) Label() string { return c.label }

// Operators returns the accepted operators in display order.
func (c *Collection) Operators() []string {
	return slices.Clone(c.operators)
}

// Filters returns a copy of the current filters in insertion order.
func (c *Collection) Filters() []Triple {
	return slices.Clone(c.filters)
}

func (c *Collection) Len() int { return len(c.filters) }

func (c *Collection) Visibility() Visibility { return c.visibility }

// Snapshot returns a copy of the current state.
func (c *Collection) Snapshot() Snapshot {
	return Snapshot{Filters: c.Filters(), Visibility: c.visibility}
}

// Expression renders the filters with the configured renderer.
func (c *Collection) Expression() string {
	if c.render == nil {
		return ""
	}
	return c.render(c.filters)
}

// Accepts reports whether op is allowed in this collection.
func (c *Collection) Accepts(op string) bool {
	return slices.Contains(c.operators, op)
}

// Add appends a filter. Duplicates are kept.
func (c *Collection) Add(t Triple) error {
	if !c.Accepts(t.Operator) {
		return fmt.Errorf("%w: %q in %s (allowed %v)", ErrOperatorNotAllowed, t.Operator, c.name, c.operators)
	}
	old := c.Snapshot()
	c.filters = append(c.filters, t)
	c.notify(old)
	return nil
}

// ReplaceAll atomically swaps the whole filter list. Nothing changes when
// any triple is rejected.
func (c *Collection) ReplaceAll(filters []Triple) error {
	for _, t := range filters {
		if !c.Accepts(t.Operator) {
			return fmt.Errorf("%w: %q in %s (allowed %v)", ErrOperatorNotAllowed, t.Operator, c.name, c.operators)
		}
	}
	old := c.Snapshot()
	c.filters = slices.Clone(filters)
	c.notify(old)
	return nil
}

// Remove deletes the filter at index i.
func (c *Collection) Remove(i int) bool {
	if i < 0 || i >= len(c.filters) {
		return false
	}
	old := c.Snapshot()
	c.filters = slices.Delete(slices.Clone(c.filters), i, i+1)
	c.notify(old)
	return true
}

// SetVisibility changes the visibility, notifying only on an actual change.
func (c *Collection) SetVisibility(v Visibility) {
	if c.visibility == v {
		return
	}
	old := c.Snapshot()
	c.visibility = v
	c.notify(old)
}

// Subscribe registers an observer and returns its cancel function.
func (c *Collection) Subscribe(o Observer) func() {
	id := c.nextID
	c.nextID++
	c.observers[id] = o
	return func() { delete(c.observers, id) }
}

func (c *Collection) notify(old Snapshot) {
	now := c.Snapshot()
	ids := make([]int, 0, len(c.observers))
	for id := range c.observers {
		ids = append(ids, id)
	}
	// registration order
	slices.Sort(ids)
	for _, id := range ids {
		if o, ok := c.observers[id]; ok {
			o(old, now)
		}
	}
}
