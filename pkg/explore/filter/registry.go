package filter

import "slices"

// CollectionID names the collections every exploration carries.
type CollectionID string

const (
	// LabelFilters narrow the stream selector. Only equality is accepted.
	LabelFilters CollectionID = "filters"
	// FieldFilters constrain parsed fields after the pipeline.
	FieldFilters CollectionID = "fields"
)

// Registry resolves collections by id. Lookup by an arbitrary name is kept
// for callers that only know the variable name and must tolerate absence.
type Registry struct {
	order       []CollectionID
	collections map[CollectionID]*Collection
}

func NewRegistry() *Registry {
	return &Registry{collections: make(map[CollectionID]*Collection)}
}

// Register adds or replaces a collection.
func (r *Registry) Register(id CollectionID, c *Collection) {
	if _, ok := r.collections[id]; !ok {
		r.order = append(r.order, id)
	}
	r.collections[id] = c
}

// Get returns the collection for id and panics when id is not registered.
// It is meant for the ids this package and its callers register; names
// coming from outside (URLs, actions, user input) go through Lookup.
func (r *Registry) Get(id CollectionID) *Collection {
	c, ok := r.collections[id]
	if !ok {
		panic("filter: collection " + string(id) + " not registered")
	}
	return c
}

// Lookup returns the collection named name, if any. It never panics.
func (r *Registry) Lookup(name string) (*Collection, bool) {
	c, ok := r.collections[CollectionID(name)]
	return c, ok
}

// IDs lists registered ids in registration order.
func (r *Registry) IDs() []CollectionID {
	return slices.Clone(r.order)
}
