package explore

import "slices"

// EventKind identifies events published inside an exploration.
type EventKind int

const (
	// StartingPointSelected is published once the user confirmed an initial
	// filter value.
	StartingPointSelected EventKind = iota
	// DetailsUpdated is published when the details panel has new content.
	DetailsUpdated
)

func (k EventKind) String() string {
	switch k {
	case StartingPointSelected:
		return "starting-point-selected"
	case DetailsUpdated:
		return "details-updated"
	}
	return "unknown"
}

// Event carries no payload beyond its kind.
type Event struct {
	Kind EventKind
}

type subscription struct {
	id      int
	kind    EventKind
	handler func(Event)
}

// Bus dispatches events synchronously to the handlers subscribed for their
// kind, in subscription order.
type Bus struct {
	subs   []subscription
	nextID int
}

// Subscribe registers handler for kind and returns the function removing it.
func (b *Bus) Subscribe(kind EventKind, handler func(Event)) func() {
	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, subscription{id: id, kind: kind, handler: handler})
	return func() {
		b.subs = slices.DeleteFunc(b.subs, func(s subscription) bool { return s.id == id })
	}
}

// Publish delivers evt. It returns the number of handlers invoked.
func (b *Bus) Publish(evt Event) int {
	n := 0
	for _, s := range slices.Clone(b.subs) {
		if s.kind == evt.Kind {
			s.handler(evt)
			n++
		}
	}
	return n
}
