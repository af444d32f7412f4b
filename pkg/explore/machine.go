// Package explore implements the exploration session: the mode, the pattern
// list, the details panel and the variables feeding the logs query, kept
// consistent by a small set of transition handlers and mirrored into a
// shareable URL.
package explore

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/bascanada/logexplorer/pkg/explore/filter"
	"github.com/bascanada/logexplorer/pkg/explore/query"
	"github.com/bascanada/logexplorer/pkg/log"
)

// ErrUnsettled is returned when the transition handlers keep producing
// patches past the settle limit.
var ErrUnsettled = errors.New("exploration state did not settle")

const maxSettlePasses = 8

// State is a snapshot of an exploration. Patterns is nil when undefined,
// which is distinct from an empty list.
type State struct {
	Mode           Mode
	TopView        TopView
	Controls       []Control
	TimeRange      TimeRange
	DetailsVisible bool
	// Details is the content of the visible side panel, nil when closed.
	Details *DetailsState
	// Reserve holds content waiting for the panel to open.
	Reserve  *DetailsState
	Patterns []query.AppliedPattern
}

// Clone returns a copy sharing nothing mutable with s.
func (s State) Clone() State {
	c := s
	c.Controls = slices.Clone(s.Controls)
	c.Details = s.Details.Clone()
	c.Reserve = s.Reserve.Clone()
	c.Patterns = slices.Clone(s.Patterns)
	return c
}

// Patch mutates a state in place.
type Patch func(*State)

// Transition reacts to a state change with follow-up patches.
type Transition struct {
	Name  string
	Apply func(old, new State) []Patch
}

// Options configures a new exploration.
type Options struct {
	Mode     Mode
	Patterns []query.AppliedPattern
	Controls []Control
	Last     time.Duration
	// StartingLabel is the label key used by SelectStartingPoint.
	StartingLabel string
	Variables     VariableOptions
	// URLSink receives the URL projection while the exploration is active.
	URLSink func(URLValues)
}

// Exploration owns one session. It is not safe for concurrent use: every
// call must come from the same event loop.
type Exploration struct {
	id            string
	state         State
	vars          *Variables
	bus           Bus
	transitions   []Transition
	startingLabel string
	urlSink       func(URLValues)

	observers map[int]func(old, new State)
	nextID    int
	active    bool
}

// DefaultStartingLabel is the label a starting point value is bound to.
const DefaultStartingLabel = "service_name"

// New creates an inactive exploration.
func New(opts Options) *Exploration {
	controls := opts.Controls
	if controls == nil {
		controls = DefaultControls()
	}
	last := opts.Last
	if last <= 0 {
		last = DefaultLast
	}
	startingLabel := opts.StartingLabel
	if startingLabel == "" {
		startingLabel = DefaultStartingLabel
	}

	e := &Exploration{
		id: uuid.NewString(),
		state: State{
			Mode:      opts.Mode,
			Controls:  slices.Clone(controls),
			TimeRange: TimeRange{Last: last},
			Reserve:   &DetailsState{},
			Patterns:  slices.Clone(opts.Patterns),
		},
		vars:          NewVariables(opts.Variables),
		startingLabel: startingLabel,
		urlSink:       opts.URLSink,
		observers:     make(map[int]func(old, new State)),
	}
	e.transitions = []Transition{
		{Name: "details-panel", Apply: e.onDetailsVisibility},
		{Name: "top-view", Apply: e.onModeChange},
		{Name: "patterns-variable", Apply: e.onPatternsChange},
	}
	return e
}

// ID identifies the session in logs.
func (e *Exploration) ID() string { return e.id }

// State returns a copy of the current state.
func (e *Exploration) State() State { return e.state.Clone() }

func (e *Exploration) Variables() *Variables { return e.vars }

func (e *Exploration) Active() bool { return e.active }

// Query composes the current logs query.
func (e *Exploration) Query() string { return e.vars.Query() }

// Activate starts the session: derives the top view, attaches the filter
// visibility policy, subscribes to events and starts pushing the URL
// projection. The returned function undoes all of it.
func (e *Exploration) Activate() func() {
	if e.active {
		return func() {}
	}
	e.active = true

	if e.state.TopView == TopViewNone {
		if err := e.update(func(s *State) { s.TopView = TopViewFor(s.Mode) }); err != nil {
			log.Error("exploration %s: activate: %v", e.id, err)
		}
	}
	e.vars.Patterns.ChangeValueTo(query.RenderPatterns(e.state.Patterns))

	var cleanups []func()
	for _, id := range e.vars.Filters.IDs() {
		cleanups = append(cleanups, filter.AutoHide(e.vars.Filters.Get(id)))
	}

	cleanups = append(cleanups,
		e.bus.Subscribe(StartingPointSelected, func(Event) {
			if err := e.SetMode(ModeLogs); err != nil {
				log.Error("exploration %s: starting point: %v", e.id, err)
			}
		}),
		e.bus.Subscribe(DetailsUpdated, func(Event) {
			if err := e.SetDetailsVisible(true); err != nil {
				log.Error("exploration %s: details: %v", e.id, err)
			}
		}),
	)

	if e.urlSink != nil {
		cleanups = append(cleanups, e.startURLSync(e.urlSink))
	}

	log.Debug("exploration %s activated mode=%q", e.id, e.state.Mode)

	return func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
		e.active = false
		log.Debug("exploration %s deactivated", e.id)
	}
}

// Subscribe registers fn, called after every settled state change.
func (e *Exploration) Subscribe(fn func(old, new State)) func() {
	id := e.nextID
	e.nextID++
	e.observers[id] = fn
	return func() { delete(e.observers, id) }
}

// Publish delivers evt to the session's subscribers.
func (e *Exploration) Publish(evt Event) {
	log.Trace("exploration %s: event %s", e.id, evt.Kind)
	e.bus.Publish(evt)
}

// SetMode changes the mode.
func (e *Exploration) SetMode(m Mode) error {
	return e.update(func(s *State) { s.Mode = m })
}

// SetDetailsVisible opens or closes the details panel.
func (e *Exploration) SetDetailsVisible(visible bool) error {
	return e.update(func(s *State) { s.DetailsVisible = visible })
}

func (e *Exploration) ToggleDetails() error {
	return e.SetDetailsVisible(!e.state.DetailsVisible)
}

// UpdateDetails replaces the panel content, stamped with the session id,
// and publishes DetailsUpdated.
func (e *Exploration) UpdateDetails(d DetailsState) error {
	d.Session = e.id
	err := e.update(func(s *State) {
		if s.DetailsVisible {
			s.Details = d.Clone()
		} else {
			s.Reserve = d.Clone()
		}
	})
	if err != nil {
		return err
	}
	e.Publish(Event{Kind: DetailsUpdated})
	return nil
}

// AddPattern appends p to the pattern list.
func (e *Exploration) AddPattern(p query.AppliedPattern) error {
	if p.Pattern == "" {
		return fmt.Errorf("empty pattern")
	}
	return e.update(func(s *State) {
		s.Patterns = append(slices.Clone(s.Patterns), p)
	})
}

// RemovePattern deletes the first pattern equal to p.
func (e *Exploration) RemovePattern(p query.AppliedPattern) (bool, error) {
	next, ok := query.RemovePattern(e.state.Patterns, p)
	if !ok {
		return false, nil
	}
	return true, e.update(func(s *State) { s.Patterns = next })
}

// SetPatterns replaces the pattern list, nil meaning undefined.
func (e *Exploration) SetPatterns(patterns []query.AppliedPattern) error {
	return e.update(func(s *State) { s.Patterns = slices.Clone(patterns) })
}

// SetTimeRange changes the relative time range.
func (e *Exploration) SetTimeRange(last time.Duration) error {
	if last <= 0 {
		return fmt.Errorf("time range must be positive, got %s", last)
	}
	return e.update(func(s *State) { s.TimeRange = TimeRange{Last: last} })
}

// update applies mutate then runs the transitions until none of them
// produces a patch.
func (e *Exploration) update(mutate Patch) error {
	before := e.state.Clone()
	mutate(&e.state)

	prev := before
	settled := false
	for pass := 0; pass < maxSettlePasses; pass++ {
		cur := e.state.Clone()
		var patches []Patch
		for _, t := range e.transitions {
			p := t.Apply(prev, cur)
			if len(p) > 0 {
				log.Trace("exploration %s: %s produced %d patch(es)", e.id, t.Name, len(p))
			}
			patches = append(patches, p...)
		}
		if len(patches) == 0 {
			settled = true
			break
		}
		for _, p := range patches {
			p(&e.state)
		}
		prev = cur
	}

	e.notify(before)

	if !settled {
		log.Error("exploration %s: state still changing after %d passes", e.id, maxSettlePasses)
		return ErrUnsettled
	}
	return nil
}

func (e *Exploration) notify(before State) {
	ids := make([]int, 0, len(e.observers))
	for id := range e.observers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	now := e.state.Clone()
	for _, id := range ids {
		if fn, ok := e.observers[id]; ok {
			fn(before, now)
		}
	}
}

func (e *Exploration) onDetailsVisibility(old, cur State) []Patch {
	if old.DetailsVisible == cur.DetailsVisible {
		return nil
	}
	if cur.DetailsVisible {
		return []Patch{func(s *State) {
			held := s.Reserve
			if held == nil {
				held = &DetailsState{}
			}
			s.Details = held.Clone()
			s.Reserve = &DetailsState{}
		}}
	}
	return []Patch{func(s *State) {
		s.Details = nil
		s.Reserve = &DetailsState{}
	}}
}

func (e *Exploration) onModeChange(old, cur State) []Patch {
	if old.Mode == cur.Mode {
		return nil
	}
	log.Debug("exploration %s: mode %q -> %q", e.id, old.Mode, cur.Mode)
	view := TopViewFor(cur.Mode)
	if cur.TopView == view {
		return nil
	}
	return []Patch{func(s *State) { s.TopView = view }}
}

func (e *Exploration) onPatternsChange(old, cur State) []Patch {
	if patternsEqual(old.Patterns, cur.Patterns) {
		return nil
	}
	e.vars.Patterns.ChangeValueTo(query.RenderPatterns(cur.Patterns))
	return nil
}

func patternsEqual(a, b []query.AppliedPattern) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return slices.Equal(a, b)
}
