package explore

import (
	"time"
)

// ControlKind tags the widgets of the controls row.
type ControlKind int

const (
	ControlVariableSelectors ControlKind = iota
	ControlSpacer
	ControlTimePicker
	ControlRefreshPicker
)

func (k ControlKind) String() string {
	switch k {
	case ControlVariableSelectors:
		return "variables"
	case ControlSpacer:
		return "spacer"
	case ControlTimePicker:
		return "time"
	case ControlRefreshPicker:
		return "refresh"
	}
	return "unknown"
}

// Control is one entry of the controls row.
type Control struct {
	Kind ControlKind
	Key  string
}

// IsVariableSelector reports whether the control belongs to the selectors
// group rather than the trailing controls group.
func (c Control) IsVariableSelector() bool {
	return c.Kind == ControlVariableSelectors
}

// DefaultControls is the row used when none is supplied.
func DefaultControls() []Control {
	return []Control{
		{Kind: ControlVariableSelectors, Key: "variables"},
		{Kind: ControlSpacer, Key: "spacer"},
		{Kind: ControlTimePicker, Key: "time"},
		{Kind: ControlRefreshPicker, Key: "refresh"},
	}
}

// DefaultLast is the relative time range of a new exploration.
const DefaultLast = 15 * time.Minute

// TimeRange is a range relative to now.
type TimeRange struct {
	Last time.Duration
}

// Bounds resolves the range against now.
func (r TimeRange) Bounds(now time.Time) (from, to time.Time) {
	last := r.Last
	if last <= 0 {
		last = DefaultLast
	}
	return now.Add(-last), now
}
