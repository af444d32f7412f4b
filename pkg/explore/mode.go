package explore

import "fmt"

// Mode is the top level phase of an exploration.
type Mode string

const (
	ModeUnset Mode = ""
	ModeStart Mode = "start"
	ModeLogs  Mode = "logs"
)

// ParseMode accepts the URL representation. An empty string is ModeUnset.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeUnset, ModeStart, ModeLogs:
		return Mode(s), nil
	}
	return ModeUnset, fmt.Errorf("unknown mode %q", s)
}

// TopView is the primary content shown under the controls.
type TopView int

const (
	TopViewNone TopView = iota
	TopViewStartSelector
	TopViewLogs
)

func (v TopView) String() string {
	switch v {
	case TopViewStartSelector:
		return "start-selector"
	case TopViewLogs:
		return "logs"
	}
	return "none"
}

// TopViewFor derives the top view: logs mode shows the logs, anything else
// the starting point selector.
func TopViewFor(m Mode) TopView {
	if m == ModeLogs {
		return TopViewLogs
	}
	return TopViewStartSelector
}
