package query

import (
	"encoding/json"
	"fmt"
)

// PatternType tells whether matching lines are kept or dropped.
type PatternType int

const (
	Include PatternType = iota
	Exclude
)

func (p PatternType) String() string {
	if p == Include {
		return "include"
	}
	return "exclude"
}

// ParsePatternType accepts "include" and "exclude".
func ParsePatternType(s string) (PatternType, error) {
	switch s {
	case "include":
		return Include, nil
	case "exclude":
		return Exclude, nil
	}
	return Include, fmt.Errorf("unknown pattern type %q", s)
}

func (p PatternType) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *PatternType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("pattern type: %w", err)
	}
	v, err := ParsePatternType(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// AppliedPattern is a user committed include/exclude pattern. Values are
// compared by equality of both fields.
type AppliedPattern struct {
	Pattern string      `json:"pattern"`
	Type    PatternType `json:"type"`
}

// RemovePattern returns a new list without the first entry equal to p.
// The input is left untouched.
func RemovePattern(patterns []AppliedPattern, p AppliedPattern) ([]AppliedPattern, bool) {
	for i, candidate := range patterns {
		if candidate == p {
			out := make([]AppliedPattern, 0, len(patterns)-1)
			out = append(out, patterns[:i]...)
			return append(out, patterns[i+1:]...), true
		}
	}
	return patterns, false
}

// SplitPatterns partitions patterns by type, keeping relative order.
func SplitPatterns(patterns []AppliedPattern) (include, exclude []AppliedPattern) {
	for _, p := range patterns {
		if p.Type == Include {
			include = append(include, p)
		} else {
			exclude = append(exclude, p)
		}
	}
	return include, exclude
}
