package view

// PreviewThreshold is the length below which a pattern is shown in full.
const PreviewThreshold = 25

const previewSeparator = " … "

// PatternPreview shortens long patterns to their first and last fifth,
// both computed from the full length.
func PatternPreview(pattern string) string {
	runes := []rune(pattern)
	if len(runes) < PreviewThreshold {
		return pattern
	}
	n := len(runes) * 20 / 100
	return string(runes[:n]) + previewSeparator + string(runes[len(runes)-n:])
}

// ChipFocus tracks which chip has the cursor and whether it is expanded.
// Moving away collapses the chip.
type ChipFocus struct {
	Index    int
	Expanded bool
}

// NoChipFocus is the state without any focused chip.
var NoChipFocus = ChipFocus{Index: -1}

func (f ChipFocus) Focused() bool { return f.Index >= 0 }

// Next moves to the following chip among n, wrapping around.
func (f ChipFocus) Next(n int) ChipFocus {
	if n == 0 {
		return NoChipFocus
	}
	return ChipFocus{Index: (f.Index + 1) % n}
}

// Prev moves to the previous chip among n, wrapping around.
func (f ChipFocus) Prev(n int) ChipFocus {
	if n == 0 {
		return NoChipFocus
	}
	if f.Index <= 0 {
		return ChipFocus{Index: n - 1}
	}
	return ChipFocus{Index: f.Index - 1}
}

// Toggle expands or collapses the focused chip.
func (f ChipFocus) Toggle() ChipFocus {
	if !f.Focused() {
		return f
	}
	f.Expanded = !f.Expanded
	return f
}

// Blur drops the focus.
func (f ChipFocus) Blur() ChipFocus { return NoChipFocus }

// Clamp keeps the focus valid after the list shrank to n chips.
func (f ChipFocus) Clamp(n int) ChipFocus {
	switch {
	case n == 0 || !f.Focused():
		return NoChipFocus
	case f.Index >= n:
		return ChipFocus{Index: n - 1}
	}
	return f
}

// Label is the text of a chip for pattern given the focus state.
func (f ChipFocus) Label(index int, pattern string) string {
	if f.Index == index && f.Expanded {
		return pattern
	}
	return PatternPreview(pattern)
}
