package filter

// VisibilityFor is the auto-hide policy: an empty collection is hidden
// entirely, a non-empty one keeps its inputs but hides the label.
func VisibilityFor(n int) Visibility {
	if n == 0 {
		return VisibilityHidden
	}
	return VisibilityHideLabel
}

// ApplyVisibilityPolicy recomputes the visibility from the current filters.
// Applying it to an already consistent collection changes nothing and
// emits no notification.
func ApplyVisibilityPolicy(c *Collection) {
	c.SetVisibility(VisibilityFor(c.Len()))
}

// AutoHide applies the policy now and after every later change, returning
// the function that detaches it.
func AutoHide(c *Collection) func() {
	ApplyVisibilityPolicy(c)
	return c.Subscribe(func(_, _ Snapshot) {
		ApplyVisibilityPolicy(c)
	})
}
