package tui

// FocusTarget identifies which panel currently holds keyboard focus.
type FocusTarget int

const (
	FocusBar FocusTarget = iota // The frame: keys become clicks
	FocusLog                    // The diagnostics log: keys scroll
)

const focusTargets = 2

// Next returns the next focus target in tab order.
func (f FocusTarget) Next() FocusTarget {
	return (f + 1) % focusTargets
}

// Prev returns the previous focus target in tab order.
func (f FocusTarget) Prev() FocusTarget {
	return (f + focusTargets - 1) % focusTargets
}

// String returns the human-readable name of the focus target.
func (f FocusTarget) String() string {
	switch f {
	case FocusBar:
		return "bar"
	case FocusLog:
		return "log"
	default:
		return "unknown"
	}
}
