package domain

// Rule is the recipe for producing a target: the targets it depends on, in
// declaration order, and the task that produces it.
type Rule struct {
	Target       InternedString
	Dependencies []InternedString
	Task         Task
}

// Outcome is the terminal state of a target within a build session.
type Outcome uint8

const (
	// OutcomeUpToDate means the target needed no work.
	OutcomeUpToDate Outcome = iota
	// OutcomeRebuilt means the target's task ran successfully in this session.
	OutcomeRebuilt
)

// String returns the string representation of the Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeRebuilt:
		return "rebuilt"
	default:
		return "up-to-date"
	}
}
