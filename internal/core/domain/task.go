package domain

import (
	"context"
	"strings"
)

// Task is the unit of work attached to a rule. The set of implementations is closed:
// CommandTask, FuncTask and NoopTask. A task reports only success or failure.
type Task interface {
	// Describe returns a short human-readable form of the task for logs.
	Describe() string

	isTask()
}

// CommandTask runs a shell command line.
type CommandTask struct {
	Command     string
	Environment map[string]string
	WorkingDir  InternedString
}

// Describe returns the unexpanded command line.
func (t *CommandTask) Describe() string { return t.Command }

func (*CommandTask) isTask() {}

// Expand substitutes the automatic variables for a rule: $@ is the target,
// $< the first dependency, $^ all dependencies separated by spaces and $$ a literal dollar.
func (t *CommandTask) Expand(target InternedString, deps []InternedString) string {
	var first string
	if len(deps) > 0 {
		first = deps[0].String()
	}
	r := strings.NewReplacer(
		"$$", "$",
		"$@", target.String(),
		"$<", first,
		"$^", strings.Join(Strings(deps), " "),
	)
	return r.Replace(t.Command)
}

// FuncTask runs in-process Go code. The rule it belongs to is passed in so the
// function can read its target and dependencies.
type FuncTask func(ctx context.Context, rule *Rule) error

// Describe implements Task.
func (FuncTask) Describe() string { return "<func>" }

func (FuncTask) isTask() {}

// NoopTask does nothing and always succeeds. It is used for aggregate targets.
type NoopTask struct{}

// Describe implements Task.
func (NoopTask) Describe() string { return "<noop>" }

func (NoopTask) isTask() {}
