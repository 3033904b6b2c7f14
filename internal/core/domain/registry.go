package domain

import (
	"maps"
	"slices"
	"strings"
)

// Registry maps each target to its single build rule.
// Rules may be added at any time before a build, but the registry must not be
// mutated while a build is in flight.
type Registry struct {
	rules map[InternedString]*Rule
	root  string
}

// NewRegistry creates an empty Registry rooted at the current directory.
func NewRegistry() *Registry {
	return &Registry{
		rules: make(map[InternedString]*Rule),
		root:  ".",
	}
}

// SetRoot sets the directory relative targets are resolved against.
func (r *Registry) SetRoot(root string) {
	r.root = root
}

// Root returns the directory relative targets are resolved against.
func (r *Registry) Root() string {
	return r.root
}

// AddRule registers a rule for target. Registration is append-only: a target that
// already has a rule is rejected with ErrDuplicateRule. The rule keeps its own
// copy of deps and of a CommandTask.
func (r *Registry) AddRule(target string, deps []string, task Task) error {
	if strings.TrimSpace(target) == "" {
		return Annotate(ErrInvalidTarget, "target", target)
	}
	for i, dep := range deps {
		if strings.TrimSpace(dep) == "" {
			return Annotate(ErrInvalidTarget, "target", target, "dependency", i)
		}
	}
	if isNilTask(task) {
		return Annotate(ErrInvalidTask, "target", target)
	}
	if cmd, ok := task.(*CommandTask); ok {
		c := *cmd
		c.Environment = maps.Clone(cmd.Environment)
		task = &c
	}

	name := NewInternedString(target)
	if _, exists := r.rules[name]; exists {
		return Annotate(ErrDuplicateRule, "target", target)
	}

	r.rules[name] = &Rule{
		Target:       name,
		Dependencies: NewInternedStrings(deps),
		Task:         task,
	}
	return nil
}

// Lookup returns the rule for target. A missing rule is not an error: the caller
// treats such a target as a source file.
func (r *Registry) Lookup(target InternedString) (*Rule, bool) {
	rule, ok := r.rules[target]
	return rule, ok
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	return len(r.rules)
}

// Targets returns all registered targets sorted by name.
func (r *Registry) Targets() []InternedString {
	targets := make([]InternedString, 0, len(r.rules))
	for name := range r.rules {
		targets = append(targets, name)
	}
	slices.SortFunc(targets, func(a, b InternedString) int {
		return strings.Compare(a.String(), b.String())
	})
	return targets
}

// Sources returns the unregistered leaves reachable from root, in first-visit
// order. Cycles are tolerated; they are reported by the builder, not here.
func (r *Registry) Sources(root InternedString) []InternedString {
	var sources []InternedString
	seen := make(map[InternedString]bool)

	var visit func(t InternedString)
	visit = func(t InternedString) {
		if seen[t] {
			return
		}
		seen[t] = true

		rule, ok := r.rules[t]
		if !ok {
			sources = append(sources, t)
			return
		}
		for _, dep := range rule.Dependencies {
			visit(dep)
		}
	}
	visit(root)

	return sources
}

func isNilTask(task Task) bool {
	switch t := task.(type) {
	case nil:
		return true
	case FuncTask:
		return t == nil
	case *CommandTask:
		return t == nil
	default:
		return false
	}
}
