package builder

import (
	"slices"
	"strings"

	"go.trai.ch/vrog/internal/core/domain"
)

// plan returns the rule targets reachable from root in dependency-first order.
// Cycles are tolerated; they are reported by the build itself.
func plan(registry *domain.Registry, root domain.InternedString) []domain.InternedString {
	var (
		order []domain.InternedString
		seen  = make(map[domain.InternedString]bool)
		visit func(domain.InternedString)
	)
	visit = func(target domain.InternedString) {
		if seen[target] {
			return
		}
		seen[target] = true
		rule, ok := registry.Lookup(target)
		if !ok {
			return
		}
		for _, dep := range rule.Dependencies {
			visit(dep)
		}
		order = append(order, target)
	}
	visit(root)
	return order
}

// detectCycle walks the subgraph reachable from root without touching the
// filesystem and reports the first cycle found in declared dependency order.
func detectCycle(registry *domain.Registry, root domain.InternedString) error {
	var (
		stack    []domain.InternedString
		visiting = make(map[domain.InternedString]bool)
		done     = make(map[domain.InternedString]bool)
		visit    func(domain.InternedString) error
	)
	visit = func(target domain.InternedString) error {
		if visiting[target] {
			return cycleError(stack, target)
		}
		if done[target] {
			return nil
		}
		rule, ok := registry.Lookup(target)
		if !ok {
			done[target] = true
			return nil
		}

		visiting[target] = true
		stack = append(stack, target)
		for _, dep := range rule.Dependencies {
			if err := visit(dep); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		delete(visiting, target)
		done[target] = true
		return nil
	}
	return visit(root)
}

// sources returns the targets without a rule reachable from root, in
// declared dependency order. root itself is included when it has no rule.
func sources(registry *domain.Registry, root domain.InternedString) []domain.InternedString {
	var (
		out   []domain.InternedString
		seen  = make(map[domain.InternedString]bool)
		visit func(domain.InternedString)
	)
	visit = func(target domain.InternedString) {
		if seen[target] {
			return
		}
		seen[target] = true
		rule, ok := registry.Lookup(target)
		if !ok {
			out = append(out, target)
			return
		}
		for _, dep := range rule.Dependencies {
			visit(dep)
		}
	}
	visit(root)
	return out
}

// cycleError reports the members of the cycle closed by target, starting at target.
func cycleError(stack []domain.InternedString, target domain.InternedString) error {
	start := slices.Index(stack, target)
	if start < 0 {
		start = 0
	}
	members := domain.Strings(stack[start:])
	path := strings.Join(append(slices.Clone(members), target.String()), " -> ")
	return domain.Annotate(domain.ErrCycleDetected, "cycle", members, "path", path)
}
