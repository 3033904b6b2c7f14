package builder

import (
	"context"

	"go.trai.ch/vrog/internal/core/domain"
)

// session is one depth-first, fully blocking build.
type session struct {
	ctx      context.Context
	b        *Builder
	registry *domain.Registry
	opts     Options
	rec      *recorder

	// stack and visiting track the targets currently being resolved.
	stack    []domain.InternedString
	visiting map[domain.InternedString]bool
	resolved map[domain.InternedString]domain.Outcome
}

func newSession(
	ctx context.Context,
	b *Builder,
	registry *domain.Registry,
	opts Options,
	rec *recorder,
) *session {
	return &session{
		ctx:      ctx,
		b:        b,
		registry: registry,
		opts:     opts,
		rec:      rec,
		visiting: make(map[domain.InternedString]bool),
		resolved: make(map[domain.InternedString]domain.Outcome),
	}
}

func (s *session) resolve(target domain.InternedString) (domain.Outcome, error) {
	if s.visiting[target] {
		return domain.OutcomeUpToDate, cycleError(s.stack, target)
	}
	if outcome, ok := s.resolved[target]; ok {
		return outcome, nil
	}
	if err := s.ctx.Err(); err != nil {
		return domain.OutcomeUpToDate, err
	}

	s.visiting[target] = true
	s.stack = append(s.stack, target)
	defer func() {
		delete(s.visiting, target)
		s.stack = s.stack[:len(s.stack)-1]
	}()

	rule, ok := s.registry.Lookup(target)
	if !ok {
		outcome, err := s.b.resolveSource(s.registry, target)
		if err != nil {
			return outcome, err
		}
		s.resolved[target] = outcome
		return outcome, nil
	}

	depRebuilt := false
	for _, dep := range rule.Dependencies {
		outcome, err := s.resolve(dep)
		if err != nil {
			return domain.OutcomeUpToDate, err
		}
		if outcome == domain.OutcomeRebuilt {
			depRebuilt = true
		}
	}

	outcome, err := s.b.settle(s.ctx, s.registry, rule, depRebuilt, s.opts, s.rec)
	if err != nil {
		return outcome, err
	}
	s.resolved[target] = outcome
	return outcome, nil
}
