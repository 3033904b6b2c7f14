package builder

import (
	"context"
	"errors"
	"sync"

	"go.trai.ch/vrog/internal/core/domain"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// future is the single shared resolution of one target.
type future struct {
	done    chan struct{}
	outcome domain.Outcome
	err     error
}

// parallelSession resolves independent dependency subtrees concurrently.
// The graph must be known to be acyclic before resolve is called.
//
// Every target is computed under the session context, never under the context
// of whichever parent asked first, so a shared target only sees cancellation
// once the session itself is failing.
type parallelSession struct {
	ctx      context.Context
	cancel   context.CancelCauseFunc
	b        *Builder
	registry *domain.Registry
	opts     Options
	rec      *recorder
	slots    *semaphore.Weighted

	mu      sync.Mutex
	futures map[domain.InternedString]*future
	first   error
}

// runParallel builds root with up to opts.Jobs tasks at once and returns the
// first failure, not the cancellations it caused.
func runParallel(
	ctx context.Context,
	b *Builder,
	registry *domain.Registry,
	root domain.InternedString,
	opts Options,
	rec *recorder,
) (domain.Outcome, error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	s := &parallelSession{
		ctx:      ctx,
		cancel:   cancel,
		b:        b,
		registry: registry,
		opts:     opts,
		rec:      rec,
		slots:    semaphore.NewWeighted(int64(opts.Jobs)),
		futures:  make(map[domain.InternedString]*future),
	}

	outcome, err := s.resolve(root)
	if first := s.failure(); first != nil {
		return domain.OutcomeUpToDate, first
	}
	return outcome, err
}

// fail records err as the session's failure and stops every other target.
// Cancellations are fallout of an earlier failure or of the caller's context.
func (s *parallelSession) fail(err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.first == nil {
		s.first = err
		s.cancel(err)
	}
}

func (s *parallelSession) failure() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.first
}

// resolve returns the outcome of target, computing it at most once per session.
// Concurrent callers for the same target wait for the first one.
func (s *parallelSession) resolve(target domain.InternedString) (domain.Outcome, error) {
	s.mu.Lock()
	if f, ok := s.futures[target]; ok {
		s.mu.Unlock()
		<-f.done
		return f.outcome, f.err
	}
	f := &future{done: make(chan struct{})}
	s.futures[target] = f
	s.mu.Unlock()

	f.outcome, f.err = s.compute(target)
	if f.err != nil {
		s.fail(f.err)
	}
	close(f.done)
	return f.outcome, f.err
}

func (s *parallelSession) compute(target domain.InternedString) (domain.Outcome, error) {
	if err := s.ctx.Err(); err != nil {
		return domain.OutcomeUpToDate, err
	}

	rule, ok := s.registry.Lookup(target)
	if !ok {
		return s.b.resolveSource(s.registry, target)
	}

	outcomes := make([]domain.Outcome, len(rule.Dependencies))
	var g errgroup.Group
	for i, dep := range rule.Dependencies {
		g.Go(func() error {
			outcome, err := s.resolve(dep)
			outcomes[i] = outcome
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return domain.OutcomeUpToDate, err
	}

	depRebuilt := false
	for _, outcome := range outcomes {
		if outcome == domain.OutcomeRebuilt {
			depRebuilt = true
			break
		}
	}

	// Slots bound running tasks only, never goroutines waiting on dependencies.
	if err := s.slots.Acquire(s.ctx, 1); err != nil {
		return domain.OutcomeUpToDate, err
	}
	defer s.slots.Release(1)

	return s.b.settle(s.ctx, s.registry, rule, depRebuilt, s.opts, s.rec)
}
