// Package builder brings requested targets up to date.
package builder

import (
	"context"
	"path/filepath"
	"sync"

	"go.trai.ch/vrog/internal/core/domain"
	"go.trai.ch/vrog/internal/core/ports"
)

// Options tune a single build session.
type Options struct {
	// Jobs is the number of tasks that may run at once. Values <= 1 build sequentially.
	Jobs int
	// DryRun reports stale targets without running their tasks.
	DryRun bool
	// Always treats every rule target as stale.
	Always bool
}

// Report describes the result of one build session.
type Report struct {
	// Target is the requested target.
	Target domain.InternedString
	// Outcome is the outcome of the requested target.
	Outcome domain.Outcome
	// Rebuilt lists the targets whose tasks ran (or would run, in a dry run), in completion order.
	Rebuilt []domain.InternedString
}

// Builder resolves targets against a registry, running the tasks of stale rules.
// It holds no per-build state, so one Builder can serve many sessions.
type Builder struct {
	oracle ports.StalenessOracle
	runner ports.TaskRunner
	tracer ports.Tracer
	logger ports.Logger
}

// NewBuilder creates a new Builder with the given dependencies.
func NewBuilder(
	oracle ports.StalenessOracle,
	runner ports.TaskRunner,
	tracer ports.Tracer,
	logger ports.Logger,
) *Builder {
	return &Builder{
		oracle: oracle,
		runner: runner,
		tracer: tracer,
		logger: logger,
	}
}

// Build brings target up to date and returns its outcome.
func (b *Builder) Build(
	ctx context.Context,
	registry *domain.Registry,
	target string,
	opts Options,
) (domain.Outcome, error) {
	report, err := b.BuildReport(ctx, registry, target, opts)
	if err != nil {
		return domain.OutcomeUpToDate, err
	}
	return report.Outcome, nil
}

// BuildReport brings target up to date and reports every target that was rebuilt.
// Each call starts a fresh session: nothing is remembered from earlier builds.
func (b *Builder) BuildReport(
	ctx context.Context,
	registry *domain.Registry,
	target string,
	opts Options,
) (*Report, error) {
	if target == "" {
		return nil, domain.ErrNoTargetSpecified
	}
	root := domain.NewInternedString(target)

	if err := b.preflight(registry, root); err != nil {
		return nil, err
	}
	b.tracer.EmitPlan(ctx, domain.Strings(plan(registry, root)), target)

	rec := &recorder{}
	var (
		outcome domain.Outcome
		err     error
	)
	if opts.Jobs > 1 {
		outcome, err = runParallel(ctx, b, registry, root, opts, rec)
	} else {
		outcome, err = newSession(ctx, b, registry, opts, rec).resolve(root)
	}
	if err != nil {
		return nil, err
	}

	return &Report{
		Target:  root,
		Outcome: outcome,
		Rebuilt: rec.list(),
	}, nil
}

// preflight rejects a graph that can never build before any task runs: a cycle
// anywhere below root, or a source file that is missing.
func (b *Builder) preflight(registry *domain.Registry, root domain.InternedString) error {
	if err := detectCycle(registry, root); err != nil {
		return err
	}
	for _, src := range sources(registry, root) {
		if _, err := b.resolveSource(registry, src); err != nil {
			return err
		}
	}
	return nil
}

// resolveSource handles a target without a rule: it must already exist.
func (b *Builder) resolveSource(registry *domain.Registry, target domain.InternedString) (domain.Outcome, error) {
	exists, err := b.oracle.Exists(pathOf(registry, target))
	if err != nil {
		return domain.OutcomeUpToDate, err
	}
	if !exists {
		return domain.OutcomeUpToDate, domain.Annotate(domain.ErrMissingSource, "target", target.String())
	}
	return domain.OutcomeUpToDate, nil
}

// settle decides whether rule is stale once all its dependencies are settled,
// and runs its task if so. depRebuilt reports whether any dependency was rebuilt
// in this session.
func (b *Builder) settle(
	ctx context.Context,
	registry *domain.Registry,
	rule *domain.Rule,
	depRebuilt bool,
	opts Options,
	rec *recorder,
) (domain.Outcome, error) {
	stale, reason, err := b.isStale(registry, rule, depRebuilt, opts)
	if err != nil {
		return domain.OutcomeUpToDate, err
	}
	if !stale {
		return domain.OutcomeUpToDate, nil
	}

	if opts.DryRun {
		b.logger.Info("would rebuild " + rule.Target.String() + " (" + reason + "): " + rule.Task.Describe())
		rec.add(rule.Target)
		return domain.OutcomeRebuilt, nil
	}

	if err := b.run(ctx, registry, rule, reason); err != nil {
		return domain.OutcomeUpToDate, err
	}
	rec.add(rule.Target)
	return domain.OutcomeRebuilt, nil
}

func (b *Builder) run(ctx context.Context, registry *domain.Registry, rule *domain.Rule, reason string) error {
	ctx, span := b.tracer.Start(ctx, rule.Target.String())
	defer span.End()

	span.SetAttribute("vrog.target", rule.Target.String())
	span.SetAttribute("vrog.reason", reason)
	span.SetAttribute("vrog.task", rule.Task.Describe())

	if err := b.runner.Run(ctx, registry.Root(), rule, span, span); err != nil {
		span.RecordError(err)
		return domain.Because(domain.ErrTaskExecutionFailed, err, "target", rule.Target.String())
	}
	return nil
}

// isStale applies the staleness rule and returns a short reason for a stale verdict.
func (b *Builder) isStale(
	registry *domain.Registry,
	rule *domain.Rule,
	depRebuilt bool,
	opts Options,
) (stale bool, reason string, err error) {
	if opts.Always {
		return true, "forced", nil
	}

	targetPath := pathOf(registry, rule.Target)
	exists, err := b.oracle.Exists(targetPath)
	if err != nil {
		return false, "", err
	}
	if !exists {
		return true, "missing", nil
	}
	if depRebuilt {
		return true, "dependency rebuilt", nil
	}

	targetTime, err := b.oracle.ModTime(targetPath)
	if err != nil {
		return false, "", err
	}

	for _, dep := range rule.Dependencies {
		depPath := pathOf(registry, dep)
		depExists, err := b.oracle.Exists(depPath)
		if err != nil {
			return false, "", err
		}
		// A phony dependency has no timestamp to compare.
		if !depExists {
			continue
		}
		depTime, err := b.oracle.ModTime(depPath)
		if err != nil {
			return false, "", err
		}
		if depTime.After(targetTime) {
			return true, "older than " + dep.String(), nil
		}
	}
	return false, "", nil
}

// pathOf maps a target to the file that represents it.
func pathOf(registry *domain.Registry, target domain.InternedString) string {
	name := target.String()
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(registry.Root(), name)
}

// recorder collects rebuilt targets in completion order.
type recorder struct {
	mu      sync.Mutex
	rebuilt []domain.InternedString
}

func (r *recorder) add(target domain.InternedString) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rebuilt = append(r.rebuilt, target)
}

func (r *recorder) list() []domain.InternedString {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.InternedString(nil), r.rebuilt...)
}
