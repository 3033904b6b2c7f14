package app

import (
	"context"
	"path/filepath"
	"sync"

	"go.trai.ch/vrog/internal/adapters/watcher"
	"go.trai.ch/vrog/internal/core/domain"
	"go.trai.ch/vrog/internal/core/ports"
	"go.trai.ch/vrog/internal/engine/builder"
)

// WatchOptions configuration for the Watch method.
type WatchOptions struct {
	// File is an explicit build file; empty means discover one.
	File string
	// Jobs bounds how many tasks run at once.
	Jobs int
	// OutputMode is "auto", "tui", "linear" or "ci"; empty means auto.
	OutputMode string
}

// Watch builds target, then rebuilds it in a fresh session whenever one of its
// source files or the build file changes. Build failures are logged and
// watching continues. It returns when ctx is done or the watcher's event
// stream ends.
func (a *App) Watch(ctx context.Context, target string, opts WatchOptions) error {
	if target == "" {
		return domain.ErrNoTargetSpecified
	}

	mode, err := parseOutputMode(opts.OutputMode)
	if err != nil {
		return err
	}

	registry, err := a.load(opts.File)
	if err != nil {
		return err
	}
	buildOpts := builder.Options{Jobs: opts.Jobs}

	a.rebuild(ctx, registry, target, mode, buildOpts)

	if err := a.watcher.Start(ctx, registry.Root()); err != nil {
		return err
	}
	defer func() { _ = a.watcher.Stop() }()

	changes := newChangeSet()
	debouncer := watcher.NewDebouncer(a.debounce, changes.add)
	defer debouncer.Stop()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		for ev := range a.watcher.Events() {
			debouncer.Add(ev.Path)
		}
	}()

	a.logger.Info("watching for changes to '" + target + "'")
	watched := watchSet(registry, target, opts.File)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-stopped:
			// The event stream ended; changes still waiting out the window get one last build.
			debouncer.Flush()
			if ctx.Err() == nil && changes.touches(watched) {
				a.reloadAndRebuild(ctx, target, opts.File, mode, buildOpts)
			}
			return nil
		case <-changes.ready:
			if !changes.touches(watched) {
				continue
			}

			if next := a.reloadAndRebuild(ctx, target, opts.File, mode, buildOpts); next != nil {
				watched = next
			}
		}
	}
}

// reloadAndRebuild rereads the build file and rebuilds target. It returns the
// new watch set, or nil when the build file could not be loaded.
func (a *App) reloadAndRebuild(
	ctx context.Context,
	target, file string,
	mode ports.OutputMode,
	opts builder.Options,
) map[string]struct{} {
	registry, err := a.load(file)
	if err != nil {
		a.logger.Error(err)
		return nil
	}
	a.rebuild(ctx, registry, target, mode, opts)
	return watchSet(registry, target, file)
}

// rebuild runs one build session, logging rather than returning its outcome.
func (a *App) rebuild(
	ctx context.Context,
	registry *domain.Registry,
	target string,
	mode ports.OutputMode,
	opts builder.Options,
) {
	report, err := a.build(ctx, registry, target, mode, opts)
	if err != nil {
		if ctx.Err() == nil {
			a.logger.Error(err)
		}
		return
	}
	a.summarize(report, false)
}

// watchSet returns the absolute paths whose change triggers a rebuild: the
// source leaves reachable from target, the build files in the root and file,
// when an explicit build file was given.
func watchSet(registry *domain.Registry, target, file string) map[string]struct{} {
	root := registry.Root()
	set := make(map[string]struct{})

	add := func(p string) {
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		if abs, err := filepath.Abs(p); err == nil {
			set[abs] = struct{}{}
		}
	}

	for _, src := range registry.Sources(domain.NewInternedString(target)) {
		add(src.String())
	}
	for _, name := range domain.BuildFileNames {
		add(name)
	}
	if file != "" {
		if abs, err := filepath.Abs(file); err == nil {
			set[abs] = struct{}{}
		}
	}
	return set
}

// changeSet accumulates changed paths between rebuilds.
type changeSet struct {
	mu    sync.Mutex
	paths map[string]struct{}
	ready chan struct{}
}

func newChangeSet() *changeSet {
	return &changeSet{
		paths: make(map[string]struct{}),
		ready: make(chan struct{}, 1),
	}
}

func (c *changeSet) add(paths []string) {
	c.mu.Lock()
	for _, p := range paths {
		c.paths[p] = struct{}{}
	}
	c.mu.Unlock()

	select {
	case c.ready <- struct{}{}:
	default:
	}
}

// touches drains the set and reports whether any path was in watched.
func (c *changeSet) touches(watched map[string]struct{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	hit := false
	for p := range c.paths {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		if _, ok := watched[p]; ok {
			hit = true
		}
	}
	clear(c.paths)
	return hit
}
