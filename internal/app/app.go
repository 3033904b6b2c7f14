// Package app implements the application layer for vrog.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/vrog/internal/core/domain"
	"go.trai.ch/vrog/internal/core/ports"
	"go.trai.ch/vrog/internal/engine/builder"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	loader   ports.RuleLoader
	builder  *builder.Builder
	display  ports.Display
	watcher  ports.Watcher
	logger   ports.Logger

	getwd    func() (string, error)
	debounce time.Duration
}

// New creates a new App instance.
func New(
	loader ports.RuleLoader,
	b *builder.Builder,
	display ports.Display,
	watcher ports.Watcher,
	log ports.Logger,
) *App {
	return &App{
		loader:   loader,
		builder:  b,
		display:  display,
		watcher:  watcher,
		logger:   log,
		getwd:    os.Getwd,
	}
}

// WithWorkingDir makes build file discovery start at dir instead of the process working directory.
func (a *App) WithWorkingDir(dir string) *App {
	a.getwd = func() (string, error) { return dir, nil }
	return a
}

// WithDebounce sets how long watch mode waits for changes to settle.
func (a *App) WithDebounce(d time.Duration) *App {
	a.debounce = d
	return a
}

// BuildOptions configuration for the Build method.
type BuildOptions struct {
	// File is an explicit build file; empty means discover one.
	File string
	// Jobs bounds how many tasks run at once.
	Jobs int
	// DryRun reports what would be rebuilt without running anything.
	DryRun bool
	// Always rebuilds every rule target.
	Always bool
	// OutputMode is "auto", "tui", "linear" or "ci"; empty means auto.
	OutputMode string
}

// Build brings target up to date.
func (a *App) Build(ctx context.Context, target string, opts BuildOptions) error {
	mode, err := parseOutputMode(opts.OutputMode)
	if err != nil {
		return err
	}
	if opts.DryRun {
		mode = ports.OutputLinear
	}

	registry, err := a.load(opts.File)
	if err != nil {
		return err
	}

	report, err := a.build(ctx, registry, target, mode, builder.Options{
		Jobs:   opts.Jobs,
		DryRun: opts.DryRun,
		Always: opts.Always,
	})
	if err != nil {
		return err
	}

	a.summarize(report, opts.DryRun)
	return nil
}

// TargetsOptions configuration for the Targets method.
type TargetsOptions struct {
	// File is an explicit build file; empty means discover one.
	File string
}

// Targets lists the registered targets matching pattern, sorted. An empty
// pattern matches everything.
func (a *App) Targets(_ context.Context, pattern string, opts TargetsOptions) ([]string, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, domain.Annotate(domain.ErrInvalidPattern, "pattern", pattern)
	}

	registry, err := a.load(opts.File)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, t := range registry.Targets() {
		name := t.String()
		if pattern != "" {
			if ok, _ := doublestar.Match(pattern, name); !ok {
				continue
			}
		}
		out = append(out, name)
	}
	return out, nil
}

// load reads the rules, from file when given and by discovery otherwise.
func (a *App) load(file string) (*domain.Registry, error) {
	if file != "" {
		abs, err := filepath.Abs(file)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to resolve build file path")
		}
		return a.loader.LoadFile(abs)
	}

	cwd, err := a.getwd()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to get current working directory")
	}
	return a.loader.Load(cwd)
}

// build runs one session on the display in mode and flushes it whatever the result.
func (a *App) build(
	ctx context.Context,
	registry *domain.Registry,
	target string,
	mode ports.OutputMode,
	opts builder.Options,
) (*builder.Report, error) {
	a.display.SetMode(mode)
	report, err := a.builder.BuildReport(ctx, registry, target, opts)
	if stopErr := a.display.Stop(); stopErr != nil && err == nil {
		err = zerr.Wrap(stopErr, "failed to flush build output")
	}
	return report, err
}

// parseOutputMode maps a user-supplied mode name onto a ports.OutputMode.
func parseOutputMode(s string) (ports.OutputMode, error) {
	switch s {
	case "", string(ports.OutputAuto):
		return ports.OutputAuto, nil
	case string(ports.OutputTUI):
		return ports.OutputTUI, nil
	case string(ports.OutputLinear), "ci":
		return ports.OutputLinear, nil
	default:
		return "", domain.Annotate(domain.ErrInvalidOutputMode, "mode", s)
	}
}

func (a *App) summarize(report *builder.Report, dryRun bool) {
	target := report.Target.String()
	switch {
	case len(report.Rebuilt) == 0:
		a.logger.Info(fmt.Sprintf("'%s' is up to date", target))
	case dryRun:
		a.logger.Info(fmt.Sprintf("would rebuild %d target(s) for '%s': %s",
			len(report.Rebuilt), target, strings.Join(domain.Strings(report.Rebuilt), " ")))
	default:
		a.logger.Info(fmt.Sprintf("rebuilt %d target(s) for '%s'", len(report.Rebuilt), target))
	}
}
