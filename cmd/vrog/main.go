// Package main is the entry point for the vrog build tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/vrog/cmd/vrog/commands"
	"go.trai.ch/vrog/internal/app"
	"go.trai.ch/vrog/internal/core/domain"
	_ "go.trai.ch/vrog/internal/wiring"
)

// Exit codes.
const (
	exitOK            = 0
	exitFailure       = 1
	exitDuplicateRule = 2
	exitCycle         = 3
	exitMissingSource = 4
	exitTaskFailed    = 5
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, func(ctx context.Context) (*app.Components, error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, err
	}))
}

func run(
	ctx context.Context,
	args []string,
	stdout, stderr io.Writer,
	provider ComponentProvider,
) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, err := provider(ctx)
	if err != nil {
		// No logger yet.
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return exitFailure
	}

	cli := commands.New(components.App, components.Logger)
	cli.SetArgs(args)
	cli.SetOutput(stdout, stderr)

	if err := cli.Execute(ctx); err != nil {
		components.Logger.Error(err)
		return exitCode(err)
	}
	return exitOK
}

// exitCode maps an error to the process exit status. A task failure wins over
// whatever caused it.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, domain.ErrTaskExecutionFailed):
		return exitTaskFailed
	case errors.Is(err, domain.ErrDuplicateRule):
		return exitDuplicateRule
	case errors.Is(err, domain.ErrCycleDetected):
		return exitCycle
	case errors.Is(err, domain.ErrMissingSource):
		return exitMissingSource
	default:
		return exitFailure
	}
}
