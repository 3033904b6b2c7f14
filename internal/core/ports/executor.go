// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/vrog/internal/core/domain"
)

// CommandExecutor runs shell command lines.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type CommandExecutor interface {
	// Execute runs command through the shell in dir with the extra environment
	// variables in env ("KEY=VALUE"). Output is streamed to stdout and stderr.
	// It returns an error if the command cannot be started or exits non-zero.
	Execute(ctx context.Context, command, dir string, env []string, stdout, stderr io.Writer) error
}

// TaskRunner executes a rule's task and reports success or failure.
// The builder is agnostic to how the task is represented.
type TaskRunner interface {
	// Run executes rule.Task. root is the directory relative paths are resolved against.
	Run(ctx context.Context, root string, rule *domain.Rule, stdout, stderr io.Writer) error
}
