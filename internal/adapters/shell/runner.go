package shell

import (
	"context"
	"io"
	"path/filepath"
	"slices"

	"go.trai.ch/vrog/internal/core/domain"
	"go.trai.ch/vrog/internal/core/ports"
)

// Runner implements ports.TaskRunner by dispatching on the task variant.
type Runner struct {
	executor ports.CommandExecutor
}

// NewRunner creates a new Runner that hands command tasks to executor.
func NewRunner(executor ports.CommandExecutor) *Runner {
	return &Runner{executor: executor}
}

// Run executes rule.Task. Relative working directories are resolved against root.
func (r *Runner) Run(ctx context.Context, root string, rule *domain.Rule, stdout, stderr io.Writer) error {
	switch task := rule.Task.(type) {
	case *domain.CommandTask:
		return r.executor.Execute(
			ctx,
			task.Expand(rule.Target, rule.Dependencies),
			workingDir(root, task.WorkingDir),
			environ(task.Environment),
			stdout,
			stderr,
		)
	case domain.FuncTask:
		return task(ctx, rule)
	case domain.NoopTask, *domain.NoopTask:
		return nil
	default:
		return domain.Annotate(domain.ErrUnsupportedTask, "target", rule.Target.String(), "task", rule.Task.Describe())
	}
}

func workingDir(root string, dir domain.InternedString) string {
	if dir.String() == "" {
		return root
	}
	if filepath.IsAbs(dir.String()) {
		return dir.String()
	}
	return filepath.Join(root, dir.String())
}

// environ flattens a task environment into sorted KEY=VALUE entries.
func environ(vars map[string]string) []string {
	if len(vars) == 0 {
		return nil
	}
	env := make([]string, 0, len(vars))
	for k, v := range vars {
		env = append(env, k+"="+v)
	}
	slices.Sort(env)
	return env
}
