// Package shell runs rule tasks: command lines through bash in a pty, and in-process functions.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/creack/pty"
	"go.trai.ch/vrog/internal/core/domain"
	"go.trai.ch/zerr"
)

// DefaultShell is the interpreter command lines are passed to with -c.
const DefaultShell = "bash"

// Executor implements ports.CommandExecutor using os/exec and pty.
type Executor struct {
	shell string
}

// NewExecutor creates a new Executor that runs commands with DefaultShell.
func NewExecutor() *Executor {
	return &Executor{shell: DefaultShell}
}

// NewExecutorWithShell creates a new Executor that runs commands with the given shell.
func NewExecutorWithShell(shell string) *Executor {
	return &Executor{shell: shell}
}

// drainTimeout bounds how long output is drained after the command exits, for
// background processes that keep the terminal open.
const drainTimeout = 250 * time.Millisecond

type ptyProcess struct {
	cmd    *exec.Cmd
	ptmx   *os.File
	ioDone <-chan struct{}
}

// Wait reaps the command, drains its output and only then closes the master.
// Closing the master earlier hangs up a command that has not exited yet.
func (p *ptyProcess) Wait() error {
	err := p.cmd.Wait()
	select {
	case <-p.ioDone:
	case <-time.After(drainTimeout):
	}
	_ = p.ptmx.Close()
	<-p.ioDone
	return err
}

// Execute runs command with the shell and waits for it to complete.
// The pty merges the command's stdout and stderr; both are copied to stdout.
func (e *Executor) Execute(
	ctx context.Context,
	command, dir string,
	env []string,
	stdout, _ io.Writer,
) error {
	if strings.TrimSpace(command) == "" {
		return nil
	}

	proc, err := e.start(ctx, command, dir, env, stdout)
	if err != nil {
		return err
	}

	if err := proc.Wait(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return domain.Because(domain.ErrCommandFailed, err, "exit_code", exitCode, "command", command)
	}
	return nil
}

func (e *Executor) start(
	ctx context.Context,
	command, dir string,
	env []string,
	stdout io.Writer,
) (*ptyProcess, error) {
	cmdEnv := resolveEnvironment(os.Environ(), env)

	executable := e.shell
	if !filepath.IsAbs(executable) {
		if lp, err := lookPath(executable, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, "-c", command) //nolint:gosec // user provided command
	cmd.Args[0] = e.shell
	cmd.Dir = dir
	cmd.Env = cmdEnv

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to start pty"), "shell", e.shell)
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		// Reading the master returns EIO once every holder of the slave has exited.
		_, _ = io.Copy(stdout, ptmx)
	}()

	return &ptyProcess{cmd: cmd, ptmx: ptmx, ioDone: ioDone}, nil
}

// allowListedEnvVars are the system environment variables a command inherits.
// Everything else must be declared on the rule or the build file.
var allowListedEnvVars = map[string]struct{}{
	"HOME": {},
	"TERM": {},
	"USER": {},
	"PATH": {},
}

// resolveEnvironment filters the system environment through the allow-list and
// applies the extra entries on top. An extra PATH is prepended to the system PATH.
func resolveEnvironment(sysEnv, extra []string) []string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, allowed := allowListedEnvVars[k]; allowed {
			envMap[k] = v
		}
	}

	for _, entry := range extra {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if k == "PATH" {
			if sysPath := envMap["PATH"]; sysPath != "" {
				v = v + string(os.PathListSeparator) + sysPath
			}
		}
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH entry of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
