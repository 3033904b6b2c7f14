package shell_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/vrog/internal/adapters/shell"
	"go.trai.ch/vrog/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestExecutor_Execute_MultiLineOutput(t *testing.T) {
	executor := shell.NewExecutor()

	var stdout bytes.Buffer
	err := executor.Execute(context.Background(), "echo line1; echo line2", t.TempDir(), nil, &stdout, io.Discard)
	require.NoError(t, err)

	output := stdout.String()
	require.Contains(t, output, "line1")
	require.Contains(t, output, "line2")
}

func TestExecutor_Execute_FragmentedOutput(t *testing.T) {
	executor := shell.NewExecutor()

	var stdout bytes.Buffer
	err := executor.Execute(context.Background(), "printf part1; sleep 0.1; echo part2", t.TempDir(), nil, &stdout, io.Discard)
	require.NoError(t, err)

	output := stdout.String()
	require.Contains(t, output, "part1")
	require.Contains(t, output, "part2")
}

func TestExecutor_Execute_SilentCommandsSucceed(t *testing.T) {
	executor := shell.NewExecutor()
	dir := t.TempDir()

	for i := range 50 {
		for _, command := range []string{"touch stamp", "cp stamp copy", "true"} {
			err := executor.Execute(context.Background(), command, dir, nil, io.Discard, io.Discard)
			require.NoError(t, err, "%s (iteration %d)", command, i)
		}
	}
	assert.FileExists(t, filepath.Join(dir, "copy"))
}

func TestExecutor_Execute_OutputAfterExitIsKept(t *testing.T) {
	executor := shell.NewExecutor()

	for range 20 {
		var stdout bytes.Buffer
		err := executor.Execute(context.Background(), "echo last-line", t.TempDir(), nil, &stdout, io.Discard)
		require.NoError(t, err)
		require.Contains(t, stdout.String(), "last-line")
	}
}

func TestExecutor_Execute_EnvironmentVariables(t *testing.T) {
	executor := shell.NewExecutor()

	var stdout bytes.Buffer
	err := executor.Execute(
		context.Background(),
		"echo $MY_TEST_VAR",
		t.TempDir(),
		[]string{"MY_TEST_VAR=test-value-123"},
		&stdout,
		io.Discard,
	)
	require.NoError(t, err)
	require.Contains(t, stdout.String(), "test-value-123")
}

func TestExecutor_Execute_SystemEnvironmentIsFiltered(t *testing.T) {
	t.Setenv("VROG_SECRET_TOKEN", "leaked")
	executor := shell.NewExecutor()

	var stdout bytes.Buffer
	err := executor.Execute(context.Background(), "echo \"[$VROG_SECRET_TOKEN]\"", t.TempDir(), nil, &stdout, io.Discard)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "[]")
	assert.NotContains(t, stdout.String(), "leaked")
}

func TestExecutor_Execute_WorkingDirectory(t *testing.T) {
	executor := shell.NewExecutor()
	dir := t.TempDir()

	err := executor.Execute(context.Background(), "echo hi > out.txt", dir, nil, io.Discard, io.Discard)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hi\n", string(content))
}

func TestExecutor_Execute_CommandFailure(t *testing.T) {
	executor := shell.NewExecutor()

	err := executor.Execute(context.Background(), "exit 42", t.TempDir(), nil, io.Discard, io.Discard)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCommandFailed)
	assert.True(t, strings.Contains(err.Error(), "command failed"), "error should mention command failure: %v", err)

	var zErr *zerr.Error
	require.True(t, errors.As(err, &zErr))
	assert.Equal(t, 42, zErr.Metadata()["exit_code"])
	assert.Equal(t, "exit 42", zErr.Metadata()["command"])
}

func TestExecutor_Execute_UnknownProgram(t *testing.T) {
	executor := shell.NewExecutor()

	err := executor.Execute(context.Background(), "nonexistent-command-xyz123", t.TempDir(), nil, io.Discard, io.Discard)
	require.ErrorIs(t, err, domain.ErrCommandFailed)

	var zErr *zerr.Error
	require.True(t, errors.As(err, &zErr))
	assert.Equal(t, 127, zErr.Metadata()["exit_code"])
}

func TestExecutor_Execute_EmptyCommand(t *testing.T) {
	executor := shell.NewExecutor()

	err := executor.Execute(context.Background(), "   ", t.TempDir(), nil, io.Discard, io.Discard)
	require.NoError(t, err)
}

func TestExecutor_Execute_Canceled(t *testing.T) {
	executor := shell.NewExecutor()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := executor.Execute(ctx, "sleep 5", t.TempDir(), nil, io.Discard, io.Discard)
	require.Error(t, err)
}

func TestExecutor_Execute_HermeticPath(t *testing.T) {
	executor := shell.NewExecutor()
	binDir := t.TempDir()

	//nolint:gosec // Test requires executable file
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "my-hermetic-tool"), []byte("#!/bin/sh\necho success\n"), 0o700))

	var stdout bytes.Buffer
	err := executor.Execute(context.Background(), "my-hermetic-tool", t.TempDir(), []string{"PATH=" + binDir}, &stdout, io.Discard)
	require.NoError(t, err)
	require.Contains(t, stdout.String(), "success")
}

func TestExecutor_Execute_StreamsANSI(t *testing.T) {
	executor := shell.NewExecutor()

	ansiRed := "\033[31m"
	ansiReset := "\033[0m"
	msg := "Hello Red World"

	var stdout bytes.Buffer
	err := executor.Execute(
		context.Background(),
		"printf '"+ansiRed+msg+ansiReset+"'",
		t.TempDir(),
		nil,
		&stdout,
		io.Discard,
	)
	require.NoError(t, err)

	output := stdout.String()
	assert.Contains(t, output, ansiRed)
	assert.Contains(t, output, msg)
}

func TestExecutor_CustomShell(t *testing.T) {
	executor := shell.NewExecutorWithShell("/bin/sh")

	var stdout bytes.Buffer
	err := executor.Execute(context.Background(), "echo from-sh", t.TempDir(), nil, &stdout, io.Discard)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "from-sh")
}
