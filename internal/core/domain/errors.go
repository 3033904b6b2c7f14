package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

var (
	// ErrDuplicateRule is returned when a second rule is registered for a target that already has one.
	ErrDuplicateRule = zerr.New("rule already registered for target")

	// ErrInvalidTarget is returned when a rule is registered with an empty target name.
	ErrInvalidTarget = zerr.New("target name must not be empty")

	// ErrInvalidTask is returned when a rule is registered without a task.
	ErrInvalidTask = zerr.New("rule task must not be nil")

	// ErrCycleDetected is returned when a target depends, directly or transitively, on itself.
	ErrCycleDetected = zerr.New("dependency cycle detected")

	// ErrMissingSource is returned when a leaf target has neither a rule nor a file on disk.
	ErrMissingSource = zerr.New("no rule to make target and file does not exist")

	// ErrTaskExecutionFailed is returned when a rule's task ran and reported failure.
	ErrTaskExecutionFailed = zerr.New("task execution failed")

	// ErrUnsupportedTask is returned when the task runner does not know how to run a task variant.
	ErrUnsupportedTask = zerr.New("unsupported task type")

	// ErrCommandFailed is returned when a shell command exits unsuccessfully.
	ErrCommandFailed = zerr.New("command failed")

	// ErrStatFailed is returned when a target's filesystem state cannot be determined.
	ErrStatFailed = zerr.New("failed to stat target")

	// ErrNoTargetSpecified is returned when a build is requested without a target.
	ErrNoTargetSpecified = zerr.New("no target specified")

	// ErrConfigNotFound is returned when no build file is found walking up from the working directory.
	ErrConfigNotFound = zerr.New("could not find vrog.yaml or vrog.hcl")

	// ErrConfigReadFailed is returned when the build file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read build file")

	// ErrConfigParseFailed is returned when the build file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse build file")

	// ErrUnsupportedConfigFormat is returned when the build file extension is not recognized.
	ErrUnsupportedConfigFormat = zerr.New("unsupported build file format")

	// ErrInvalidPattern is returned when a target filter pattern is malformed.
	ErrInvalidPattern = zerr.New("invalid target pattern")

	// ErrInvalidOutputMode is returned when the requested output mode is unknown.
	ErrInvalidOutputMode = zerr.New("invalid output mode")

	// ErrWatchFailed is returned when the file watcher cannot be started.
	ErrWatchFailed = zerr.New("failed to start file watcher")
)

// Annotate attaches metadata to a sentinel while keeping it in the error chain,
// so errors.Is still matches the sentinel and errors.As exposes the metadata.
func Annotate(sentinel error, kv ...any) error {
	return with(zerr.Wrap(sentinel, ""), kv)
}

// Because ties a sentinel to the error that caused it. Both stay reachable with errors.Is.
func Because(sentinel, cause error, kv ...any) error {
	if cause == nil {
		return Annotate(sentinel, kv...)
	}
	return with(zerr.Wrap(errors.Join(sentinel, cause), ""), kv)
}

func with(err error, kv []any) error {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		err = zerr.With(err, key, kv[i+1])
	}
	return err
}
