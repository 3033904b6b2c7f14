package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/vrog/internal/app"
	"go.trai.ch/vrog/internal/core/domain"
	"go.trai.ch/vrog/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// newComponents builds an App whose rule loader is the returned mock. Every
// test below fails before a build starts, so no builder is needed.
func newComponents(t *testing.T) (*mocks.MockRuleLoader, ComponentProvider) {
	t.Helper()
	ctrl := gomock.NewController(t)

	loader := mocks.NewMockRuleLoader(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	application := app.New(loader, nil, mocks.NewMockDisplay(ctrl), mocks.NewMockWatcher(ctrl), logger).
		WithWorkingDir(t.TempDir())

	return loader, func(_ context.Context) (*app.Components, error) {
		return app.NewComponents(application, logger), nil
	}
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	_, provider := newComponents(t)

	stdout := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stdout, new(bytes.Buffer), provider)

	assert.Equal(t, exitOK, exitCode)
	assert.Contains(t, stdout.String(), "vrog version")
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, error) {
		return nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), stderr, provider)

	assert.Equal(t, exitFailure, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExitCodes verifies that load failures map onto distinct exit codes.
func TestRun_ExitCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"generic", errors.New("load failed"), exitFailure},
		{"duplicate", domain.Annotate(domain.ErrDuplicateRule, "target", "a"), exitDuplicateRule},
		{"cycle", domain.Annotate(domain.ErrCycleDetected, "cycle", "a -> a"), exitCycle},
		{"missing", domain.Annotate(domain.ErrMissingSource, "target", "x.c"), exitMissingSource},
		{
			"task failure wins",
			domain.Because(domain.ErrTaskExecutionFailed, domain.ErrMissingSource, "target", "a"),
			exitTaskFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, provider := newComponents(t)
			loader.EXPECT().Load(gomock.Any()).Return(nil, tt.err)

			exitCode := run(context.Background(), []string{"build", "a"}, new(bytes.Buffer), new(bytes.Buffer), provider)
			assert.Equal(t, tt.want, exitCode)
		})
	}
}

func TestRun_InvalidOutputMode(t *testing.T) {
	_, provider := newComponents(t)

	exitCode := run(context.Background(), []string{"build", "-o", "fancy", "a"}, new(bytes.Buffer), new(bytes.Buffer), provider)
	assert.Equal(t, exitFailure, exitCode)
}

// TestRun_Signal verifies that the context handed to commands is cancelable.
func TestRun_Signal(t *testing.T) {
	loader, provider := newComponents(t)

	ctx, cancel := context.WithCancel(context.Background())
	loader.EXPECT().Load(gomock.Any()).DoAndReturn(func(_ string) (*domain.Registry, error) {
		cancel()
		return nil, context.Canceled
	})

	done := make(chan int, 1)
	go func() {
		done <- run(ctx, []string{"build", "a"}, new(bytes.Buffer), new(bytes.Buffer), provider)
	}()

	select {
	case code := <-done:
		assert.Equal(t, exitFailure, code)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return")
	}
}

func TestExitCode_Nil(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
}
