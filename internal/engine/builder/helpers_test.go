package builder_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.trai.ch/vrog/internal/core/domain"
	"go.trai.ch/vrog/internal/core/ports"
	"go.trai.ch/vrog/internal/core/ports/mocks"
	"go.trai.ch/vrog/internal/engine/builder"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

// memOracle is an in-memory filesystem with a monotonic clock.
type memOracle struct {
	mu    sync.Mutex
	clock time.Time
	files map[string]time.Time
	stats int
}

func newMemOracle(existing ...string) *memOracle {
	o := &memOracle{
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		files: make(map[string]time.Time),
	}
	for _, name := range existing {
		o.touch(name)
	}
	return o
}

// touch creates or updates name with a timestamp later than every previous one.
func (o *memOracle) touch(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.clock = o.clock.Add(time.Second)
	o.files[name] = o.clock
}

func (o *memOracle) set(name string, at time.Time) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.files[name] = at
}

func (o *memOracle) statCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stats
}

func (o *memOracle) Exists(path string) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stats++
	_, ok := o.files[path]
	return ok, nil
}

func (o *memOracle) ModTime(path string) (time.Time, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stats++
	at, ok := o.files[path]
	if !ok {
		return time.Time{}, domain.Annotate(domain.ErrStatFailed, "path", path)
	}
	return at, nil
}

// fakeRunner records the targets it runs and touches them in the oracle.
type fakeRunner struct {
	oracle *memOracle

	mu    sync.Mutex
	ran   []string
	fail  map[string]error
	phony map[string]bool
	hook  func(ctx context.Context, target string) error
}

func newFakeRunner(oracle *memOracle) *fakeRunner {
	return &fakeRunner{
		oracle: oracle,
		fail:   make(map[string]error),
		phony:  make(map[string]bool),
	}
}

func (r *fakeRunner) Run(ctx context.Context, _ string, rule *domain.Rule, stdout, _ io.Writer) error {
	name := rule.Target.String()
	r.mu.Lock()
	r.ran = append(r.ran, name)
	r.mu.Unlock()

	_, _ = io.WriteString(stdout, "building "+name+"\n")

	if r.hook != nil {
		if err := r.hook(ctx, name); err != nil {
			return err
		}
	}
	if err := r.fail[name]; err != nil {
		return err
	}
	if !r.phony[name] {
		r.oracle.touch(name)
	}
	return nil
}

func (r *fakeRunner) runs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ran...)
}

func (r *fakeRunner) count(target string) int {
	n := 0
	for _, name := range r.runs() {
		if name == target {
			n++
		}
	}
	return n
}

// newTestBuilder wires a builder with permissive tracer and logger mocks.
func newTestBuilder(t *testing.T, oracle ports.StalenessOracle, runner ports.TaskRunner) *builder.Builder {
	t.Helper()
	ctrl := gomock.NewController(t)

	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().End().AnyTimes()
	span.EXPECT().RecordError(gomock.Any()).AnyTimes()
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()
	span.EXPECT().Write(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
		return len(p), nil
	}).AnyTimes()

	tracer := mocks.NewMockTracer(ctrl)
	tracer.EXPECT().Start(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string) (context.Context, ports.Span) {
			return ctx, span
		},
	).AnyTimes()
	tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	return builder.NewBuilder(oracle, runner, tracer, logger)
}

type ruleDef struct {
	target string
	deps   []string
}

func newRegistry(t *testing.T, rules ...ruleDef) *domain.Registry {
	t.Helper()
	reg := domain.NewRegistry()
	for _, r := range rules {
		require.NoError(t, reg.AddRule(r.target, r.deps, &domain.CommandTask{Command: "touch $@"}))
	}
	return reg
}

func metadata(t *testing.T, err error) map[string]any {
	t.Helper()
	var zErr *zerr.Error
	require.True(t, errors.As(err, &zErr), "expected a zerr.Error in %v", err)
	return zErr.Metadata()
}

// modes runs a test once sequentially and once with parallel jobs.
var modes = []struct {
	name string
	jobs int
}{
	{name: "sequential", jobs: 1},
	{name: "parallel", jobs: 4},
}
