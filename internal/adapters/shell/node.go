package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/vrog/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the command executor Graft node.
	NodeID graft.ID = "adapter.executor"
	// RunnerNodeID is the unique identifier for the task runner Graft node.
	RunnerNodeID graft.ID = "adapter.runner"
)

func init() {
	graft.Register(graft.Node[ports.CommandExecutor]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{},
		Run: func(_ context.Context) (ports.CommandExecutor, error) {
			return NewExecutor(), nil
		},
	})

	graft.Register(graft.Node[ports.TaskRunner]{
		ID:        RunnerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID},
		Run: func(ctx context.Context) (ports.TaskRunner, error) {
			executor, err := graft.Dep[ports.CommandExecutor](ctx)
			if err != nil {
				return nil, err
			}
			return NewRunner(executor), nil
		},
	})
}
