package builder

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/vrog/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/vrog/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/vrog/internal/adapters/shell"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/vrog/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/vrog/internal/core/ports"
)

// NodeID is the unique identifier for the builder Graft node.
const NodeID graft.ID = "engine.builder"

func init() {
	graft.Register(graft.Node[*Builder]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.OracleNodeID,
			shell.RunnerNodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Builder, error) {
			oracle, err := graft.Dep[ports.StalenessOracle](ctx)
			if err != nil {
				return nil, err
			}
			runner, err := graft.Dep[ports.TaskRunner](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewBuilder(oracle, runner, tracer, log), nil
		},
	})
}
