package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/vrog/internal/adapters/display" //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/vrog/internal/core/ports"
)

// TracerNodeID is the unique identifier for the telemetry Graft node.
const TracerNodeID graft.ID = "adapter.telemetry"

// InstrumentationName names the tracer spans are recorded under.
const InstrumentationName = "vrog"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{display.NodeID},
		Run: func(ctx context.Context) (ports.Tracer, error) {
			renderer, err := graft.Dep[ports.Display](ctx)
			if err != nil {
				return nil, err
			}
			return NewOTelTracer(InstrumentationName).WithRenderer(renderer), nil
		},
	})
}
