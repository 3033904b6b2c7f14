package display

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/vrog/internal/adapters/linear" //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/vrog/internal/adapters/tui"    //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/vrog/internal/core/ports"
)

// NodeID is the unique identifier for the display Graft node.
const NodeID graft.ID = "adapter.display"

func init() {
	graft.Register(graft.Node[ports.Display]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{linear.RendererNodeID, tui.NodeID},
		Run: func(ctx context.Context) (ports.Display, error) {
			lin, err := graft.Dep[*linear.Renderer](ctx)
			if err != nil {
				return nil, err
			}
			t, err := graft.Dep[*tui.Renderer](ctx)
			if err != nil {
				return nil, err
			}
			return New(lin, t, DetectMode), nil
		},
	})
}
