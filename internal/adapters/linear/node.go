package linear

import (
	"context"

	"github.com/grindlemire/graft"
)

// RendererNodeID is the unique identifier for the linear renderer Graft node.
const RendererNodeID graft.ID = "adapter.renderer.linear"

func init() {
	graft.Register(graft.Node[*Renderer]{
		ID:        RendererNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Renderer, error) {
			return NewRenderer(nil, nil), nil
		},
	})
}
