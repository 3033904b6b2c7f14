package tui

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the TUI renderer Graft node.
const NodeID graft.ID = "adapter.renderer.tui"

func init() {
	graft.Register(graft.Node[*Renderer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Renderer, error) {
			return NewRenderer(nil), nil
		},
	})
}
