package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/vrog/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/vrog/internal/adapters/display" //nolint:depguard // Wired in app layer
	"go.trai.ch/vrog/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/vrog/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/vrog/internal/core/ports"
	"go.trai.ch/vrog/internal/engine/builder"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			builder.NodeID,
			display.NodeID,
			watcher.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewComponents(a, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.RuleLoader](ctx)
	if err != nil {
		return nil, err
	}
	b, err := graft.Dep[*builder.Builder](ctx)
	if err != nil {
		return nil, err
	}
	disp, err := graft.Dep[ports.Display](ctx)
	if err != nil {
		return nil, err
	}
	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	return New(loader, b, disp, w, log), nil
}
