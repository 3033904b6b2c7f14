// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/vrog/internal/adapters/config"
	_ "go.trai.ch/vrog/internal/adapters/display"
	_ "go.trai.ch/vrog/internal/adapters/fs"
	_ "go.trai.ch/vrog/internal/adapters/linear"
	_ "go.trai.ch/vrog/internal/adapters/logger"
	_ "go.trai.ch/vrog/internal/adapters/shell"
	_ "go.trai.ch/vrog/internal/adapters/telemetry"
	_ "go.trai.ch/vrog/internal/adapters/tui"
	_ "go.trai.ch/vrog/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/vrog/internal/app"
	_ "go.trai.ch/vrog/internal/engine/builder"
)
