// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/weld/internal/adapters/config"
	_ "go.trai.ch/weld/internal/adapters/esbuild"
	_ "go.trai.ch/weld/internal/adapters/fs"
	_ "go.trai.ch/weld/internal/adapters/htmldoc"
	_ "go.trai.ch/weld/internal/adapters/logger"
	_ "go.trai.ch/weld/internal/adapters/minify"
	_ "go.trai.ch/weld/internal/adapters/sass"
	_ "go.trai.ch/weld/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/weld/internal/app"
	_ "go.trai.ch/weld/internal/engine/orchestrator"
)
