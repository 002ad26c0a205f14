package orchestrator

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/weld/internal/adapters/esbuild"            //nolint:depguard // Wired in engine wiring
	"go.trai.ch/weld/internal/adapters/htmldoc"            //nolint:depguard // Wired in engine wiring
	"go.trai.ch/weld/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/weld/internal/adapters/minify"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/weld/internal/adapters/sass"               //nolint:depguard // Wired in engine wiring
	"go.trai.ch/weld/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/weld/internal/core/ports"
)

// NodeID is the unique identifier for the orchestrator Graft node.
const NodeID graft.ID = "engine.orchestrator"

func init() {
	graft.Register(graft.Node[*Orchestrator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			htmldoc.NodeID,
			sass.NodeID,
			esbuild.NodeID,
			minify.NodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Orchestrator, error) {
			codec, err := graft.Dep[ports.DocumentCodec](ctx)
			if err != nil {
				return nil, err
			}

			styles, err := graft.Dep[ports.StyleCompiler](ctx)
			if err != nil {
				return nil, err
			}

			scripts, err := graft.Dep[ports.ScriptBundler](ctx)
			if err != nil {
				return nil, err
			}

			minifier, err := graft.Dep[ports.Minifier](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(codec, styles, scripts, minifier, telemetry, log), nil
		},
	})
}
