package app

import (
	"context"
	"io"

	"github.com/grindlemire/graft"
	"go.trai.ch/weld/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/weld/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/weld/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/weld/internal/adapters/sass"               //nolint:depguard // Wired in app layer
	"go.trai.ch/weld/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/weld/internal/engine/orchestrator"
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
			fs.WalkerNodeID,
			fs.WriterNodeID,
			orchestrator.NodeID,
			progrock.NodeID,
			logger.NodeID,
			sass.NodeID,
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

			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	walker, err := graft.Dep[ports.SourceWalker](ctx)
	if err != nil {
		return nil, err
	}

	writer, err := graft.Dep[ports.OutputWriter](ctx)
	if err != nil {
		return nil, err
	}

	orch, err := graft.Dep[*orchestrator.Orchestrator](ctx)
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

	styles, err := graft.Dep[ports.StyleCompiler](ctx)
	if err != nil {
		return nil, err
	}

	a := New(loader, walker, orch, writer, telemetry, log)
	if c, ok := styles.(io.Closer); ok {
		a.WithCloser(c)
	}
	return a, nil
}
