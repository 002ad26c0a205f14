package sass

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/weld/internal/adapters/logger"
	"go.trai.ch/weld/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the style compiler Graft node.
	NodeID graft.ID = "adapter.sass"
	// BinaryEnv overrides the Dart Sass executable.
	BinaryEnv = "WELD_SASS_BINARY"
)

func init() {
	graft.Register(graft.Node[ports.StyleCompiler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.StyleCompiler, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(log, Options{Binary: os.Getenv(BinaryEnv)}), nil
		},
	})
}
