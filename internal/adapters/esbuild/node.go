package esbuild

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/weld/internal/core/ports"
)

// NodeID is the unique identifier for the script bundler Graft node.
const NodeID graft.ID = "adapter.esbuild"

func init() {
	graft.Register(graft.Node[ports.ScriptBundler]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ScriptBundler, error) {
			return New(), nil
		},
	})
}
