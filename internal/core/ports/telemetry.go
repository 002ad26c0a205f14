package ports

import (
	"context"
	"io"
)

// Telemetry records units of work performed during a build.
type Telemetry interface {
	// Record starts a new vertex named name.
	Record(ctx context.Context, name string) (context.Context, Vertex)
	// Close flushes the recording session.
	Close() error
}

// Vertex is one recorded unit of work.
type Vertex interface {
	// Stdout returns a writer for progress output of this vertex.
	Stdout() io.Writer
	// Complete marks the vertex as finished, with err when it failed.
	Complete(err error)
	// Cached marks the vertex as served from the build cache.
	Cached()
}

type vertexKey struct{}

// ContextWithVertex returns a copy of ctx carrying v.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexKey{}, v)
}

// VertexFromContext returns the vertex stored in ctx, if any.
func VertexFromContext(ctx context.Context) (Vertex, bool) {
	v, ok := ctx.Value(vertexKey{}).(Vertex)
	return v, ok
}
