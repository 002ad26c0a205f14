package ports

import "context"

// WriteRequest describes the materialization of one build.
type WriteRequest struct {
	// Source is the absolute source root pass-through files are copied from.
	Source string
	// Destination is the absolute output root.
	Destination string
	// Clean removes Destination before writing.
	Clean bool
	// Files maps source-relative output paths to their built content.
	Files map[string][]byte
	// PassThrough lists source-relative paths copied verbatim.
	// Paths also present in Files are not copied.
	PassThrough []string
}

// WriteStats reports what an OutputWriter did.
type WriteStats struct {
	Written   int
	Unchanged int
	Copied    int
}

// OutputWriter materializes built files and pass-through copies under the destination.
//
//go:generate go run go.uber.org/mock/mockgen -source=output.go -destination=mocks/mock_output.go -package=mocks
type OutputWriter interface {
	Write(ctx context.Context, req WriteRequest) (WriteStats, error)
}
