package ports

import (
	"context"

	"go.trai.ch/weld/internal/core/domain"
)

// SourceWalker lists the files of a source directory.
//
//go:generate go run go.uber.org/mock/mockgen -source=source.go -destination=mocks/mock_source.go -package=mocks
type SourceWalker interface {
	// Scan classifies every file under cfg.Source, skipping cfg.Destination,
	// version control metadata and names matching cfg.Ignore.
	Scan(ctx context.Context, cfg domain.BuildConfig) (domain.SourceTree, error)
}
