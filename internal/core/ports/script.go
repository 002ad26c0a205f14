package ports

import "context"

// ScriptBundler bundles a script entry point and everything it imports into one script.
//
//go:generate go run go.uber.org/mock/mockgen -source=script.go -destination=mocks/mock_script.go -package=mocks
type ScriptBundler interface {
	// Bundle bundles the source-relative entry found under rootDir.
	// Exactly one entry-point artifact must be produced, otherwise an error
	// wrapping domain.ErrOutputCount is returned.
	Bundle(ctx context.Context, entry, rootDir string) (string, error)
}
