package ports

import "context"

// ImportResolver resolves imports found inside style sources.
// Paths are slash-separated and relative to the source root.
type ImportResolver interface {
	// Resolve maps request, found in the file at from, to an existing file.
	// An empty from means request is a top-level path relative to the source root.
	Resolve(request, from string) (string, error)
	// ReadFile returns the content of a resolved file.
	ReadFile(name string) ([]byte, error)
}

// StyleRequest describes one style compilation.
type StyleRequest struct {
	// Path is the resolved, source-relative path of the entry stylesheet.
	Path    string
	Source  []byte
	Imports ImportResolver
	Minify  bool
}

// StyleCompiler compiles style sources to CSS.
//
//go:generate go run go.uber.org/mock/mockgen -source=style.go -destination=mocks/mock_style.go -package=mocks
type StyleCompiler interface {
	// Compile returns the compiled CSS or an error wrapping domain.ErrStyleCompile.
	Compile(ctx context.Context, req StyleRequest) (string, error)
}
