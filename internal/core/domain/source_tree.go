package domain

import (
	"path"
	"slices"
	"strings"
)

// DocumentExts lists the extensions of files processed as documents.
var DocumentExts = []string{".html", ".htm"}

// SourceTree is the classified content of a source directory.
// Paths are slash-separated and relative to the source root.
type SourceTree struct {
	// Documents are processed by the build pipeline, in lexical order.
	Documents []string
	// PassThrough files are copied to the destination unchanged.
	PassThrough []string
}

// IsDocument reports whether name is processed as a document.
func IsDocument(name string) bool {
	return slices.Contains(DocumentExts, strings.ToLower(path.Ext(name)))
}
