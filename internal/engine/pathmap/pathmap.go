// Package pathmap maps asset references between document-relative and
// source-relative form. All paths are slash-separated.
package pathmap

import (
	"path"
	"strings"
)

// MapReference joins ref with the document directory ownerDir and returns the
// source-relative candidate path. A root-relative ref (leading "/") is returned
// unchanged; it resolves against the source root.
func MapReference(ownerDir, ref string) string {
	if strings.HasPrefix(ref, "/") {
		return ref
	}
	return path.Join(ownerDir, ref)
}

// DemapReference returns the path of target relative to ownerDir, suitable for
// writing back into a document that lives in ownerDir. A root-relative target
// is returned unchanged.
func DemapReference(ownerDir, target string) string {
	if strings.HasPrefix(target, "/") {
		return target
	}

	from := splitClean(ownerDir)
	to := splitClean(target)

	common := 0
	for common < len(from) && common < len(to) && from[common] == to[common] {
		common++
	}

	parts := make([]string, 0, len(from)-common+len(to)-common)
	for range from[common:] {
		parts = append(parts, "..")
	}
	parts = append(parts, to[common:]...)

	if len(parts) == 0 {
		return "."
	}
	return strings.Join(parts, "/")
}

// SourceRelative strips the root marker from a mapped reference so it can be
// opened from the source root.
func SourceRelative(mapped string) string {
	return path.Clean(strings.TrimPrefix(mapped, "/"))
}

// Dir returns the source-relative directory of a document path.
func Dir(docPath string) string {
	return path.Dir(docPath)
}

func splitClean(p string) []string {
	p = path.Clean(p)
	if p == "." || p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
