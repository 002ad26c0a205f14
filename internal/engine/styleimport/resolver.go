// Package styleimport resolves stylesheet imports using the partial-file and
// index-file conventions of Sass modules.
package styleimport

import (
	"io/fs"
	"path"
	"slices"
	"strings"

	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// rootAlias marks an import that resolves against the virtual package root.
	rootAlias = "~/"
	// indexName is the basename of a directory's index stylesheet.
	indexName   = "_index"
	partialMark = "_"
	defaultExt  = ".scss"
)

var _ ports.ImportResolver = (*Resolver)(nil)

// Resolver resolves style imports against a source tree.
type Resolver struct {
	fsys        fs.FS
	virtualRoot string
}

// New creates a Resolver reading from fsys. virtualRoot is the fsys-relative
// directory "~/" imports resolve against; empty means the root of fsys.
func New(fsys fs.FS, virtualRoot string) *Resolver {
	root := path.Clean(strings.Trim(virtualRoot, "/"))
	if root == "" {
		root = "."
	}
	return &Resolver{fsys: fsys, virtualRoot: root}
}

// Resolve maps request, found in the stylesheet at from, to an existing file.
// With an empty from, request is itself a source-relative path.
//
// Candidates are tried in order and the first existing file wins:
//  1. the resolved path verbatim (with the style extension appended when it has none);
//  2. when the resolved path is a directory, its _index file;
//  3. the partial sibling, named with a leading underscore.
func (r *Resolver) Resolve(request, from string) (string, error) {
	resolved := r.canonical(request, from)

	if !fs.ValidPath(resolved) {
		return "", notFound(resolved, from)
	}

	for _, candidate := range r.exact(resolved) {
		if r.isFile(candidate) {
			return candidate, nil
		}
	}

	if r.isDir(resolved) {
		for _, ext := range domain.StyleSourceExts {
			candidate := path.Join(resolved, indexName+ext)
			if r.isFile(candidate) {
				return candidate, nil
			}
		}
		return "", notFound(resolved, from)
	}

	for _, candidate := range r.exact(partialOf(resolved)) {
		if r.isFile(candidate) {
			return candidate, nil
		}
	}

	return "", notFound(resolved, from)
}

// ReadFile returns the content of a resolved file.
func (r *Resolver) ReadFile(name string) ([]byte, error) {
	data, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read stylesheet"), "path", name)
	}
	return data, nil
}

// canonical computes the source-relative path a request points at before
// any file lookup.
func (r *Resolver) canonical(request, from string) string {
	if idx := strings.LastIndex(request, rootAlias); idx >= 0 {
		return path.Join(r.virtualRoot, request[idx+len(rootAlias):])
	}

	request = strings.TrimPrefix(request, "/")
	if from == "" {
		return path.Clean(request)
	}
	return path.Join(path.Dir(from), request)
}

// exact lists the verbatim candidates for p: p itself, followed by p with each
// style extension appended when p carries none.
func (r *Resolver) exact(p string) []string {
	if slices.Contains(domain.StyleSourceExts, path.Ext(p)) {
		return []string{p}
	}
	candidates := make([]string, 0, len(domain.StyleSourceExts)+2)
	candidates = append(candidates, p, p+defaultExt)
	for _, ext := range domain.StyleSourceExts {
		if ext != defaultExt {
			candidates = append(candidates, p+ext)
		}
	}
	return candidates
}

func (r *Resolver) isFile(name string) bool {
	info, err := fs.Stat(r.fsys, name)
	return err == nil && !info.IsDir()
}

func (r *Resolver) isDir(name string) bool {
	info, err := fs.Stat(r.fsys, name)
	return err == nil && info.IsDir()
}

func partialOf(p string) string {
	dir, base := path.Split(p)
	if strings.HasPrefix(base, partialMark) {
		return p
	}
	return dir + partialMark + base
}

func notFound(resolved, from string) error {
	err := zerr.Wrap(domain.ErrAssetNotFound, "stylesheet import not found")
	if from != "" {
		err = zerr.With(err, "imported_from", from)
	}
	return zerr.With(err, "path", resolved)
}
