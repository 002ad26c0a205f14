// Package fs provides file system adapters for walking source trees, hashing
// files and writing build outputs.
package fs

import (
	"context"
	"io/fs"
	"iter"
	"path"
	"path/filepath"
	"slices"

	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceWalker = (*Walker)(nil)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields the slash-separated, root-relative path of every regular
// file under root. Directories listed in skipDirs (absolute paths), version
// control metadata and entries matching ignores are not descended into.
// Walk errors are yielded with an empty path.
func (w *Walker) WalkFiles(root string, ignores, skipDirs []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				if !yield("", zerr.With(zerr.Wrap(domain.ErrFileSystem, err.Error()), "path", p)) {
					return filepath.SkipAll
				}
				return nil
			}
			if p == root {
				return nil
			}

			rel, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)

			if w.shouldSkip(d, rel, ignores) || (d.IsDir() && slices.Contains(skipDirs, p)) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !d.Type().IsRegular() {
				return nil
			}
			if !yield(rel, nil) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// Scan classifies the files under cfg.Source into documents and pass-through files.
func (w *Walker) Scan(ctx context.Context, cfg domain.BuildConfig) (domain.SourceTree, error) {
	var tree domain.SourceTree

	dest, err := filepath.Abs(cfg.Destination)
	if err != nil {
		return tree, zerr.With(zerr.Wrap(domain.ErrFileSystem, err.Error()), "path", cfg.Destination)
	}

	for rel, err := range w.WalkFiles(cfg.Source, cfg.Ignore, []string{dest}) {
		if err != nil {
			return tree, err
		}
		if err := ctx.Err(); err != nil {
			return tree, err
		}
		if domain.IsDocument(rel) {
			tree.Documents = append(tree.Documents, rel)
		} else {
			tree.PassThrough = append(tree.PassThrough, rel)
		}
	}
	return tree, nil
}

// shouldSkip reports whether an entry is excluded by name.
// Patterns are matched against both the base name and the relative path.
func (w *Walker) shouldSkip(d fs.DirEntry, rel string, ignores []string) bool {
	name := d.Name()

	if d.IsDir() && (name == ".git" || name == ".jj") {
		return true
	}

	for _, ignore := range ignores {
		if matched, _ := path.Match(ignore, name); matched {
			return true
		}
		if matched, _ := path.Match(ignore, rel); matched {
			return true
		}
	}
	return false
}
