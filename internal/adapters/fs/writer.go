package fs

import (
	"context"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.OutputWriter = (*Writer)(nil)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Writer materializes build outputs. Files whose content already matches the
// destination are left untouched.
type Writer struct {
	hasher ports.Hasher
}

// NewWriter creates a new Writer.
func NewWriter(hasher ports.Hasher) *Writer {
	return &Writer{hasher: hasher}
}

// Write writes req.Files and copies req.PassThrough under req.Destination.
// A path present in both is written from req.Files.
func (w *Writer) Write(ctx context.Context, req ports.WriteRequest) (ports.WriteStats, error) {
	if req.Clean {
		if err := w.clean(req); err != nil {
			return ports.WriteStats{}, err
		}
	}
	if err := os.MkdirAll(req.Destination, dirPerm); err != nil {
		return ports.WriteStats{}, ioError(err, req.Destination)
	}

	var written, unchanged, copied atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for name, content := range req.Files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			dst, err := target(req.Destination, name)
			if err != nil {
				return err
			}
			same, err := w.writeFile(dst, content)
			if err != nil {
				return err
			}
			if same {
				unchanged.Add(1)
			} else {
				written.Add(1)
			}
			return nil
		})
	}

	for _, name := range req.PassThrough {
		if _, built := req.Files[name]; built {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			dst, err := target(req.Destination, name)
			if err != nil {
				return err
			}
			same, err := w.copyFile(filepath.Join(req.Source, filepath.FromSlash(name)), dst)
			if err != nil {
				return err
			}
			if same {
				unchanged.Add(1)
			} else {
				copied.Add(1)
			}
			return nil
		})
	}

	err := g.Wait()
	return ports.WriteStats{
		Written:   int(written.Load()),
		Unchanged: int(unchanged.Load()),
		Copied:    int(copied.Load()),
	}, err
}

// clean removes the destination. Destinations that are the filesystem root or
// contain the source are refused.
func (w *Writer) clean(req ports.WriteRequest) error {
	dest := filepath.Clean(req.Destination)
	if dest == filepath.Dir(dest) || within(req.Source, dest) {
		return zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "refusing to clean destination"), "path", dest)
	}
	if err := os.RemoveAll(dest); err != nil {
		return ioError(err, dest)
	}
	return nil
}

func (w *Writer) writeFile(dst string, content []byte) (bool, error) {
	if existing, err := w.hasher.ComputeFileHash(dst); err == nil && existing == w.hasher.ComputeContentHash(content) {
		return true, nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), dirPerm); err != nil {
		return false, ioError(err, dst)
	}
	if err := os.WriteFile(dst, content, filePerm); err != nil { //nolint:gosec // Output files are world-readable
		return false, ioError(err, dst)
	}
	return false, nil
}

func (w *Writer) copyFile(src, dst string) (bool, error) {
	srcHash, err := w.hasher.ComputeFileHash(src)
	if err != nil {
		return false, ioError(err, src)
	}
	if dstHash, err := w.hasher.ComputeFileHash(dst); err == nil && dstHash == srcHash {
		return true, nil
	}

	in, err := os.Open(src) //nolint:gosec // Path comes from the source walk
	if err != nil {
		return false, ioError(err, src)
	}
	defer in.Close() //nolint:errcheck // Best effort close in defer

	info, err := in.Stat()
	if err != nil {
		return false, ioError(err, src)
	}

	if err := os.MkdirAll(filepath.Dir(dst), dirPerm); err != nil {
		return false, ioError(err, dst)
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm()) //nolint:gosec // Path is under the destination
	if err != nil {
		return false, ioError(err, dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return false, ioError(err, dst)
	}
	if err := out.Close(); err != nil {
		return false, ioError(err, dst)
	}
	return false, nil
}

// target maps a slash-separated output path to its location under dest.
func target(dest, name string) (string, error) {
	if !iofs.ValidPath(name) || name == "." {
		return "", zerr.With(zerr.Wrap(domain.ErrFileSystem, "output path escapes destination"), "path", name)
	}
	return filepath.Join(dest, filepath.FromSlash(name)), nil
}

// within reports whether p is dir or lies below it.
func within(p, dir string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func ioError(err error, p string) error {
	return zerr.With(zerr.Wrap(domain.ErrFileSystem, err.Error()), "path", p)
}
