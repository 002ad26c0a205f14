package styleimport_test

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/engine/styleimport"
	"go.trai.ch/zerr"
)

func file(content string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(content)}
}

func TestResolve_ExactWinsOverPartial(t *testing.T) {
	fsys := fstest.MapFS{
		"styles/x.scss":  file("a {}"),
		"styles/_x.scss": file("b {}"),
	}
	r := styleimport.New(fsys, "")

	got, err := r.Resolve("x", "styles/main.scss")
	require.NoError(t, err)
	assert.Equal(t, "styles/x.scss", got)
}

func TestResolve_PartialFallback(t *testing.T) {
	fsys := fstest.MapFS{
		"styles/_vars.scss": file("$c: red;"),
	}
	r := styleimport.New(fsys, "")

	got, err := r.Resolve("vars", "styles/main.scss")
	require.NoError(t, err)
	assert.Equal(t, "styles/_vars.scss", got)

	got, err = r.Resolve("vars.scss", "styles/main.scss")
	require.NoError(t, err)
	assert.Equal(t, "styles/_vars.scss", got)
}

func TestResolve_DirectoryIndex(t *testing.T) {
	fsys := fstest.MapFS{
		"styles/components/_index.scss":  file("@forward 'button';"),
		"styles/components/_button.scss": file(".btn {}"),
	}
	r := styleimport.New(fsys, "")

	got, err := r.Resolve("components", "styles/main.scss")
	require.NoError(t, err)
	assert.Equal(t, "styles/components/_index.scss", got)
}

func TestResolve_ExactWinsOverDirectoryIndex(t *testing.T) {
	fsys := fstest.MapFS{
		"styles/components.scss":        file("a {}"),
		"styles/components/_index.scss": file("b {}"),
	}
	r := styleimport.New(fsys, "")

	got, err := r.Resolve("components", "styles/main.scss")
	require.NoError(t, err)
	assert.Equal(t, "styles/components.scss", got)
}

func TestResolve_DirectoryWithoutIndexIsNotPartialCandidate(t *testing.T) {
	fsys := fstest.MapFS{
		"styles/components/button.scss": file("a {}"),
		"styles/_components.scss":       file("b {}"),
	}
	r := styleimport.New(fsys, "")

	_, err := r.Resolve("components", "styles/main.scss")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAssetNotFound))
}

func TestResolve_TopLevelRequest(t *testing.T) {
	fsys := fstest.MapFS{
		"blog/style.scss": file("body {}"),
	}
	r := styleimport.New(fsys, "")

	got, err := r.Resolve("blog/style.scss", "")
	require.NoError(t, err)
	assert.Equal(t, "blog/style.scss", got)

	got, err = r.Resolve("/blog/style", "")
	require.NoError(t, err)
	assert.Equal(t, "blog/style.scss", got)
}

func TestResolve_NestedImportUsesContainingFile(t *testing.T) {
	fsys := fstest.MapFS{
		"a/_shared.scss":   file("x {}"),
		"a/b/_shared.scss": file("y {}"),
	}
	r := styleimport.New(fsys, "")

	got, err := r.Resolve("shared", "a/b/_partial.scss")
	require.NoError(t, err)
	assert.Equal(t, "a/b/_shared.scss", got)

	got, err = r.Resolve("../shared", "a/b/_partial.scss")
	require.NoError(t, err)
	assert.Equal(t, "a/_shared.scss", got)
}

func TestResolve_RootAlias(t *testing.T) {
	fsys := fstest.MapFS{
		"vendor/theme/_colors.scss": file("$c: red;"),
	}
	r := styleimport.New(fsys, "vendor")

	got, err := r.Resolve("~/theme/colors", "pages/deep/main.scss")
	require.NoError(t, err)
	assert.Equal(t, "vendor/theme/_colors.scss", got)

	// A relative resolution of "~/..." by the compiler leaves leading segments in place.
	got, err = r.Resolve("pages/deep/~/theme/colors", "")
	require.NoError(t, err)
	assert.Equal(t, "vendor/theme/_colors.scss", got)
}

func TestResolve_NotFoundNamesCanonicalPath(t *testing.T) {
	r := styleimport.New(fstest.MapFS{}, "")

	_, err := r.Resolve("missing", "styles/main.scss")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAssetNotFound))

	var zErr *zerr.Error
	require.True(t, errors.As(err, &zErr))
	assert.Equal(t, "styles/missing", zErr.Metadata()["path"])
}

func TestResolve_EscapingPathIsNotFound(t *testing.T) {
	r := styleimport.New(fstest.MapFS{}, "")

	_, err := r.Resolve("../../outside", "main.scss")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAssetNotFound))
}

func TestReadFile(t *testing.T) {
	r := styleimport.New(fstest.MapFS{"a.scss": file("a {}")}, "")

	data, err := r.ReadFile("a.scss")
	require.NoError(t, err)
	assert.Equal(t, "a {}", string(data))

	_, err = r.ReadFile("missing.scss")
	require.Error(t, err)
}
