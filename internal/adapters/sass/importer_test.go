package sass_test

import (
	"errors"
	"testing"

	"github.com/bep/godartsass/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"

	"go.trai.ch/weld/internal/adapters/sass"
	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports/mocks"
)

func TestImporter_CanonicalizeAbsoluteURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockImportResolver(ctrl)
	resolver.EXPECT().Resolve("styles/_vars", "").Return("styles/_vars.scss", nil)

	imp := sass.NewImporter(resolver, "styles/main.scss")

	got, err := imp.CanonicalizeURL("weld:///styles/_vars")
	require.NoError(t, err)
	assert.Equal(t, "weld:///styles/_vars.scss", got)
}

func TestImporter_CanonicalizeRelativeURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockImportResolver(ctrl)
	resolver.EXPECT().Resolve("mixins", "styles/main.scss").Return("styles/_mixins.scss", nil)

	imp := sass.NewImporter(resolver, "styles/main.scss")

	got, err := imp.CanonicalizeURL("mixins")
	require.NoError(t, err)
	assert.Equal(t, "weld:///styles/_mixins.scss", got)
}

func TestImporter_CanonicalizeNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockImportResolver(ctrl)
	resolver.EXPECT().Resolve("nope", "main.scss").
		Return("", zerr.With(zerr.Wrap(domain.ErrAssetNotFound, "stylesheet import not found"), "path", "nope"))

	imp := sass.NewImporter(resolver, "main.scss")

	got, err := imp.CanonicalizeURL("nope")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestImporter_CanonicalizeForeignScheme(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockImportResolver(ctrl)

	imp := sass.NewImporter(resolver, "main.scss")

	got, err := imp.CanonicalizeURL("https://example.com/theme.scss")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestImporter_CanonicalizePropagatesErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockImportResolver(ctrl)
	resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return("", errors.New("permission denied"))

	imp := sass.NewImporter(resolver, "main.scss")

	_, err := imp.CanonicalizeURL("weld:///locked")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestImporter_Load(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockImportResolver(ctrl)
	resolver.EXPECT().ReadFile("styles/_grid.sass").Return([]byte(".grid\n  display: grid\n"), nil)

	imp := sass.NewImporter(resolver, "styles/main.scss")

	got, err := imp.Load("weld:///styles/_grid.sass")
	require.NoError(t, err)
	assert.Equal(t, ".grid\n  display: grid\n", got.Content)
	assert.Equal(t, godartsass.SourceSyntaxSASS, got.SourceSyntax)
}
