package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/weld/cmd/weld/commands"
	"go.trai.ch/weld/internal/adapters/htmldoc"
	"go.trai.ch/weld/internal/adapters/telemetry"
	"go.trai.ch/weld/internal/app"
	"go.trai.ch/weld/internal/build"
	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/weld/internal/core/ports/mocks"
	"go.trai.ch/weld/internal/engine/orchestrator"
)

type cliFixture struct {
	loader *mocks.MockConfigLoader
	walker *mocks.MockSourceWalker
	writer *mocks.MockOutputWriter
	cli    *commands.CLI
}

func newCLI(t *testing.T) *cliFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()

	orch := orchestrator.New(
		htmldoc.New(),
		mocks.NewMockStyleCompiler(ctrl),
		mocks.NewMockScriptBundler(ctrl),
		mocks.NewMockMinifier(ctrl),
		telemetry.NewNoOp(),
		logger,
	)

	f := &cliFixture{
		loader: mocks.NewMockConfigLoader(ctrl),
		walker: mocks.NewMockSourceWalker(ctrl),
		writer: mocks.NewMockOutputWriter(ctrl),
	}
	f.cli = commands.New(app.New(f.loader, f.walker, orch, f.writer, telemetry.NewNoOp(), logger))
	return f
}

func testConfig(t *testing.T) domain.BuildConfig {
	t.Helper()
	cfg := domain.DefaultBuildConfig()
	cfg.Source = t.TempDir()
	cfg.Destination = t.TempDir()
	return cfg
}

func TestBuild_Success(t *testing.T) {
	f := newCLI(t)
	cfg := testConfig(t)

	f.loader.EXPECT().Load("weld.yaml").Return(cfg, nil)
	f.walker.EXPECT().Scan(gomock.Any(), cfg).Return(domain.SourceTree{PassThrough: []string{"robots.txt"}}, nil)
	f.writer.EXPECT().Write(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req ports.WriteRequest) (ports.WriteStats, error) {
			assert.False(t, req.Clean)
			assert.Equal(t, []string{"robots.txt"}, req.PassThrough)
			return ports.WriteStats{Copied: 1}, nil
		})

	f.cli.SetArgs([]string{"build"})
	require.NoError(t, f.cli.Execute(context.Background()))
}

func TestBuild_CleanAndConfigFlags(t *testing.T) {
	f := newCLI(t)
	cfg := testConfig(t)

	f.loader.EXPECT().Load("site/weld.yaml").Return(cfg, nil)
	f.walker.EXPECT().Scan(gomock.Any(), gomock.Any()).Return(domain.SourceTree{}, nil)
	f.writer.EXPECT().Write(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req ports.WriteRequest) (ports.WriteStats, error) {
			assert.True(t, req.Clean)
			return ports.WriteStats{}, nil
		})

	f.cli.SetArgs([]string{"-c", "site/weld.yaml", "build", "--clean"})
	require.NoError(t, f.cli.Execute(context.Background()))
}

func TestBuild_ConfigError(t *testing.T) {
	f := newCLI(t)

	f.loader.EXPECT().Load("weld.yaml").Return(domain.BuildConfig{}, domain.ErrConfigInvalid)

	f.cli.SetArgs([]string{"build"})
	err := f.cli.Execute(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfigInvalid))
}

func TestBuild_RejectsArguments(t *testing.T) {
	f := newCLI(t)

	f.cli.SetOutput(&bytes.Buffer{})
	f.cli.SetArgs([]string{"build", "extra"})
	require.Error(t, f.cli.Execute(context.Background()))
}

func TestVersion(t *testing.T) {
	f := newCLI(t)

	var out bytes.Buffer
	f.cli.SetOutput(&out)
	f.cli.SetArgs([]string{"version"})
	require.NoError(t, f.cli.Execute(context.Background()))
	assert.Equal(t, "weld version "+build.Version+"\n", out.String())
}

func TestRoot_Help(t *testing.T) {
	f := newCLI(t)

	var out bytes.Buffer
	f.cli.SetOutput(&out)
	f.cli.SetArgs([]string{"--help"})
	require.NoError(t, f.cli.Execute(context.Background()))
	assert.Contains(t, out.String(), "build")
}
