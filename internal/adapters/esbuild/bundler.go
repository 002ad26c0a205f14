// Package esbuild implements ports.ScriptBundler with the esbuild Go API.
package esbuild

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/zerr"
)

// outDir is the virtual output directory. Nothing is written to disk.
const outDir = ".weld-out"

// Bundler bundles TypeScript and JavaScript entry points into a single ES module.
type Bundler struct {
	target api.Target
}

// New creates a new Bundler.
func New() *Bundler {
	return &Bundler{target: api.ES2020}
}

// Bundle bundles entry, a path relative to rootDir. The build must yield
// exactly one output file and it must be the entry point's chunk.
func (b *Bundler) Bundle(ctx context.Context, entry, rootDir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	buildCtx, ctxErr := api.Context(api.BuildOptions{
		EntryPoints:   []string{filepath.FromSlash(entry)},
		AbsWorkingDir: rootDir,
		Outdir:        filepath.Join(rootDir, outDir),
		Bundle:        true,
		Write:         false,
		Metafile:      true,
		Format:        api.FormatESModule,
		Platform:      api.PlatformBrowser,
		Target:        b.target,
		LogLevel:      api.LogLevelSilent,
	})
	if ctxErr != nil {
		return "", buildError(ctxErr.Errors, entry)
	}
	defer buildCtx.Dispose()

	stop := context.AfterFunc(ctx, buildCtx.Cancel)
	defer stop()

	result := buildCtx.Rebuild()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(result.Errors) > 0 {
		return "", buildError(result.Errors, entry)
	}
	reportWarnings(ctx, result.Warnings)

	if err := checkOutputs(result, entry); err != nil {
		return "", err
	}
	return string(result.OutputFiles[0].Contents), nil
}

func checkOutputs(result api.BuildResult, entry string) error {
	var meta metafile
	if err := json.Unmarshal([]byte(result.Metafile), &meta); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrScriptCompile, "invalid metafile"), "path", entry)
	}

	entryOutputs := 0
	for _, out := range meta.Outputs {
		if out.EntryPoint != "" {
			entryOutputs++
		}
	}

	if len(result.OutputFiles) != 1 || len(meta.Outputs) != 1 || entryOutputs != 1 {
		err := zerr.With(zerr.Wrap(domain.ErrOutputCount, "expected a single entry-point output"), "outputs", len(result.OutputFiles))
		return zerr.With(err, "path", entry)
	}
	return nil
}

func buildError(msgs []api.Message, entry string) error {
	text := strings.Join(api.FormatMessages(msgs, api.FormatMessagesOptions{Kind: api.ErrorMessage}), "")
	err := zerr.Wrap(domain.ErrScriptCompile, strings.TrimSpace(text))

	p := entry
	if len(msgs) > 0 && msgs[0].Location != nil {
		loc := msgs[0].Location
		err = zerr.With(err, "line", loc.Line)
		err = zerr.With(err, "column", loc.Column)
		p = filepath.ToSlash(loc.File)
	}
	return zerr.With(err, "path", p)
}

func reportWarnings(ctx context.Context, msgs []api.Message) {
	if len(msgs) == 0 {
		return
	}
	vertex, ok := ports.VertexFromContext(ctx)
	if !ok {
		return
	}
	for _, line := range api.FormatMessages(msgs, api.FormatMessagesOptions{Kind: api.WarningMessage}) {
		_, _ = fmt.Fprint(vertex.Stdout(), line)
	}
}

var _ ports.ScriptBundler = (*Bundler)(nil)
