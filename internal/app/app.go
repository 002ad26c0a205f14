// Package app implements the application layer for weld.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/weld/internal/engine/orchestrator"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	walker       ports.SourceWalker
	orchestrator *orchestrator.Orchestrator
	writer       ports.OutputWriter
	telemetry    ports.Telemetry
	logger       ports.Logger
	closers      []io.Closer
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	walker ports.SourceWalker,
	orch *orchestrator.Orchestrator,
	writer ports.OutputWriter,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		walker:       walker,
		orchestrator: orch,
		writer:       writer,
		telemetry:    telemetry,
		logger:       logger,
	}
}

// WithCloser registers a resource released by Close.
func (a *App) WithCloser(c io.Closer) *App {
	a.closers = append(a.closers, c)
	return a
}

// BuildOptions holds command line overrides for a build.
type BuildOptions struct {
	// Clean forces the destination to be wiped before writing.
	Clean bool
}

// Summary reports what a build did.
type Summary struct {
	Documents  int
	Assets     int
	CacheHits  int64
	Written    int
	Unchanged  int
	Copied     int
	FailedPath string
}

// Build loads the configuration at configPath, builds every document of the
// source tree and writes the results. When a document fails, the outputs
// produced before the failure are still written and the build error is returned.
func (a *App) Build(ctx context.Context, configPath string, opts BuildOptions) (Summary, error) {
	var summary Summary

	cfg, err := a.configLoader.Load(configPath)
	if err != nil {
		return summary, zerr.Wrap(err, "failed to load configuration")
	}
	if opts.Clean {
		cfg.Clean = true
	}

	tree, err := a.walker.Scan(ctx, cfg)
	if err != nil {
		return summary, zerr.Wrap(err, "failed to scan source")
	}

	res, buildErr := a.orchestrator.Run(ctx, orchestrator.Request{
		Config:    cfg,
		Source:    os.DirFS(cfg.Source),
		RootDir:   cfg.Source,
		Documents: tree.Documents,
	})
	if res == nil {
		return summary, buildErr
	}

	summary.Documents = len(res.Documents)
	summary.Assets = len(res.Files) - len(res.Documents)
	summary.CacheHits = res.Cache.Hits
	summary.FailedPath = res.FailedPath

	stats, writeErr := a.writer.Write(context.WithoutCancel(ctx), ports.WriteRequest{
		Source:      cfg.Source,
		Destination: cfg.Destination,
		Clean:       cfg.Clean,
		Files:       res.Files,
		PassThrough: tree.PassThrough,
	})
	summary.Written = stats.Written
	summary.Unchanged = stats.Unchanged
	summary.Copied = stats.Copied

	a.logger.Info(fmt.Sprintf(
		"%d documents built, %d assets compiled, %d cache hits, %d written, %d unchanged, %d copied",
		summary.Documents, summary.Assets, summary.CacheHits, summary.Written, summary.Unchanged, summary.Copied,
	))

	if writeErr != nil {
		writeErr = zerr.Wrap(writeErr, "failed to write outputs")
	}
	if buildErr != nil && writeErr != nil {
		return summary, errors.Join(buildErr, writeErr)
	}
	if buildErr != nil {
		return summary, buildErr
	}
	return summary, writeErr
}

// Close releases the telemetry session and every registered resource.
func (a *App) Close() error {
	errs := []error{a.telemetry.Close()}
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
