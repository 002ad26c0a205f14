// Package sass implements ports.StyleCompiler on top of the Dart Sass
// embedded protocol.
package sass

import (
	"context"
	"errors"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/bep/godartsass/v2"

	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/zerr"
)

// Options configures the Dart Sass process.
type Options struct {
	// Binary is the Dart Sass executable. Empty means "sass" from $PATH.
	Binary  string
	Timeout time.Duration
}

// Compiler compiles SCSS, indented Sass and plain CSS. The Dart Sass process
// is started on first use and shared by every compilation until Close.
type Compiler struct {
	opts   Options
	logger ports.Logger

	mu         sync.Mutex
	transpiler *godartsass.Transpiler
}

// New creates a new Compiler.
func New(logger ports.Logger, opts Options) *Compiler {
	return &Compiler{opts: opts, logger: logger}
}

// Compile compiles req.Source. Imports are resolved exclusively through req.Imports.
func (c *Compiler) Compile(ctx context.Context, req ports.StyleRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	t, err := c.start()
	if err != nil {
		return "", zerr.With(zerr.Wrap(domain.ErrStyleCompile, err.Error()), "path", req.Path)
	}

	style := godartsass.OutputStyleExpanded
	if req.Minify {
		style = godartsass.OutputStyleCompressed
	}

	res, err := t.Execute(godartsass.Args{
		Source:         string(req.Source),
		URL:            canonicalURL(req.Path),
		SourceSyntax:   syntaxOf(req.Path),
		OutputStyle:    style,
		ImportResolver: NewImporter(req.Imports, req.Path),
	})
	if err != nil {
		return "", compileError(err, req.Path)
	}
	return res.CSS, nil
}

// Close shuts down the Dart Sass process, if it was started.
func (c *Compiler) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.transpiler == nil {
		return nil
	}
	err := c.transpiler.Close()
	c.transpiler = nil
	if errors.Is(err, godartsass.ErrShutdown) {
		return nil
	}
	return err
}

func (c *Compiler) start() (*godartsass.Transpiler, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.transpiler != nil {
		return c.transpiler, nil
	}

	t, err := godartsass.Start(godartsass.Options{
		DartSassEmbeddedFilename: c.opts.Binary,
		Timeout:                  c.opts.Timeout,
		LogEventHandler:          c.logEvent,
	})
	if err != nil {
		return nil, err
	}
	c.transpiler = t
	return t, nil
}

func (c *Compiler) logEvent(e godartsass.LogEvent) {
	msg := strings.TrimPrefix(e.Message, scheme)
	switch e.Type {
	case godartsass.LogEventTypeDebug:
		c.logger.Info(msg)
	case godartsass.LogEventTypeDeprecated:
		c.logger.Warn("deprecated: " + msg)
	default:
		c.logger.Warn(msg)
	}
}

func compileError(err error, entry string) error {
	var sassErr godartsass.SassError
	if errors.As(err, &sassErr) {
		p := entry
		if u := sassErr.Span.Url; strings.HasPrefix(u, scheme) {
			p = strings.TrimPrefix(u, scheme)
		}
		wrapped := zerr.With(zerr.Wrap(domain.ErrStyleCompile, sassErr.Message), "context", sassErr.Span.Context)
		return zerr.With(wrapped, "path", p)
	}
	return zerr.With(zerr.Wrap(domain.ErrStyleCompile, err.Error()), "path", entry)
}

func syntaxOf(name string) godartsass.SourceSyntax {
	switch path.Ext(name) {
	case ".sass":
		return godartsass.SourceSyntaxSASS
	case ".css":
		return godartsass.SourceSyntaxCSS
	default:
		return godartsass.SourceSyntaxSCSS
	}
}

var _ ports.StyleCompiler = (*Compiler)(nil)
