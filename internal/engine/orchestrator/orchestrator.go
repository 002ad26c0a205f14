// Package orchestrator drives the per-document asset pipeline of a build:
// extract references, compile each referenced asset at most once, rewrite the
// document and serialize it.
package orchestrator

import (
	"context"
	"fmt"
	"io/fs"
	"maps"
	"sync"

	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/weld/internal/engine/buildcache"
	"go.trai.ch/weld/internal/engine/styleimport"
	"go.trai.ch/zerr"
)

// Orchestrator builds documents and the assets they reference.
type Orchestrator struct {
	codec     ports.DocumentCodec
	styles    ports.StyleCompiler
	scripts   ports.ScriptBundler
	minifier  ports.Minifier
	telemetry ports.Telemetry
	logger    ports.Logger

	mu     sync.RWMutex
	states map[string]domain.DocumentState
}

// New creates a new Orchestrator.
func New(
	codec ports.DocumentCodec,
	styles ports.StyleCompiler,
	scripts ports.ScriptBundler,
	minifier ports.Minifier,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		codec:     codec,
		styles:    styles,
		scripts:   scripts,
		minifier:  minifier,
		telemetry: telemetry,
		logger:    logger,
		states:    make(map[string]domain.DocumentState),
	}
}

// Request describes one build.
type Request struct {
	Config domain.BuildConfig
	// Source is the source tree. Every path handed to the pipeline is relative to it.
	Source fs.FS
	// RootDir is the absolute directory Source was opened from.
	RootDir string
	// Documents lists source-relative document paths in processing order.
	Documents []string
}

// Result holds everything a build produced.
type Result struct {
	// Files maps source-relative output paths to content, documents and assets alike.
	Files map[string][]byte
	// Documents lists the documents that completed, in order.
	Documents []string
	// FailedPath is the path under compilation when the build aborted.
	FailedPath string
	Cache      buildcache.Stats
}

// Run processes req.Documents one at a time. The first failure aborts the
// build: the returned Result still holds every output produced before the
// failure, and the error wraps domain.ErrBuildAborted and the cause.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	state := o.newRunState(req)

	for _, docPath := range req.Documents {
		if err := ctx.Err(); err != nil {
			state.current = docPath
			return state.abort(docPath, err)
		}
		if err := state.buildDocument(ctx, docPath); err != nil {
			return state.abort(docPath, err)
		}
	}

	return state.result(), nil
}

// DocumentState returns the last recorded state of a document.
func (o *Orchestrator) DocumentState(docPath string) (domain.DocumentState, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	s, ok := o.states[docPath]
	return s, ok
}

func (o *Orchestrator) setState(docPath string, s domain.DocumentState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.states[docPath] = s
}

func (o *Orchestrator) resetStates() {
	o.mu.Lock()
	defer o.mu.Unlock()
	clear(o.states)
}

type runState struct {
	o       *Orchestrator
	cfg     domain.BuildConfig
	fsys    fs.FS
	rootDir string
	cache   *buildcache.Cache
	imports *styleimport.Resolver

	// current is the path under compilation, reported when the build aborts.
	current string
	done    []string

	// pending holds the outputs of the document in progress; they join
	// committed once the document completes.
	pending   []string
	committed map[string]struct{}
}

func (o *Orchestrator) newRunState(req Request) *runState {
	o.resetStates()
	return &runState{
		o:         o,
		cfg:       req.Config,
		fsys:      req.Source,
		rootDir:   req.RootDir,
		cache:     buildcache.New(),
		imports:   styleimport.New(req.Source, req.Config.CSS.ImportRoot),
		committed: make(map[string]struct{}),
	}
}

func (s *runState) abort(docPath string, cause error) (*Result, error) {
	s.o.setState(docPath, domain.DocumentAborted)
	if s.current == "" {
		s.current = docPath
	}

	res := s.result()
	res.FailedPath = s.current

	err := zerr.With(fmt.Errorf("%w: %w", domain.ErrBuildAborted, cause), "document", docPath)
	return res, zerr.With(err, "path", s.current)
}

func (s *runState) commit(docPath string) {
	for _, p := range s.pending {
		s.committed[p] = struct{}{}
	}
	s.committed[docPath] = struct{}{}
	s.pending = s.pending[:0]
	s.done = append(s.done, docPath)
}

// result holds the outputs of completed documents only. Assets compiled for
// an aborted document are left out.
func (s *runState) result() *Result {
	files := s.cache.Snapshot()
	maps.DeleteFunc(files, func(p string, _ []byte) bool {
		_, ok := s.committed[p]
		return !ok
	})
	return &Result{
		Files:     files,
		Documents: append([]string(nil), s.done...),
		Cache:     s.cache.Stats(),
	}
}
