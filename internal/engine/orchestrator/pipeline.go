package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"golang.org/x/net/html"

	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/weld/internal/engine/document"
	"go.trai.ch/weld/internal/engine/pathmap"
	"go.trai.ch/zerr"
)

func (s *runState) buildDocument(ctx context.Context, docPath string) error {
	s.current = docPath
	ctx, vertex := s.o.telemetry.Record(ctx, "document "+docPath)

	_, _, err := s.cache.GetOrCompute(docPath, docPath, func() ([]byte, error) {
		return s.processDocument(ctx, docPath)
	})
	vertex.Complete(err)
	if err != nil {
		return err
	}

	s.o.setState(docPath, domain.DocumentDone)
	s.commit(docPath)
	s.o.logger.Info(fmt.Sprintf("built %s", docPath))
	return nil
}

func (s *runState) processDocument(ctx context.Context, docPath string) ([]byte, error) {
	raw, err := fs.ReadFile(s.fsys, docPath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrFileSystem, err.Error()), "path", docPath)
	}

	doc, err := s.o.codec.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrDocumentParse, err.Error()), "path", docPath)
	}
	document.NormalizeClassAttributes(doc)
	s.o.setState(docPath, domain.DocumentLoaded)

	ownerDir := pathmap.Dir(docPath)
	styles := document.FindStyleReferences(doc, ownerDir)
	scripts := document.FindScriptReferences(doc, ownerDir)
	s.o.setState(docPath, domain.DocumentExtracted)

	for _, ref := range unique(styles) {
		if err := s.buildReference(ctx, doc, docPath, ref); err != nil {
			return nil, err
		}
	}
	s.o.setState(docPath, domain.DocumentStyleResolved)

	for _, ref := range unique(scripts) {
		if err := s.buildReference(ctx, doc, docPath, ref); err != nil {
			return nil, err
		}
	}
	s.o.setState(docPath, domain.DocumentScriptResolved)

	if s.cfg.HTML.ReduceBlocking {
		document.ConvertBlockingStylesToPreload(doc)
		s.o.setState(docPath, domain.DocumentBlockingConverted)
	}

	var buf bytes.Buffer
	if err := s.o.codec.Render(&buf, doc); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrDocumentRender, err.Error()), "path", docPath)
	}
	s.o.setState(docPath, domain.DocumentSerialized)

	out := buf.Bytes()
	if s.cfg.HTML.Minify {
		if out, err = s.minify(ports.MediaHTML, docPath, out); err != nil {
			return nil, err
		}
		s.o.setState(docPath, domain.DocumentMinified)
	}
	return out, nil
}

// buildReference compiles the asset behind ref and points every matching
// reference in doc at the compiled output.
func (s *runState) buildReference(ctx context.Context, doc *html.Node, docPath string, ref domain.AssetReference) error {
	if ref.RawPath == "" || ref.IsExternal() {
		return nil
	}

	mapped := pathmap.MapReference(ref.OwnerDir, ref.RawPath)
	s.current = pathmap.SourceRelative(mapped)

	sourcePath, err := s.resolve(ref.Kind, mapped)
	if err != nil {
		return err
	}
	s.current = sourcePath

	outputPath := domain.OutputPath(ref.Kind, sourcePath)
	if err := s.compile(ctx, ref.Kind, sourcePath, outputPath); err != nil {
		return err
	}
	s.pending = append(s.pending, outputPath)
	s.current = docPath

	replacement := pathmap.DemapReference(ref.OwnerDir, outputPath)
	if strings.HasPrefix(mapped, "/") {
		replacement = "/" + outputPath
	}
	document.RewriteReference(doc, ref.Kind, ref.RawPath, replacement)
	return nil
}

func (s *runState) resolve(kind domain.AssetKind, mapped string) (string, error) {
	rel := pathmap.SourceRelative(mapped)
	if kind == domain.AssetStyle {
		return s.imports.Resolve(rel, "")
	}

	candidates := []string{rel}
	if !slices.Contains(domain.ScriptSourceExts, path.Ext(rel)) {
		for _, ext := range domain.ScriptSourceExts {
			candidates = append(candidates, rel+ext)
		}
	}
	for _, c := range candidates {
		if !fs.ValidPath(c) {
			continue
		}
		if info, err := fs.Stat(s.fsys, c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", zerr.With(zerr.Wrap(domain.ErrAssetNotFound, "script not found"), "path", rel)
}

func (s *runState) compile(ctx context.Context, kind domain.AssetKind, sourcePath, outputPath string) error {
	ctx, vertex := s.o.telemetry.Record(ctx, kind.String()+" "+sourcePath)

	_, hit, err := s.cache.GetOrCompute(outputPath, sourcePath, func() ([]byte, error) {
		if kind == domain.AssetScript {
			return s.compileScript(ctx, sourcePath)
		}
		return s.compileStyle(ctx, sourcePath)
	})
	if err == nil && hit {
		vertex.Cached()
	}
	vertex.Complete(err)
	return err
}

func (s *runState) compileStyle(ctx context.Context, sourcePath string) ([]byte, error) {
	src, err := fs.ReadFile(s.fsys, sourcePath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrFileSystem, err.Error()), "path", sourcePath)
	}

	css, err := s.o.styles.Compile(ctx, ports.StyleRequest{
		Path:    sourcePath,
		Source:  src,
		Imports: s.imports,
		Minify:  s.cfg.CSS.Minify,
	})
	if err != nil {
		return nil, withPath(err, sourcePath)
	}
	return []byte(css), nil
}

func (s *runState) compileScript(ctx context.Context, sourcePath string) ([]byte, error) {
	code, err := s.o.scripts.Bundle(ctx, sourcePath, s.rootDir)
	if err != nil {
		return nil, withPath(err, sourcePath)
	}

	stripped, err := StripExports(code)
	if err != nil {
		return nil, withPath(err, sourcePath)
	}

	out := []byte(stripped)
	if s.cfg.JS.Minify {
		return s.minify(ports.MediaJavaScript, sourcePath, out)
	}
	return out, nil
}

func (s *runState) minify(mediaType, sourcePath string, content []byte) ([]byte, error) {
	out, err := s.o.minifier.Minify(mediaType, content)
	if err != nil {
		return nil, withPath(err, sourcePath)
	}
	return out, nil
}

// withPath attaches path unless the error already carries one.
func withPath(err error, p string) error {
	var z *zerr.Error
	if errors.As(err, &z) {
		if _, ok := z.Metadata()["path"]; ok {
			return err
		}
	}
	return zerr.With(err, "path", p)
}

// unique drops references whose value RewriteReference already treats as
// the same reference.
func unique(refs []domain.AssetReference) []domain.AssetReference {
	seen := make(map[string]struct{}, len(refs))
	out := refs[:0:0]
	for _, r := range refs {
		key := document.NormalizeReference(r.RawPath)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
