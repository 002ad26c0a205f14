// Package minify implements ports.Minifier with tdewolff/minify.
package minify

import (
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"

	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/zerr"
)

// Minifier minifies HTML, CSS and JavaScript. Inline styles and scripts inside
// HTML are minified with the CSS and JavaScript minifiers.
type Minifier struct {
	m *minify.M
}

// New creates a new Minifier.
func New() *Minifier {
	m := minify.New()
	m.Add(ports.MediaHTML, &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	m.AddFunc(ports.MediaCSS, css.Minify)
	m.AddFunc(ports.MediaJavaScript, js.Minify)
	return &Minifier{m: m}
}

// Minify returns the minified content. Unknown media types fail with domain.ErrMinify.
func (m *Minifier) Minify(mediaType string, content []byte) ([]byte, error) {
	out, err := m.m.Bytes(mediaType, content)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrMinify, err.Error()), "media_type", mediaType)
	}
	return out, nil
}

var _ ports.Minifier = (*Minifier)(nil)
