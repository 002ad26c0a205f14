// Package htmldoc implements ports.DocumentCodec with golang.org/x/net/html.
package htmldoc

import (
	"io"

	"golang.org/x/net/html"

	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/zerr"
)

// Codec parses and renders HTML documents.
type Codec struct{}

// New creates a new Codec.
func New() *Codec {
	return &Codec{}
}

// Parse reads a complete document from r.
func (c *Codec) Parse(r io.Reader) (*html.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, zerr.Wrap(domain.ErrDocumentParse, err.Error())
	}
	return doc, nil
}

// Render writes doc to w.
func (c *Codec) Render(w io.Writer, doc *html.Node) error {
	if err := html.Render(w, doc); err != nil {
		return zerr.Wrap(domain.ErrDocumentRender, err.Error())
	}
	return nil
}

var _ ports.DocumentCodec = (*Codec)(nil)
