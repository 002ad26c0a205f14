package ports

import (
	"io"

	"golang.org/x/net/html"
)

// DocumentCodec turns markup into a mutable node tree and back.
//
// Parsing is lenient: malformed markup is repaired the way browsers do
// and does not fail the parse.
type DocumentCodec interface {
	Parse(r io.Reader) (*html.Node, error)
	Render(w io.Writer, doc *html.Node) error
}
