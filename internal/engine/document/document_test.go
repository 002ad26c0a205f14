package document_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/engine/document"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func parse(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	require.NoError(t, err)
	return doc
}

func render(t *testing.T, doc *html.Node) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, html.Render(&buf, doc))
	return buf.String()
}

func find(n *html.Node, a atom.Atom) []*html.Node {
	var out []*html.Node
	if n.Type == html.ElementNode && n.DataAtom == a {
		out = append(out, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, find(c, a)...)
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func TestFindStyleReferences(t *testing.T) {
	doc := parse(t, `<html><head>
<link rel="stylesheet" href="a.scss">
<link rel="icon" href="favicon.ico">
<link rel="Alternate StyleSheet" href="b.scss">
<link rel="stylesheet">
</head><body></body></html>`)

	refs := document.FindStyleReferences(doc, "blog")

	require.Len(t, refs, 2)
	assert.Equal(t, domain.AssetReference{Kind: domain.AssetStyle, RawPath: "a.scss", OwnerDir: "blog"}, refs[0])
	assert.Equal(t, "b.scss", refs[1].RawPath)
}

func TestFindScriptReferences(t *testing.T) {
	doc := parse(t, `<html><head><script src="app.ts"></script></head>
<body><script>console.log(1)</script><script type="module" src="lib/x.tsx"></script></body></html>`)

	refs := document.FindScriptReferences(doc, ".")

	require.Len(t, refs, 2)
	assert.Equal(t, "app.ts", refs[0].RawPath)
	assert.Equal(t, "lib/x.tsx", refs[1].RawPath)
	assert.Equal(t, domain.AssetScript, refs[1].Kind)
}

func TestNormalizeClassAttributes(t *testing.T) {
	doc := parse(t, `<div class="foo bar foo baz"><span class="  a   a b "></span></div>`)

	document.NormalizeClassAttributes(doc)
	divs := find(doc, atom.Div)
	spans := find(doc, atom.Span)
	assert.Equal(t, "foo bar baz", attr(divs[0], "class"))
	assert.Equal(t, "a b", attr(spans[0], "class"))

	document.NormalizeClassAttributes(doc)
	assert.Equal(t, "foo bar baz", attr(divs[0], "class"))
	assert.Equal(t, "a b", attr(spans[0], "class"))
}

func TestRewriteReference(t *testing.T) {
	doc := parse(t, `<html><head>
<link rel="stylesheet" href="./a/b.scss">
<script src="a/b.scss"></script>
</head></html>`)

	changed := document.RewriteReference(doc, domain.AssetStyle, "a/b.scss", "a/b.css")
	assert.Equal(t, 1, changed)

	links := find(doc, atom.Link)
	scripts := find(doc, atom.Script)
	assert.Equal(t, "a/b.css", attr(links[0], "href"))
	assert.Equal(t, "a/b.scss", attr(scripts[0], "src"), "scripts are untouched by a style rewrite")
}

func TestRewriteReference_NoMatch(t *testing.T) {
	doc := parse(t, `<link rel="stylesheet" href="x.scss">`)
	before := render(t, doc)

	changed := document.RewriteReference(doc, domain.AssetStyle, "y.scss", "y.css")

	assert.Zero(t, changed)
	assert.Equal(t, before, render(t, doc))
}

func TestConvertBlockingStylesToPreload(t *testing.T) {
	doc := parse(t, `<html><head><title>t</title><link rel="stylesheet" href="s.css"><meta charset="utf-8"></head><body></body></html>`)

	converted := document.ConvertBlockingStylesToPreload(doc)
	require.Equal(t, 1, converted)

	head := find(doc, atom.Head)[0]
	var children []*html.Node
	for c := head.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, c)
	}
	require.Len(t, children, 4)
	assert.Equal(t, atom.Title, children[0].DataAtom)
	assert.Equal(t, atom.Meta, children[3].DataAtom)

	preload := children[1]
	assert.Equal(t, atom.Link, preload.DataAtom)
	assert.Equal(t, "preload", attr(preload, "rel"))
	assert.Equal(t, "style", attr(preload, "as"))
	assert.Equal(t, "s.css", attr(preload, "href"))
	assert.Equal(t, "this.onload=null;this.rel='stylesheet'", attr(preload, "onload"))

	noscript := children[2]
	assert.Equal(t, atom.Noscript, noscript.DataAtom)
	require.NotNil(t, noscript.FirstChild)
	assert.Equal(t, noscript.FirstChild, noscript.LastChild)
	assert.Equal(t, "stylesheet", attr(noscript.FirstChild, "rel"))
	assert.Equal(t, "s.css", attr(noscript.FirstChild, "href"))

	out := render(t, doc)
	assert.Contains(t, out, `<noscript><link rel="stylesheet" href="s.css"/></noscript>`)
	assert.NotContains(t, out, `onload="this.onload=null;this.rel="`)
}

func TestConvertBlockingStylesToPreload_SkipsNoscriptFallbacks(t *testing.T) {
	doc := parse(t, `<html><head><link rel="stylesheet" href="s.css"></head></html>`)

	require.Equal(t, 1, document.ConvertBlockingStylesToPreload(doc))
	assert.Zero(t, document.ConvertBlockingStylesToPreload(doc))
	assert.Len(t, find(doc, atom.Noscript), 1)
}
