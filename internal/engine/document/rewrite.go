package document

import (
	"path"
	"slices"

	"go.trai.ch/weld/internal/core/domain"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// preloadSwap is the onload handler of a preload link. Single quotes keep it
// valid inside a double-quoted attribute.
const preloadSwap = "this.onload=null;this.rel='stylesheet'"

// RewriteReference replaces the path of every reference of kind whose current
// value equals original with replacement. It reports how many nodes changed;
// no match is not an error.
func RewriteReference(doc *html.Node, kind domain.AssetKind, original, replacement string) int {
	key := referenceAttr(kind)
	want := NormalizeReference(original)

	var matches []*html.Node
	for n := range elements(doc) {
		if !isReference(n, kind) {
			continue
		}
		if NormalizeReference(getAttr(n, key)) == want {
			matches = append(matches, n)
		}
	}

	for _, n := range matches {
		setAttr(n, key, replacement)
	}
	return len(matches)
}

// ConvertBlockingStylesToPreload replaces every stylesheet link with a preload
// link that swaps itself to a stylesheet once loaded, followed by a <noscript>
// holding the original stylesheet link for clients without scripting.
func ConvertBlockingStylesToPreload(doc *html.Node) int {
	var links []*html.Node
	for n := range elements(doc) {
		if isStylesheetLink(n) && !insideNoscript(n) {
			links = append(links, n)
		}
	}

	for _, link := range links {
		parent := link.Parent
		if parent == nil {
			continue
		}

		preload := &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Link,
			Data:     atom.Link.String(),
			Attr: []html.Attribute{
				{Key: "rel", Val: "preload"},
				{Key: "href", Val: getAttr(link, "href")},
				{Key: "as", Val: "style"},
				{Key: "onload", Val: preloadSwap},
			},
		}
		fallback := &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Link,
			Data:     atom.Link.String(),
			Attr:     slices.Clone(link.Attr),
		}
		noscript := &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Noscript,
			Data:     atom.Noscript.String(),
		}
		noscript.AppendChild(fallback)

		parent.InsertBefore(preload, link)
		parent.InsertBefore(noscript, link)
		parent.RemoveChild(link)
	}
	return len(links)
}

func referenceAttr(kind domain.AssetKind) string {
	if kind == domain.AssetScript {
		return "src"
	}
	return "href"
}

func isReference(n *html.Node, kind domain.AssetKind) bool {
	if kind == domain.AssetScript {
		return isScriptWithSource(n)
	}
	return isStylesheetLink(n)
}

func insideNoscript(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.DataAtom == atom.Noscript {
			return true
		}
	}
	return false
}

// NormalizeReference returns the form of a reference value RewriteReference
// compares on.
func NormalizeReference(ref string) string {
	if ref == "" {
		return ref
	}
	return path.Clean(ref)
}
