// Package document finds and rewrites asset references in parsed HTML documents.
package document

import (
	"iter"
	"strings"

	"go.trai.ch/weld/internal/core/domain"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FindStyleReferences returns the stylesheet links of doc in document order.
func FindStyleReferences(doc *html.Node, ownerDir string) []domain.AssetReference {
	var refs []domain.AssetReference
	for n := range elements(doc) {
		if isStylesheetLink(n) {
			refs = append(refs, domain.AssetReference{
				Kind:     domain.AssetStyle,
				RawPath:  getAttr(n, "href"),
				OwnerDir: ownerDir,
			})
		}
	}
	return refs
}

// FindScriptReferences returns the script elements of doc that carry a src attribute.
func FindScriptReferences(doc *html.Node, ownerDir string) []domain.AssetReference {
	var refs []domain.AssetReference
	for n := range elements(doc) {
		if isScriptWithSource(n) {
			refs = append(refs, domain.AssetReference{
				Kind:     domain.AssetScript,
				RawPath:  getAttr(n, "src"),
				OwnerDir: ownerDir,
			})
		}
	}
	return refs
}

// NormalizeClassAttributes removes duplicate tokens from every class attribute,
// keeping the first occurrence of each.
func NormalizeClassAttributes(doc *html.Node) {
	for n := range elements(doc) {
		for i, attr := range n.Attr {
			if attr.Namespace == "" && attr.Key == "class" {
				n.Attr[i].Val = dedupeTokens(attr.Val)
			}
		}
	}
}

func dedupeTokens(s string) string {
	fields := strings.Fields(s)
	seen := make(map[string]struct{}, len(fields))
	unique := fields[:0]
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		unique = append(unique, f)
	}
	return strings.Join(unique, " ")
}

func isStylesheetLink(n *html.Node) bool {
	if n.DataAtom != atom.Link || !hasAttr(n, "href") {
		return false
	}
	for _, rel := range strings.Fields(getAttr(n, "rel")) {
		if strings.EqualFold(rel, "stylesheet") {
			return true
		}
	}
	return false
}

func isScriptWithSource(n *html.Node) bool {
	return n.DataAtom == atom.Script && hasAttr(n, "src")
}

// elements yields every element node under root in document order.
// The tree must not be restructured while iterating.
func elements(root *html.Node) iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		var walk func(*html.Node) bool
		walk = func(n *html.Node) bool {
			if n.Type == html.ElementNode && !yield(n) {
				return false
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if !walk(c) {
					return false
				}
			}
			return true
		}
		walk(root)
	}
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, key, val string) {
	for i, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
