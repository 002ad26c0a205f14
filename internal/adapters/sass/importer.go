package sass

import (
	"errors"
	"net/url"
	"strings"

	"github.com/bep/godartsass/v2"

	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
)

// scheme prefixes the canonical URL of every stylesheet loaded from the source tree.
const scheme = "weld:///"

// Importer adapts a ports.ImportResolver to the Dart Sass importer protocol.
//
// Dart Sass resolves a relative load against the canonical URL of the
// stylesheet containing it before asking the importer, so most requests
// arrive as absolute weld URLs. Requests that arrive relative are resolved
// against the entry stylesheet.
type Importer struct {
	resolver ports.ImportResolver
	entry    string
}

// NewImporter creates an Importer for a compilation whose entry is the
// source-relative path entry.
func NewImporter(resolver ports.ImportResolver, entry string) *Importer {
	return &Importer{resolver: resolver, entry: entry}
}

// CanonicalizeURL resolves rawURL to a weld URL. Unresolvable requests return
// an empty string so Dart Sass reports them as missing.
func (i *Importer) CanonicalizeURL(rawURL string) (string, error) {
	request, from, ok := i.request(rawURL)
	if !ok {
		return "", nil
	}

	resolved, err := i.resolver.Resolve(request, from)
	if errors.Is(err, domain.ErrAssetNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return canonicalURL(resolved), nil
}

// Load returns the content of a canonical weld URL.
func (i *Importer) Load(canonicalizedURL string) (godartsass.Import, error) {
	name := strings.TrimPrefix(canonicalizedURL, scheme)
	content, err := i.resolver.ReadFile(name)
	if err != nil {
		return godartsass.Import{}, err
	}
	return godartsass.Import{
		Content:      string(content),
		SourceSyntax: syntaxOf(name),
	}, nil
}

func (i *Importer) request(rawURL string) (request, from string, ok bool) {
	if strings.HasPrefix(rawURL, scheme) {
		return strings.TrimPrefix(rawURL, scheme), "", true
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", false
	}
	if u.Scheme != "" {
		return "", "", false
	}
	return rawURL, i.entry, true
}

func canonicalURL(name string) string {
	return scheme + name
}

var _ godartsass.ImportResolver = (*Importer)(nil)
