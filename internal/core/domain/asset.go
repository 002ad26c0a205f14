package domain

import (
	"path"
	"strings"
)

// AssetKind distinguishes the two classes of asset a document can reference.
type AssetKind int

const (
	// AssetStyle is a stylesheet referenced by a <link rel="stylesheet"> element.
	AssetStyle AssetKind = iota
	// AssetScript is a script referenced by a <script src> element.
	AssetScript
)

// String returns the string representation of the AssetKind.
func (k AssetKind) String() string {
	switch k {
	case AssetStyle:
		return "style"
	case AssetScript:
		return "script"
	default:
		return "unknown"
	}
}

// OutputExt returns the extension of the compiled output for this kind.
func (k AssetKind) OutputExt() string {
	if k == AssetScript {
		return ".js"
	}
	return ".css"
}

// StyleSourceExts lists the extensions accepted as style sources.
var StyleSourceExts = []string{".scss", ".sass", ".css"}

// ScriptSourceExts lists the extensions accepted as script entry points.
var ScriptSourceExts = []string{".ts", ".tsx", ".mts", ".js", ".jsx", ".mjs"}

// AssetReference is a reference to a style or script found in a document.
type AssetReference struct {
	Kind AssetKind
	// RawPath is the attribute value exactly as written in the document.
	RawPath string
	// OwnerDir is the source-relative directory of the document, "." for the root.
	OwnerDir string
}

// IsExternal reports whether the reference points outside the source tree
// (a URL with a scheme, or a protocol-relative URL).
func (r AssetReference) IsExternal() bool {
	return IsExternalReference(r.RawPath)
}

// IsExternalReference reports whether ref carries a URL scheme or is protocol-relative.
func IsExternalReference(ref string) bool {
	if strings.HasPrefix(ref, "//") {
		return true
	}
	colon := strings.IndexByte(ref, ':')
	if colon <= 0 {
		return false
	}
	if slash := strings.IndexByte(ref, '/'); slash >= 0 && slash < colon {
		return false
	}
	for _, c := range ref[:colon] {
		isAlpha := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		isOther := (c >= '0' && c <= '9') || c == '+' || c == '-' || c == '.'
		if !isAlpha && !isOther {
			return false
		}
	}
	return true
}

// OutputPath derives the output path for a resolved source path by substituting
// the extension with the kind's output extension. The directory part is kept as is.
func OutputPath(kind AssetKind, sourcePath string) string {
	ext := path.Ext(sourcePath)
	return strings.TrimSuffix(sourcePath, ext) + kind.OutputExt()
}
