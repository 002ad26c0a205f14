package domain

// DocumentState represents where a document is in its build pipeline.
type DocumentState string

const (
	// DocumentLoaded indicates the document was read and parsed.
	DocumentLoaded DocumentState = "loaded"
	// DocumentExtracted indicates asset references were collected.
	DocumentExtracted DocumentState = "extracted"
	// DocumentStyleResolved indicates every style reference was compiled and rewritten.
	DocumentStyleResolved DocumentState = "style_resolved"
	// DocumentScriptResolved indicates every script reference was bundled and rewritten.
	DocumentScriptResolved DocumentState = "script_resolved"
	// DocumentBlockingConverted indicates blocking stylesheets were turned into preloads.
	DocumentBlockingConverted DocumentState = "blocking_converted"
	// DocumentSerialized indicates the node tree was rendered back to markup.
	DocumentSerialized DocumentState = "serialized"
	// DocumentMinified indicates the rendered markup was minified.
	DocumentMinified DocumentState = "minified"
	// DocumentDone indicates the document output is in the build cache.
	DocumentDone DocumentState = "done"
	// DocumentAborted indicates a stage failed and the build stopped.
	DocumentAborted DocumentState = "aborted"
)

// IsTerminal checks if a state is terminal (Done or Aborted).
func (s DocumentState) IsTerminal() bool {
	return s == DocumentDone || s == DocumentAborted
}
