package domain

import "go.trai.ch/zerr"

var (
	// ErrConfigInvalid is returned when the build configuration is missing required fields or is inconsistent.
	ErrConfigInvalid = zerr.New("invalid build configuration")

	// ErrAssetNotFound is returned when a referenced asset or configuration file does not exist.
	ErrAssetNotFound = zerr.New("asset not found")

	// ErrDocumentParse is returned when a document cannot be parsed into a node tree.
	ErrDocumentParse = zerr.New("failed to parse document")

	// ErrDocumentRender is returned when a node tree cannot be serialized back to markup.
	ErrDocumentRender = zerr.New("failed to serialize document")

	// ErrStyleCompile is returned when style source fails to compile, including import resolution failures.
	ErrStyleCompile = zerr.New("style compilation failed")

	// ErrScriptCompile is returned when a script entry point fails to bundle.
	ErrScriptCompile = zerr.New("script bundling failed")

	// ErrMinify is returned when a minifier rejects its input.
	ErrMinify = zerr.New("minification failed")

	// ErrOutputCount is returned when script bundling produces anything other than one entry-point artifact.
	ErrOutputCount = zerr.New("unexpected bundler output")

	// ErrFileSystem is returned when reading, writing or copying files fails.
	ErrFileSystem = zerr.New("file system operation failed")

	// ErrOutputConflict is returned when two different sources compile to the same output path.
	ErrOutputConflict = zerr.New("output path produced by more than one source")

	// ErrBuildAborted is returned when a document pipeline fails and the build stops.
	ErrBuildAborted = zerr.New("build aborted")
)
