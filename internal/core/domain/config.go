package domain

// StageOptions holds per-asset-class options for the style and script stages.
type StageOptions struct {
	Minify bool
}

// StyleOptions holds options for the style stage.
type StyleOptions struct {
	Minify bool
	// ImportRoot is the virtual package root that "~/" imports resolve against,
	// relative to the source directory. Empty means the source directory itself.
	ImportRoot string
}

// HTMLOptions holds options for the document stage.
type HTMLOptions struct {
	Minify bool
	// MinifyClasses is reserved and currently has no effect.
	MinifyClasses  bool
	ReduceBlocking bool
}

// BuildConfig is the immutable configuration of one build invocation.
type BuildConfig struct {
	Source      string
	Destination string
	Clean       bool
	Ignore      []string
	CSS         StyleOptions
	JS          StageOptions
	HTML        HTMLOptions
}

// DefaultBuildConfig returns a configuration with every documented default applied.
// Source and Destination have no defaults.
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		CSS: StyleOptions{Minify: true},
		JS:  StageOptions{Minify: true},
		HTML: HTMLOptions{
			Minify:         true,
			ReduceBlocking: true,
		},
	}
}
