package config

// Weldfile represents the structure of the weld.yaml configuration file.
// Pointer fields distinguish an omitted option from an explicit false.
type Weldfile struct {
	Source      string   `yaml:"source"`
	Destination string   `yaml:"destination"`
	Clean       bool     `yaml:"clean"`
	Ignore      []string `yaml:"ignore"`
	CSS         CSSDTO   `yaml:"css"`
	JS          JSDTO    `yaml:"js"`
	HTML        HTMLDTO  `yaml:"html"`
}

// CSSDTO holds the style stage options.
type CSSDTO struct {
	Minify     *bool  `yaml:"minify"`
	ImportRoot string `yaml:"importRoot"`
}

// JSDTO holds the script stage options.
type JSDTO struct {
	Minify *bool `yaml:"minify"`
}

// HTMLDTO holds the document stage options.
type HTMLDTO struct {
	Minify         *bool `yaml:"minify"`
	MinifyClasses  *bool `yaml:"minifyClasses"`
	ReduceBlocking *bool `yaml:"reduceBlocking"`
}
