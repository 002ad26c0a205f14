package esbuild

// metafile mirrors the parts of the esbuild metafile JSON that are inspected.
type metafile struct {
	Inputs  map[string]metafileInput  `json:"inputs"`
	Outputs map[string]metafileOutput `json:"outputs"`
}

type metafileInput struct {
	Bytes int `json:"bytes"`
}

type metafileOutput struct {
	Bytes      int    `json:"bytes"`
	EntryPoint string `json:"entryPoint,omitempty"`
}
