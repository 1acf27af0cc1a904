package bundler

import "encoding/json"

// Metafile is the esbuild metafile JSON structure. Only the input side is
// consumed by lumen; outputs are kept for diagnostics.
type Metafile struct {
	Inputs  map[string]MetafileInput  `json:"inputs"`
	Outputs map[string]MetafileOutput `json:"outputs"`
}

// MetafileInput describes one source file that contributed to the bundle.
type MetafileInput struct {
	Bytes   int              `json:"bytes"`
	Imports []MetafileImport `json:"imports"`
	Format  string           `json:"format,omitempty"`
}

// MetafileImport is a single import edge as reported by the bundler.
// Path is the resolved module id; Original is the specifier as written
// in source.
type MetafileImport struct {
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	External bool   `json:"external,omitempty"`
	Original string `json:"original,omitempty"`
}

// MetafileOutput describes one emitted bundle file.
type MetafileOutput struct {
	Bytes      int              `json:"bytes"`
	Imports    []MetafileImport `json:"imports"`
	Exports    []string         `json:"exports"`
	EntryPoint string           `json:"entryPoint,omitempty"`
}

// ParseMetafile decodes an esbuild metafile.
func ParseMetafile(data []byte) (*Metafile, error) {
	var meta Metafile
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}
