package catalog

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.yaml
var embeddedCatalog embed.FS

// EmbeddedFS returns the bundled catalog files. Callers may pass it to LoadFS
// together with their own checkers.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedCatalog, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}
