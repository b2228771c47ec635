package tokens

import (
	"embed"
	"io/fs"
)

//go:embed themes/*.yaml
var embeddedThemes embed.FS

// EmbeddedFS returns the bundled theme definitions.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedThemes, "themes")
	if err != nil {
		panic(err)
	}
	return sub
}
