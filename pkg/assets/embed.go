package assets

import (
	"embed"
	"io/fs"
)

//go:embed manifest/*.json
var embeddedManifest embed.FS

// EmbeddedFS returns the bundled stock image manifest files.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedManifest, "manifest")
	if err != nil {
		panic(err)
	}
	return sub
}
