package pagegen

import (
	"embed"
	"io/fs"
)

//go:embed placeholders/*/*.svg
var embeddedPlaceholders embed.FS

// PlaceholdersFS exposes the static fallback images referenced by the
// catalog's fallback tables so Go applications can serve them directly.
//
// Typical mount:
//
//	mux.Handle("/placeholders/",
//	  http.StripPrefix("/placeholders/",
//	    http.FileServerFS(pagegen.PlaceholdersFS()),
//	  ),
//	)
func PlaceholdersFS() fs.FS {
	sub, err := fs.Sub(embeddedPlaceholders, "placeholders")
	if err != nil {
		return embeddedPlaceholders
	}
	return sub
}
