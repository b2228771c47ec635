package pagegen

import (
	"fmt"
	"io/fs"

	"github.com/goliatone/go-pagegen/pkg/catalog"
	"github.com/goliatone/go-pagegen/pkg/sections"
	"github.com/goliatone/go-pagegen/pkg/tokens"
)

// LoadCatalog loads catalog records from fsys with the same section and theme
// checks the embedded catalog goes through.
func LoadCatalog(fsys fs.FS) (*catalog.Registry, error) {
	themes, err := tokens.Default()
	if err != nil {
		return nil, fmt.Errorf("pagegen: themes: %w", err)
	}
	return catalog.LoadFS(fsys,
		catalog.WithSectionCheck(sections.CheckSection),
		catalog.WithThemeCheck(themes.Has),
	)
}

// EmbeddedCatalog exposes the bundled catalog files so callers can extend them.
func EmbeddedCatalog() fs.FS {
	return catalog.EmbeddedFS()
}

// EmbeddedTemplates exposes the section fragment templates and stylesheets.
func EmbeddedTemplates() fs.FS {
	return sections.TemplatesFS()
}
