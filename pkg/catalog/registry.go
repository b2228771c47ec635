package catalog

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-pagegen/pkg/sections"
	"github.com/goliatone/go-pagegen/pkg/spec"
	"github.com/goliatone/go-pagegen/pkg/tokens"
)

// SectionCheck validates one section of a record at load time.
type SectionCheck func(index int, section spec.Section) error

// ThemeCheck reports whether a theme reference can be resolved.
type ThemeCheck func(theme string) bool

// Option configures LoadFS.
type Option func(*loadConfig)

type loadConfig struct {
	sectionCheck SectionCheck
	themeCheck   ThemeCheck
}

// WithSectionCheck rejects records whose sections fail check.
func WithSectionCheck(check SectionCheck) Option {
	return func(cfg *loadConfig) {
		cfg.sectionCheck = check
	}
}

// WithThemeCheck rejects records whose theme fails check.
func WithThemeCheck(check ThemeCheck) Option {
	return func(cfg *loadConfig) {
		cfg.themeCheck = check
	}
}

// Registry maps template identifiers to specifications.
type Registry struct {
	ids     []string
	records map[string]entry
}

type entry struct {
	spec   spec.TemplateSpec
	source string
}

type catalogFile struct {
	Templates []spec.TemplateSpec `json:"templates" yaml:"templates"`
}

// LoadFS walks fsys in lexical order and registers every record it finds.
// Catalog order is file order, then order within the file.
func LoadFS(fsys fs.FS, opts ...Option) (*Registry, error) {
	if fsys == nil {
		return nil, fmt.Errorf("catalog: filesystem is nil")
	}
	cfg := loadConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	reg := &Registry{records: make(map[string]entry)}
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !isCatalogFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("catalog: read %s: %w", path, err)
		}
		file, err := parseFile(data, path)
		if err != nil {
			return err
		}
		for idx, record := range file.Templates {
			if err := reg.add(record, fmt.Sprintf("%s#%d", path, idx), cfg); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

var defaultRegistry = sync.OnceValues(func() (*Registry, error) {
	themes, err := tokens.Default()
	if err != nil {
		return nil, fmt.Errorf("catalog: themes: %w", err)
	}
	return LoadFS(EmbeddedFS(),
		WithSectionCheck(sections.CheckSection),
		WithThemeCheck(themes.Has),
	)
})

// Default returns the process-wide registry built from the embedded catalog.
// It is constructed on first use and read-only afterwards.
func Default() (*Registry, error) {
	return defaultRegistry()
}

func (r *Registry) add(record spec.TemplateSpec, source string, cfg loadConfig) error {
	record.TemplateID = strings.TrimSpace(record.TemplateID)
	if err := record.Validate(); err != nil {
		return fmt.Errorf("catalog: %s: %w", source, err)
	}
	if previous, exists := r.records[record.TemplateID]; exists {
		return fmt.Errorf("catalog: %w", spec.Errorf(spec.CatalogInvalid, record.TemplateID, "templateId",
			"duplicate template id defined in %s and %s", previous.source, source))
	}
	if cfg.themeCheck != nil && !cfg.themeCheck(record.Theme) {
		return fmt.Errorf("catalog: %s: %w", source, spec.Errorf(spec.CatalogInvalid, record.TemplateID, "theme",
			"unknown theme %q", record.Theme))
	}
	if cfg.sectionCheck != nil {
		for idx, section := range record.Sections {
			if err := cfg.sectionCheck(idx, section); err != nil {
				return fmt.Errorf("catalog: %s: %w", source, spec.WithTemplate(err, record.TemplateID))
			}
		}
	}

	r.ids = append(r.ids, record.TemplateID)
	r.records[record.TemplateID] = entry{spec: record, source: source}
	return nil
}

// Lookup returns a deep copy of the specification for id.
func (r *Registry) Lookup(id string) (spec.TemplateSpec, error) {
	if r != nil {
		if e, ok := r.records[strings.TrimSpace(id)]; ok {
			return e.spec.Clone(), nil
		}
	}
	return spec.TemplateSpec{}, spec.Errorf(spec.TemplateNotFound, id, "templateId", "no template registered under this id")
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	if r == nil {
		return false
	}
	_, ok := r.records[strings.TrimSpace(id)]
	return ok
}

// IDs lists template identifiers in catalog order.
func (r *Registry) IDs() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.ids)
}

// Len reports the number of templates.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.ids)
}

// Source reports the file and record position id was loaded from.
func (r *Registry) Source(id string) string {
	if r == nil {
		return ""
	}
	return r.records[strings.TrimSpace(id)].source
}

func isCatalogFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}

func parseFile(data []byte, source string) (catalogFile, error) {
	var file catalogFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return catalogFile{}, fmt.Errorf("catalog: file %s is empty", source)
	}
	if err := json.Unmarshal(data, &file); err == nil {
		return file, nil
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return catalogFile{}, fmt.Errorf("catalog: parse %s: %w", source, err)
	}
	return file, nil
}
