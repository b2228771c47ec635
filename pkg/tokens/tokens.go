package tokens

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"sort"
	"strings"
	"sync"

	gotheme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-pagegen/pkg/spec"
)

// VarPrefix namespaces every emitted custom property.
const VarPrefix = "--v1-"

const defaultVariant = "light"

type themeFile struct {
	Themes []themeRecord `yaml:"themes"`
}

type themeRecord struct {
	Name     string                   `yaml:"name"`
	Version  string                   `yaml:"version"`
	Tokens   map[string]string        `yaml:"tokens"`
	Variants map[string]variantRecord `yaml:"variants"`
}

type variantRecord struct {
	Tokens map[string]string `yaml:"tokens"`
}

// Registry holds the registered theme manifests. It is read-only after Load.
type Registry struct {
	themes   *gotheme.MemoryRegistry
	selector gotheme.Selector
	// names lists the tokens each family knows, across all of its variants.
	names    map[string]map[string]struct{}
	variants map[string][]string
}

// Set is the token table selected for one composition.
type Set struct {
	Theme   string
	Variant string
	Tokens  map[string]string
}

// Load reads every *.yaml file in fsys and registers its themes.
func Load(fsys fs.FS) (*Registry, error) {
	if fsys == nil {
		return nil, errors.New("tokens: theme fs is nil")
	}
	files, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, fmt.Errorf("tokens: list theme files: %w", err)
	}
	sort.Strings(files)

	reg := &Registry{
		themes:   gotheme.NewRegistry(),
		names:    map[string]map[string]struct{}{},
		variants: map[string][]string{},
	}
	reg.selector = gotheme.Selector{
		Registry:       reg.themes,
		DefaultVariant: defaultVariant,
	}

	for _, name := range files {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("tokens: read %s: %w", name, err)
		}
		var file themeFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("tokens: parse %s: %w", path.Base(name), err)
		}
		for _, record := range file.Themes {
			if err := reg.register(record); err != nil {
				return nil, fmt.Errorf("tokens: %s: %w", name, err)
			}
		}
	}
	return reg, nil
}

var defaultRegistry = sync.OnceValues(func() (*Registry, error) {
	return Load(EmbeddedFS())
})

// Default returns the registry built from the embedded themes.
func Default() (*Registry, error) {
	return defaultRegistry()
}

func (r *Registry) register(record themeRecord) error {
	family := strings.TrimSpace(record.Name)
	if family == "" {
		return errors.New("theme name required")
	}
	if _, exists := r.names[family]; exists {
		return fmt.Errorf("duplicate theme %q", family)
	}

	manifest := &gotheme.Manifest{
		Name:     family,
		Version:  record.Version,
		Tokens:   record.Tokens,
		Variants: make(map[string]gotheme.Variant, len(record.Variants)),
	}
	known := make(map[string]struct{}, len(record.Tokens))
	for name := range record.Tokens {
		known[name] = struct{}{}
	}
	variants := make([]string, 0, len(record.Variants))
	for variant, def := range record.Variants {
		manifest.Variants[variant] = gotheme.Variant{Tokens: def.Tokens}
		variants = append(variants, variant)
		for name := range def.Tokens {
			known[name] = struct{}{}
		}
	}
	if _, ok := manifest.Variants[defaultVariant]; !ok {
		manifest.Variants[defaultVariant] = gotheme.Variant{}
		variants = append(variants, defaultVariant)
	}
	sort.Strings(variants)

	if err := r.themes.Register(manifest); err != nil {
		return fmt.Errorf("register theme %q: %w", family, err)
	}
	r.names[family] = known
	r.variants[family] = variants
	return nil
}

// Themes returns every "<family>-<variant>" reference the registry accepts.
func (r *Registry) Themes() []string {
	var out []string
	for family, variants := range r.variants {
		for _, variant := range variants {
			out = append(out, family+"-"+variant)
		}
	}
	sort.Strings(out)
	return out
}

// Has reports whether ref names a registered theme and variant.
func (r *Registry) Has(ref string) bool {
	family, variant := SplitRef(ref)
	return slices.Contains(r.variants[family], variant)
}

// Resolve selects the theme named by ref and applies overrides on top. An
// unknown theme is a catalog defect; an override naming a token the theme
// does not define is rejected as an invalid override.
func (r *Registry) Resolve(ref string, overrides map[string]string) (Set, error) {
	family, variant := SplitRef(ref)
	if !slices.Contains(r.variants[family], variant) {
		return Set{}, spec.Errorf(spec.CatalogInvalid, "", "theme", "unknown theme %q", ref)
	}

	selection, err := r.selector.Select(family, variant)
	if err != nil {
		return Set{}, spec.Wrap(spec.CatalogInvalid, "", "theme", fmt.Errorf("select theme %q: %w", ref, err))
	}

	resolved := make(map[string]string)
	for name, value := range selection.Tokens() {
		resolved[name] = value
	}

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := r.names[family][name]; !ok {
			return Set{}, spec.Errorf(spec.InvalidOverrideShape, "", "tokens."+name, "theme %q has no token %q", ref, name)
		}
		if value := strings.TrimSpace(overrides[name]); value != "" {
			resolved[name] = value
		}
	}

	return Set{Theme: family, Variant: variant, Tokens: resolved}, nil
}

// SplitRef splits "<family>-<variant>" on its last dash. A reference without
// a dash selects the default variant.
func SplitRef(ref string) (family, variant string) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	idx := strings.LastIndex(ref, "-")
	if idx <= 0 || idx == len(ref)-1 {
		return ref, defaultVariant
	}
	return ref[:idx], ref[idx+1:]
}

// Style renders the set as one :root rule with keys in lexical order.
func (s Set) Style() string {
	if len(s.Tokens) == 0 {
		return ""
	}
	keys := make([]string, 0, len(s.Tokens))
	for key := range s.Tokens {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString("  ")
		b.WriteString(VarPrefix)
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(sanitizeValue(s.Tokens[key]))
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

// sanitizeValue keeps override values from closing the rule or the style
// element they are emitted into.
func sanitizeValue(value string) string {
	replacer := strings.NewReplacer(";", "", "{", "", "}", "", "<", "", ">", "")
	return strings.TrimSpace(replacer.Replace(value))
}
