package assets

import (
	"html"
	"strings"

	"github.com/goliatone/go-pagegen/pkg/spec"
)

// Provenance records which table produced a resolved URL.
type Provenance string

const (
	ProvenancePrimary  Provenance = "primary"
	ProvenanceFallback Provenance = "fallback"
)

// DefaultPrimaryPrefix is prepended to relative primary identifiers.
const DefaultPrimaryPrefix = "/demo-assets"

// Resolved is a logical asset turned into a URL.
type Resolved struct {
	Name       string     `json:"name"`
	URL        string     `json:"url"`
	Provenance Provenance `json:"provenance"`
	Alt        string     `json:"alt,omitempty"`
}

// Attrs renders the provenance tag stamped on media elements.
func (r Resolved) Attrs() string {
	return `data-asset-provenance="` + html.EscapeString(string(r.Provenance)) +
		`" data-asset-name="` + html.EscapeString(r.Name) + `"`
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPrimaryPrefix overrides DefaultPrimaryPrefix.
func WithPrimaryPrefix(prefix string) Option {
	return func(r *Resolver) {
		if trimmed := strings.TrimRight(strings.TrimSpace(prefix), "/"); trimmed != "" {
			r.primaryPrefix = trimmed
		}
	}
}

// WithManifest looks primaries up in m to fill in their stored path and alt
// text. Identifiers m does not list are expanded as-is.
func WithManifest(m *Manifest) Option {
	return func(r *Resolver) {
		r.manifest = m
	}
}

// Resolver applies the primary then fallback policy. It holds no per-call
// state and is safe for concurrent use.
type Resolver struct {
	primaryPrefix string
	manifest      *Manifest
}

// NewResolver builds a Resolver. Any non-empty primary identifier resolves
// with primary provenance.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{primaryPrefix: DefaultPrimaryPrefix}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Resolve returns the URL for logicalName. A name with neither a usable
// primary nor a fallback is reported as AssetResolutionFailure.
func (r *Resolver) Resolve(s spec.TemplateSpec, logicalName string) (Resolved, error) {
	name := strings.TrimSpace(logicalName)
	if name == "" {
		return Resolved{}, spec.Errorf(spec.AssetResolutionFailure, s.TemplateID, "assets", "empty asset name")
	}

	if id := strings.TrimSpace(s.Assets.Primary[name]); id != "" {
		return r.primary(name, id), nil
	}

	if fallback := strings.TrimSpace(s.Assets.Fallback[name]); fallback != "" {
		return Resolved{Name: name, URL: fallback, Provenance: ProvenanceFallback}, nil
	}

	return Resolved{}, spec.Errorf(spec.AssetResolutionFailure, s.TemplateID, "assets."+name,
		"asset %q has no primary identifier and no fallback path", name)
}

// ResolveAll resolves names in order and stops at the first failure.
func (r *Resolver) ResolveAll(s spec.TemplateSpec, names []string) (map[string]Resolved, error) {
	out := make(map[string]Resolved, len(names))
	for _, name := range names {
		if _, done := out[name]; done {
			continue
		}
		resolved, err := r.Resolve(s, name)
		if err != nil {
			return nil, err
		}
		out[name] = resolved
	}
	return out, nil
}

func (r *Resolver) primary(name, id string) Resolved {
	resolved := Resolved{Name: name, URL: r.expand(id), Provenance: ProvenancePrimary}
	if image, ok := r.manifest.Get(id); ok {
		resolved.Alt = image.Alt
		if image.Path != "" {
			resolved.URL = image.Path
		}
	}
	return resolved
}

func (r *Resolver) expand(id string) string {
	if strings.HasPrefix(id, "/") || strings.HasPrefix(id, "http://") || strings.HasPrefix(id, "https://") {
		return id
	}
	return r.primaryPrefix + "/" + strings.TrimLeft(id, "/")
}
