package sections

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-slug"
	"github.com/yuin/goldmark"

	"github.com/goliatone/go-pagegen/pkg/assets"
	"github.com/goliatone/go-pagegen/pkg/render/template"
	"github.com/goliatone/go-pagegen/pkg/render/template/gotemplate"
	"github.com/goliatone/go-pagegen/pkg/spec"
)

//go:embed templates/*.tpl templates/css/*.css
var embeddedTemplates embed.FS

// TemplatesFS returns the bundled fragment templates and stylesheets.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Input is everything a renderer needs for one section.
type Input struct {
	// Index is the section position in the effective spec.
	Index  int
	Props  map[string]any
	Assets map[string]assets.Resolved
}

// Fragment is the rendered output of one section.
type Fragment struct {
	Kind Kind
	HTML string
	// CSS is the kind's stylesheet, identical for every section of the kind.
	CSS string
}

// Option customises a Renderer.
type Option func(*Renderer)

// WithTemplatesFS replaces the bundled templates. The file set must contain
// "<name>.tpl" and "css/<name>.css" for every kind.
func WithTemplatesFS(files fs.FS) Option {
	return func(r *Renderer) {
		if files != nil {
			r.files = files
		}
	}
}

// WithTemplateRenderer replaces the pongo2 engine built over the template
// files. Stylesheets are still read from the file set.
func WithTemplateRenderer(engine template.TemplateRenderer) Option {
	return func(r *Renderer) {
		r.engine = engine
	}
}

// Renderer renders sections. It is immutable after NewRenderer.
type Renderer struct {
	files    fs.FS
	engine   template.TemplateRenderer
	markdown goldmark.Markdown
	css      map[Kind]string
}

// NewRenderer builds a Renderer and loads every kind's stylesheet.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		files:    TemplatesFS(),
		markdown: newMarkdown(),
		css:      make(map[Kind]string, len(kindTable)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	if r.engine == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(r.files))
		if err != nil {
			return nil, fmt.Errorf("sections: template engine: %w", err)
		}
		r.engine = engine
	}

	for _, kind := range Kinds() {
		name := "css/" + kindTable[kind].template + ".css"
		data, err := fs.ReadFile(r.files, name)
		if err != nil {
			return nil, fmt.Errorf("sections: stylesheet for %s: %w", kind, err)
		}
		r.css[kind] = strings.TrimSpace(string(data))
	}
	return r, nil
}

// Stylesheet returns the CSS bundled for kind.
func (r *Renderer) Stylesheet(kind Kind) string {
	return r.css[kind]
}

// Render produces the fragment for one section.
func (r *Renderer) Render(kind Kind, in Input) (Fragment, error) {
	var (
		view map[string]any
		err  error
	)
	switch kind {
	case Hero:
		view, err = r.heroView(in)
	case LogoStrip:
		view, err = r.logoStripView(in)
	case ServiceList:
		view, err = r.serviceListView(in)
	case Testimonials:
		view, err = r.testimonialsView(in)
	case FinalCTA:
		view, err = r.finalCTAView(in)
	default:
		return Fragment{}, spec.Errorf(spec.UnknownSectionType, "", spec.SectionPath(in.Index, "type"),
			"unknown section type %q", kind)
	}
	if err != nil {
		return Fragment{}, err
	}

	view["index"] = in.Index
	view["kind"] = string(kind)
	view["class"] = kind.Class()
	view["anchor"] = anchor(kind, in.Index, propString(in.Props, "anchor"), propString(in.Props, "title"), propString(in.Props, "headline"))

	html, err := r.engine.RenderTemplate(kindTable[kind].template, view)
	if err != nil {
		return Fragment{}, fmt.Errorf("sections: render %s at %s: %w", kind, spec.SectionPath(in.Index), err)
	}
	return Fragment{Kind: kind, HTML: strings.TrimSpace(html), CSS: r.css[kind]}, nil
}

// anchor builds a stable element id: "v1-<index>-<slug>" from the first
// non-empty candidate, or the kind class when none normalises.
func anchor(kind Kind, index int, candidates ...string) string {
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if normalized, err := slug.Normalize(candidate); err == nil && normalized != "" {
			return fmt.Sprintf("v1-%d-%s", index, normalized)
		}
	}
	return fmt.Sprintf("v1-%d-%s", index, strings.TrimPrefix(kind.Class(), "v1-"))
}

func (r *Renderer) heroView(in Input) (map[string]any, error) {
	body, err := r.richText(propString(in.Props, "body"))
	if err != nil {
		return nil, err
	}
	img, err := image(in, propString(in.Props, "asset"), propString(in.Props, "alt"))
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"eyebrow":       propString(in.Props, "eyebrow"),
		"headline":      propString(in.Props, "headline"),
		"subheadline":   propString(in.Props, "subheadline"),
		"body":          body,
		"cta":           link(in.Props, "cta"),
		"secondary_cta": link(in.Props, "secondaryCta"),
		"image":         img,
	}, nil
}

func (r *Renderer) logoStripView(in Input) (map[string]any, error) {
	var logos []map[string]any
	for _, item := range propList(in.Props, "logos") {
		name := propString(item, "name")
		img, err := image(in, propString(item, "asset"), name)
		if err != nil {
			return nil, err
		}
		logos = append(logos, map[string]any{"name": name, "image": img})
	}
	for _, assetName := range propStrings(in.Props, "assets") {
		img, err := image(in, assetName, "")
		if err != nil {
			return nil, err
		}
		logos = append(logos, map[string]any{"name": "", "image": img})
	}
	return map[string]any{
		"title": propString(in.Props, "title"),
		"logos": logos,
	}, nil
}

func (r *Renderer) serviceListView(in Input) (map[string]any, error) {
	intro, err := r.richText(propString(in.Props, "intro"))
	if err != nil {
		return nil, err
	}
	var items []map[string]any
	for _, item := range propList(in.Props, "items") {
		description, err := r.richText(propString(item, "description"))
		if err != nil {
			return nil, err
		}
		img, err := image(in, propString(item, "asset"), "")
		if err != nil {
			return nil, err
		}
		items = append(items, map[string]any{
			"title":       propString(item, "title"),
			"description": description,
			"icon":        propString(item, "icon"),
			"image":       img,
			"link":        link(item, "link"),
		})
	}
	return map[string]any{
		"title": propString(in.Props, "title"),
		"intro": intro,
		"items": items,
	}, nil
}

func (r *Renderer) testimonialsView(in Input) (map[string]any, error) {
	var items []map[string]any
	for _, item := range propList(in.Props, "items") {
		quote, err := r.richText(propString(item, "quote"))
		if err != nil {
			return nil, err
		}
		author := propString(item, "author")
		img, err := image(in, propString(item, "asset"), author)
		if err != nil {
			return nil, err
		}
		items = append(items, map[string]any{
			"quote":  quote,
			"author": author,
			"role":   propString(item, "role"),
			"image":  img,
		})
	}
	return map[string]any{
		"title": propString(in.Props, "title"),
		"items": items,
	}, nil
}

func (r *Renderer) finalCTAView(in Input) (map[string]any, error) {
	body, err := r.richText(propString(in.Props, "body"))
	if err != nil {
		return nil, err
	}
	img, err := image(in, propString(in.Props, "asset"), propString(in.Props, "alt"))
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"headline": propString(in.Props, "headline"),
		"body":     body,
		"cta":      link(in.Props, "cta"),
		"image":    img,
	}, nil
}
