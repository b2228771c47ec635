package composer

import (
	"context"
	"embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"strings"
	"time"

	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-pagegen/internal/logging"
	"github.com/goliatone/go-pagegen/pkg/assets"
	"github.com/goliatone/go-pagegen/pkg/catalog"
	"github.com/goliatone/go-pagegen/pkg/interfaces"
	"github.com/goliatone/go-pagegen/pkg/override"
	"github.com/goliatone/go-pagegen/pkg/render/template"
	"github.com/goliatone/go-pagegen/pkg/render/template/gotemplate"
	"github.com/goliatone/go-pagegen/pkg/sections"
	"github.com/goliatone/go-pagegen/pkg/spec"
	"github.com/goliatone/go-pagegen/pkg/tokens"
)

//go:embed templates/document.tpl templates/base.css
var embeddedTemplates embed.FS

const documentTemplate = "document"

// Registry looks templates up by id.
type Registry interface {
	Lookup(id string) (spec.TemplateSpec, error)
}

// AssetResolver maps logical asset names to URLs.
type AssetResolver interface {
	Resolve(s spec.TemplateSpec, logicalName string) (assets.Resolved, error)
}

// SectionRenderer renders one section kind.
type SectionRenderer interface {
	Render(kind sections.Kind, in sections.Input) (sections.Fragment, error)
}

// TokenResolver selects the design tokens for a theme reference.
type TokenResolver interface {
	Resolve(theme string, overrides map[string]string) (tokens.Set, error)
}

// Option customises a Composer.
type Option func(*Composer)

// WithRegistry replaces the embedded catalog.
func WithRegistry(registry Registry) Option {
	return func(c *Composer) {
		c.registry = registry
	}
}

// WithAssetResolver replaces the default resolver, which checks primaries
// against the embedded stock manifest.
func WithAssetResolver(resolver AssetResolver) Option {
	return func(c *Composer) {
		c.assets = resolver
	}
}

// WithSectionRenderer replaces the bundled section renderer.
func WithSectionRenderer(renderer SectionRenderer) Option {
	return func(c *Composer) {
		c.sections = renderer
	}
}

// WithTokens replaces the embedded theme registry.
func WithTokens(resolver TokenResolver) Option {
	return func(c *Composer) {
		c.tokens = resolver
	}
}

// WithLogger sets the logger used for composition diagnostics.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Composer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLoggerProvider derives the composer logger from provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Composer) {
		c.logger = logging.ModuleLogger(provider, "composer")
	}
}

// WithConcurrency bounds how many sections render at once. Values below one
// fall back to GOMAXPROCS.
func WithConcurrency(limit int) Option {
	return func(c *Composer) {
		c.concurrency = limit
	}
}

// WithLenientOverrides switches override handling from reject-all to
// drop-and-report; dropped entries are returned in Result.Issues.
func WithLenientOverrides(lenient bool) Option {
	return func(c *Composer) {
		c.lenient = lenient
	}
}

// WithLang sets the document language attribute. Defaults to "en".
func WithLang(lang string) Option {
	return func(c *Composer) {
		if lang = strings.TrimSpace(lang); lang != "" {
			c.lang = lang
		}
	}
}

// Composer assembles landing pages.
type Composer struct {
	registry    Registry
	assets      AssetResolver
	sections    SectionRenderer
	tokens      TokenResolver
	document    template.TemplateRenderer
	baseCSS     string
	logger      interfaces.Logger
	concurrency int
	lenient     bool
	lang        string

	initialiseErr error
}

// New builds a Composer. Missing collaborators default to the embedded
// catalog, themes, stock manifest and section templates; a failure to load
// them is reported by the first Compose call.
func New(opts ...Option) *Composer {
	c := &Composer{lang: "en"}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.applyDefaults()
	return c
}

func (c *Composer) applyDefaults() {
	if c.logger == nil {
		c.logger = logging.NoOp()
	}
	if c.concurrency < 1 {
		c.concurrency = runtime.GOMAXPROCS(0)
	}
	fail := func(err error) {
		if c.initialiseErr == nil {
			c.initialiseErr = err
		}
	}

	if c.registry == nil {
		registry, err := catalog.Default()
		if err != nil {
			fail(fmt.Errorf("composer: default catalog: %w", err))
		} else {
			c.registry = registry
		}
	}
	if c.assets == nil {
		manifest, err := assets.DefaultManifest()
		if err != nil {
			fail(fmt.Errorf("composer: stock manifest: %w", err))
		}
		c.assets = assets.NewResolver(assets.WithManifest(manifest))
	}
	if c.sections == nil {
		renderer, err := sections.NewRenderer()
		if err != nil {
			fail(fmt.Errorf("composer: section renderer: %w", err))
		} else {
			c.sections = renderer
		}
	}
	if c.tokens == nil {
		themes, err := tokens.Default()
		if err != nil {
			fail(fmt.Errorf("composer: themes: %w", err))
		} else {
			c.tokens = themes
		}
	}

	files, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		fail(fmt.Errorf("composer: document templates: %w", err))
		return
	}
	engine, err := gotemplate.New(gotemplate.WithFS(files))
	if err != nil {
		fail(fmt.Errorf("composer: document engine: %w", err))
		return
	}
	c.document = engine

	css, err := fs.ReadFile(files, "base.css")
	if err != nil {
		fail(fmt.Errorf("composer: base stylesheet: %w", err))
		return
	}
	c.baseCSS = strings.TrimSpace(string(css))
}

// Request names the template to compose and optional overrides.
type Request struct {
	TemplateID string
	Overrides  *override.Payload
}

// Result is a composed page.
type Result struct {
	HTML         string
	SectionTypes []string
	TemplateID   string
	// Fingerprint is the hex BLAKE3 digest of the effective spec. It is also
	// stamped on the root element.
	Fingerprint string
	// Issues lists overrides dropped in lenient mode.
	Issues []override.Issue
}

// Compose runs the full pipeline for req.
func (c *Composer) Compose(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("composer: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if c.initialiseErr != nil {
		return Result{}, c.initialiseErr
	}

	started := time.Now()
	result, err := c.compose(ctx, req)
	if err != nil {
		c.logFailure(req.TemplateID, err)
		return Result{}, err
	}

	c.logger.Debug("composed page",
		"template", result.TemplateID,
		"sections", len(result.SectionTypes),
		"issues", len(result.Issues),
		"duration", time.Since(started),
	)
	return result, nil
}

func (c *Composer) compose(ctx context.Context, req Request) (Result, error) {
	id := strings.TrimSpace(req.TemplateID)
	if id == "" {
		return Result{}, spec.Errorf(spec.TemplateNotFound, "", "templateId", "template id is required")
	}

	base, err := c.registry.Lookup(id)
	if err != nil {
		return Result{}, fmt.Errorf("composer: lookup: %w", err)
	}

	effective, issues, err := c.merge(base, req.Overrides)
	if err != nil {
		return Result{}, fmt.Errorf("composer: merge overrides: %w", err)
	}

	tokenSet, err := c.tokens.Resolve(effective.Theme, effective.Tokens)
	if err != nil {
		return Result{}, fmt.Errorf("composer: tokens: %w", spec.WithTemplate(err, id))
	}

	fragments, err := c.renderSections(ctx, effective)
	if err != nil {
		return Result{}, fmt.Errorf("composer: render sections: %w", spec.WithTemplate(err, id))
	}

	fingerprint, err := Fingerprint(effective)
	if err != nil {
		return Result{}, fmt.Errorf("composer: fingerprint: %w", err)
	}

	html, err := c.assemble(effective, tokenSet, fragments, fingerprint)
	if err != nil {
		return Result{}, fmt.Errorf("composer: assemble document: %w", err)
	}

	return Result{
		HTML:         html,
		SectionTypes: effective.SectionTypes(),
		TemplateID:   effective.TemplateID,
		Fingerprint:  fingerprint,
		Issues:       issues,
	}, nil
}

func (c *Composer) merge(base spec.TemplateSpec, payload *override.Payload) (spec.TemplateSpec, []override.Issue, error) {
	if !c.lenient {
		effective, err := override.Merge(base, payload)
		return effective, nil, err
	}
	effective, issues := override.MergeLenient(base, payload)
	for _, issue := range issues {
		c.logger.Warn("dropped override", "template", base.TemplateID, "path", issue.Path, "reason", issue.Message)
	}
	return effective, issues, nil
}

// renderSections renders every section into an index-addressed slice. All
// sections run even after a failure so the reported error is always the one
// at the lowest index.
func (c *Composer) renderSections(ctx context.Context, effective spec.TemplateSpec) ([]sections.Fragment, error) {
	fragments := make([]sections.Fragment, len(effective.Sections))
	errs := make([]error, len(effective.Sections))

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for idx := range effective.Sections {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fragments[idx], errs[idx] = c.renderSection(effective, idx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return fragments, nil
}

func (c *Composer) renderSection(effective spec.TemplateSpec, idx int) (sections.Fragment, error) {
	section := effective.Sections[idx]
	kind, err := sections.ParseKind(section.Type)
	if err != nil {
		return sections.Fragment{}, spec.Errorf(spec.UnknownSectionType, effective.TemplateID,
			spec.SectionPath(idx, "type"), "unknown section type %q", section.Type)
	}

	names := sections.AssetNames(kind, section.Props)
	resolved := make(map[string]assets.Resolved, len(names))
	for _, name := range names {
		asset, err := c.assets.Resolve(effective, name)
		if err != nil {
			return sections.Fragment{}, fmt.Errorf("%s: %w", spec.SectionPath(idx), err)
		}
		resolved[name] = asset
	}

	return c.sections.Render(kind, sections.Input{
		Index:  idx,
		Props:  section.Props,
		Assets: resolved,
	})
}

func (c *Composer) assemble(effective spec.TemplateSpec, tokenSet tokens.Set, fragments []sections.Fragment, fingerprint string) (string, error) {
	var (
		styles []string
		seen   = map[sections.Kind]struct{}{}
		html   = make([]string, len(fragments))
	)
	for idx, fragment := range fragments {
		html[idx] = fragment.HTML
		if _, ok := seen[fragment.Kind]; ok || fragment.CSS == "" {
			continue
		}
		seen[fragment.Kind] = struct{}{}
		styles = append(styles, fragment.CSS)
	}

	title := effective.Metadata.Name
	if title == "" {
		title = effective.TemplateID
	}

	return c.document.RenderTemplate(documentTemplate, map[string]any{
		"lang":         c.lang,
		"title":        title,
		"description":  effective.Metadata.Description,
		"template_id":  effective.TemplateID,
		"version":      spec.Version,
		"theme":        effective.Theme,
		"fingerprint":  fingerprint,
		"tokens_style": tokenSet.Style(),
		"base_css":     c.baseCSS,
		"styles":       styles,
		"sections":     html,
	})
}

// Fingerprint hashes the canonical JSON encoding of s. Map keys are encoded in
// sorted order so equal specs always share a fingerprint.
func Fingerprint(s spec.TemplateSpec) (string, error) {
	encoded, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	sum := blake3.Sum256(encoded)
	return hex.EncodeToString(sum[:]), nil
}

func (c *Composer) logFailure(templateID string, err error) {
	kind := spec.KindOf(err)
	if kind != "" && kind.CallerError() {
		c.logger.Debug("composition rejected", "template", templateID, "kind", string(kind), "error", err)
		return
	}
	c.logger.Error("composition failed", "template", templateID, "kind", string(kind), "error", err)
}
