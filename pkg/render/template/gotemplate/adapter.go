package gotemplate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-pagegen/pkg/render/template"
)

// Filter is the signature for custom template filters.
type Filter func(input any, param any) (any, error)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	templates  fs.FS
	extension  string
	filters    map[string]Filter
	globalData map[string]any
}

// WithFS loads templates from files.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the ".tpl" default appended to template names.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithFilters registers filters when the engine is built. Filters are
// process-wide in pongo2; a name that already exists keeps its first
// registration.
func WithFilters(filters map[string]Filter) Option {
	return func(cfg *config) {
		if len(filters) == 0 {
			return
		}
		if cfg.filters == nil {
			cfg.filters = make(map[string]Filter, len(filters))
		}
		for name, fn := range filters {
			cfg.filters[strings.TrimSpace(name)] = fn
		}
	}
}

// WithGlobalData seeds values visible to every template.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// Engine renders pongo2 templates out of an fs.FS. Parsed templates are cached
// by path; execution is safe for concurrent callers.
type Engine struct {
	mu sync.RWMutex

	templateSet *pongo2.TemplateSet
	templates   map[string]*pongo2.Template
	tplExt      string
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an Engine.
func New(options ...Option) (*Engine, error) {
	cfg := &config{extension: ".tpl"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	if cfg.templates == nil {
		return nil, errors.New("gotemplate: template fs.FS is required")
	}

	engine := &Engine{
		templateSet: pongo2.NewSet("pagegen", pongo2.NewFSLoader(cfg.templates)),
		templates:   make(map[string]*pongo2.Template),
		tplExt:      cfg.extension,
	}

	for name, fn := range cfg.filters {
		if err := registerFilter(name, fn); err != nil {
			return nil, fmt.Errorf("gotemplate: register filter %q: %w", name, err)
		}
	}
	if err := engine.GlobalContext(cfg.globalData); err != nil {
		return nil, fmt.Errorf("gotemplate: apply global data: %w", err)
	}
	return engine, nil
}

// RenderTemplate executes the named template, appending the configured
// extension when missing.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	path := name
	if !strings.HasSuffix(path, e.tplExt) {
		path += e.tplExt
	}

	tmpl, err := e.getTemplate(path)
	if err != nil {
		return "", err
	}
	rendered, err := e.execute(tmpl, data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute template %q: %w", path, err)
	}
	return rendered, writeAll(rendered, out)
}

// RenderString parses and executes inline template content.
func (e *Engine) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	tmpl, err := e.templateSet.FromString(templateContent)
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse template string: %w", err)
	}
	rendered, err := e.execute(tmpl, data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute template string: %w", err)
	}
	return rendered, writeAll(rendered, out)
}

// GlobalContext merges data into the values every template sees.
func (e *Engine) GlobalContext(data any) error {
	if e == nil || e.templateSet == nil {
		return errors.New("gotemplate: engine is nil")
	}
	if data == nil {
		return nil
	}
	globals, err := toContext(data)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.templateSet.Globals == nil {
		e.templateSet.Globals = make(pongo2.Context)
	}
	e.templateSet.Globals.Update(globals)
	return nil
}

func (e *Engine) execute(tmpl *pongo2.Template, data any) (string, error) {
	viewContext, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("convert data: %w", err)
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(viewContext, &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (e *Engine) getTemplate(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.templates[path]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.templateSet.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load template %q: %w", path, err)
	}
	e.templates[path] = tmpl
	return tmpl, nil
}

func writeAll(rendered string, out []io.Writer) error {
	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, rendered); err != nil {
			return err
		}
	}
	return nil
}

func registerFilter(name string, fn Filter) error {
	if name == "" || fn == nil {
		return errors.New("filter name and function required")
	}
	if pongo2.FilterExists(name) {
		return nil
	}
	return pongo2.RegisterFilter(name, func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var paramVal any
		if param != nil {
			paramVal = param.Interface()
		}
		result, err := fn(in.Interface(), paramVal)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	})
}

// toContext normalises template data into a pongo2.Context. Maps are used
// as-is at the top level; anything else goes through a JSON round trip so
// struct tags decide the template-visible keys.
func toContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return v, nil
	case map[string]any:
		out := make(pongo2.Context, len(v))
		for key, value := range v {
			if key = strings.TrimSpace(key); key != "" {
				out[key] = value
			}
		}
		return out, nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		out := pongo2.Context{}
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
}
