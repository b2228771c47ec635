package template_test

import (
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-pagegen/pkg/render/template/gotemplate"
	"github.com/goliatone/go-pagegen/pkg/testsupport"
)

func newEngine(t *testing.T, opts ...gotemplate.Option) *gotemplate.Engine {
	t.Helper()

	files := fstest.MapFS{
		"hello.tpl":         {Data: []byte(`Hello {{ name }}!`)},
		"use-global.tpl":    {Data: []byte(`env={{ settings.env }}`)},
		"escape.tpl":        {Data: []byte(`<p>{{ body }}</p><div>{{ trusted|safe }}</div>`)},
		"shout.tpl":         {Data: []byte(`{{ word|pagegen_test_shout }}`)},
		"nested.tpl":        {Data: []byte(`{% include "partials/item.tpl" %}`)},
		"partials/item.tpl": {Data: []byte(`[{{ label }}]`)},
	}
	engine, err := gotemplate.New(append([]gotemplate.Option{gotemplate.WithFS(files)}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	if want := "Hello Ada!"; result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != result {
		t.Fatalf("writer mismatch\nwant: %q\n got: %q", result, written)
	}
}

func TestGoTemplateEngine_AcceptsExplicitExtension(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("hello.tpl", map[string]any{"name": "Lin"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "Hello Lin!" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestGoTemplateEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, err := engine.RenderTemplate("use-global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "env=staging" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestGoTemplateEngine_WithGlobalData(t *testing.T) {
	engine := newEngine(t, gotemplate.WithGlobalData(map[string]any{
		"settings": map[string]any{"env": "prod"},
	}))

	result, err := engine.RenderTemplate("use-global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "env=prod" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestGoTemplateEngine_AutoEscapes(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("escape", map[string]any{
		"body":    `<script>alert(1)</script>`,
		"trusted": `<em>ok</em>`,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(result, "<script>") {
		t.Fatalf("expected body to be escaped, got %q", result)
	}
	if !strings.Contains(result, "<em>ok</em>") {
		t.Fatalf("expected trusted html to pass through, got %q", result)
	}
}

func TestGoTemplateEngine_WithFilters(t *testing.T) {
	engine := newEngine(t, gotemplate.WithFilters(map[string]gotemplate.Filter{
		"pagegen_test_shout": func(input any, _ any) (any, error) {
			s, _ := input.(string)
			return strings.ToUpper(s) + "!", nil
		},
	}))

	result, err := engine.RenderTemplate("shout", map[string]any{"word": "launch"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "LAUNCH!" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestGoTemplateEngine_Include(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("nested", map[string]any{"label": "x"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "[x]" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestGoTemplateEngine_RenderString(t *testing.T) {
	engine := newEngine(t)

	type view struct {
		Name string `json:"name"`
	}
	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderString(`hi {{ name }}`, view{Name: "Grace"}, w)
	})
	if result != "hi Grace" || written != result {
		t.Fatalf("unexpected output result=%q written=%q", result, written)
	}
}

func TestGoTemplateEngine_MissingTemplate(t *testing.T) {
	engine := newEngine(t)

	if _, err := engine.RenderTemplate("absent", nil); err == nil {
		t.Fatal("expected error for missing template")
	}
}

func TestGoTemplateEngine_RequiresFS(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatal("expected error without fs")
	}
}
