package catalog_test

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-pagegen/pkg/catalog"
	"github.com/goliatone/go-pagegen/pkg/sections"
	"github.com/goliatone/go-pagegen/pkg/spec"
)

const recordTemplate = `
  - templateId: %ID%
    version: v1
    category: saas
    theme: modern-light
    metadata: {name: Test}
    sections:
      - type: %TYPE%
        props: {headline: Hello}
`

func record(id, sectionType string) string {
	return strings.NewReplacer("%ID%", id, "%TYPE%", sectionType).Replace(recordTemplate)
}

func TestDefaultRegistry(t *testing.T) {
	reg, err := catalog.Default()
	if err != nil {
		t.Fatalf("default registry: %v", err)
	}
	if reg.Len() < 4 {
		t.Fatalf("expected at least four templates, got %d", reg.Len())
	}

	got, err := reg.Lookup("v1-saas-modern-light")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	want := []string{"Hero", "LogoStrip", "ServiceList", "Testimonials", "FinalCTA"}
	if diff := cmp.Diff(want, got.SectionTypes()); diff != "" {
		t.Fatalf("section types mismatch (-want +got):\n%s", diff)
	}
	if got.Form.SubmitLabel == "" || len(got.Form.Fields) == 0 {
		t.Fatalf("expected default form metadata, got %+v", got.Form)
	}
	if reg.IDs()[0] != "v1-saas-modern-light" {
		t.Fatalf("expected catalog order to start with the saas template, got %v", reg.IDs())
	}
}

func TestLookupReturnsIsolatedCopies(t *testing.T) {
	reg, err := catalog.Default()
	if err != nil {
		t.Fatalf("default registry: %v", err)
	}

	first, err := reg.Lookup("v1-saas-modern-light")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	first.Sections[0].Props["headline"] = "mutated"
	first.Assets.Primary["hero"] = "mutated"

	second, err := reg.Lookup("v1-saas-modern-light")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if second.Sections[0].Props["headline"] == "mutated" || second.Assets.Primary["hero"] == "mutated" {
		t.Fatal("mutating a lookup result changed the registry")
	}
}

func TestLookupUnknownTemplate(t *testing.T) {
	reg, err := catalog.Default()
	if err != nil {
		t.Fatalf("default registry: %v", err)
	}

	_, err = reg.Lookup("v1-does-not-exist")
	if !errors.Is(err, spec.TemplateNotFound) {
		t.Fatalf("expected TemplateNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "v1-does-not-exist") {
		t.Fatalf("expected id in error, got %v", err)
	}
	if reg.Has("v1-does-not-exist") {
		t.Fatal("Has reported an unknown template")
	}
}

func TestLoadFSOrdersByFileThenRecord(t *testing.T) {
	files := fstest.MapFS{
		"b.yaml":        {Data: []byte("templates:" + record("v1-b1", "Hero") + record("v1-b2", "Hero"))},
		"a.yml":         {Data: []byte("templates:" + record("v1-a1", "Hero"))},
		"notes.txt":     {Data: []byte("ignored")},
		"c/nested.json": {Data: []byte(`{"templates":[{"templateId":"v1-c1","version":"v1","category":"saas","theme":"modern-light","metadata":{"name":"C"},"sections":[{"type":"Hero","props":{"headline":"x"}}]}]}`)},
	}

	reg, err := catalog.LoadFS(files)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []string{"v1-a1", "v1-b1", "v1-b2", "v1-c1"}
	if diff := cmp.Diff(want, reg.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	if src := reg.Source("v1-b2"); src != "b.yaml#1" {
		t.Fatalf("unexpected source %q", src)
	}
}

func TestLoadFSRejectsDuplicates(t *testing.T) {
	files := fstest.MapFS{
		"a.yaml": {Data: []byte("templates:" + record("v1-dup", "Hero"))},
		"b.yaml": {Data: []byte("templates:" + record("v1-dup", "Hero"))},
	}

	_, err := catalog.LoadFS(files)
	if !errors.Is(err, spec.CatalogInvalid) {
		t.Fatalf("expected CatalogInvalid, got %v", err)
	}
	if !strings.Contains(err.Error(), "a.yaml#0") || !strings.Contains(err.Error(), "b.yaml#0") {
		t.Fatalf("expected both sources in error, got %v", err)
	}
}

func TestLoadFSRejectsUnknownSectionType(t *testing.T) {
	files := fstest.MapFS{
		"a.yaml": {Data: []byte("templates:" + record("v1-bad", "Carousel"))},
	}

	if _, err := catalog.LoadFS(files); err != nil {
		t.Fatalf("load without checks should accept any type: %v", err)
	}

	_, err := catalog.LoadFS(files, catalog.WithSectionCheck(sections.CheckSection))
	if !errors.Is(err, spec.UnknownSectionType) {
		t.Fatalf("expected UnknownSectionType, got %v", err)
	}
	if !strings.Contains(err.Error(), "v1-bad") || !strings.Contains(err.Error(), "sections[0].type") {
		t.Fatalf("expected template and path in error, got %v", err)
	}
}

func TestLoadFSRejectsUnknownTheme(t *testing.T) {
	files := fstest.MapFS{
		"a.yaml": {Data: []byte("templates:" + record("v1-theme", "Hero"))},
	}

	_, err := catalog.LoadFS(files, catalog.WithThemeCheck(func(string) bool { return false }))
	if !errors.Is(err, spec.CatalogInvalid) {
		t.Fatalf("expected CatalogInvalid, got %v", err)
	}
}

func TestLoadFSRejectsInvalidRecords(t *testing.T) {
	files := fstest.MapFS{
		"a.yaml": {Data: []byte("templates:\n  - templateId: v1-x\n    version: v2\n")},
	}
	if _, err := catalog.LoadFS(files); !errors.Is(err, spec.CatalogInvalid) {
		t.Fatalf("expected CatalogInvalid, got %v", err)
	}

	empty := fstest.MapFS{"a.yaml": {Data: []byte("  ")}}
	if _, err := catalog.LoadFS(empty); err == nil {
		t.Fatal("expected error for empty file")
	}
}
