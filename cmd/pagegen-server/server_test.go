package main

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func env(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(nil, env(nil))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.ShutdownTimeout != 10*time.Second || cfg.LogFormat != "json" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestParseConfigEnvFallback(t *testing.T) {
	cfg, err := parseConfig([]string{"--addr", ":9000"}, env(map[string]string{
		"PAGEGEN_ADDR":             ":7000",
		"PAGEGEN_CATALOG_DIR":      "/srv/catalog",
		"PAGEGEN_SHUTDOWN_TIMEOUT": "3s",
	}))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Addr != ":9000" {
		t.Fatalf("flag should win over env, got %q", cfg.Addr)
	}
	if cfg.CatalogDir != "/srv/catalog" {
		t.Fatalf("expected catalog dir from env, got %q", cfg.CatalogDir)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("expected shutdown timeout from env, got %v", cfg.ShutdownTimeout)
	}
}

func TestParseConfigRejectsBadEnv(t *testing.T) {
	if _, err := parseConfig(nil, env(map[string]string{"PAGEGEN_SHUTDOWN_TIMEOUT": "soon"})); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
	if _, err := parseConfig([]string{"extra"}, env(nil)); err == nil {
		t.Fatalf("expected error for positional argument")
	}
}

func TestHandlerServesAPIAndPlaceholders(t *testing.T) {
	handler, err := buildHandler(defaultConfig(), nil)
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/compose", strings.NewReader(`{"templateId":"v1-saas-modern-light"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("compose status %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected generated request id")
	}
	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip response")
	}
	reader, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), "v1-root") {
		t.Fatalf("unexpected body")
	}

	req = httptest.NewRequest(http.MethodGet, "/placeholders/saas/hero.svg", nil)
	req.Header.Set(requestIDHeader, "fixed-id")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "<svg") {
		t.Fatalf("placeholder status %d", rec.Code)
	}
	if rec.Header().Get(requestIDHeader) != "fixed-id" {
		t.Fatalf("expected request id to be echoed")
	}
}

func TestHandlerCatalogDir(t *testing.T) {
	dir := t.TempDir()
	record := `templates:
  - templateId: v1-served-from-disk
    version: v1
    category: saas
    theme: modern-light
    metadata: {name: Disk}
    sections:
      - type: Hero
        props: {headline: Served from disk}
`
	if err := os.WriteFile(filepath.Join(dir, "catalog.yaml"), []byte(record), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	cfg := defaultConfig()
	cfg.CatalogDir = dir

	handler, err := buildHandler(cfg, nil)
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/templates/v1-served-from-disk", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/templates/v1-saas-modern-light", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected embedded template to be absent, got %d", rec.Code)
	}
}

func TestHandlerManifestDirFeedsComposer(t *testing.T) {
	catalogDir := t.TempDir()
	record := `templates:
  - templateId: v1-disk-assets
    version: v1
    category: saas
    theme: modern-light
    metadata: {name: Disk assets}
    assets:
      primary: {hero: disk-hero}
      fallback: {hero: /placeholders/saas/hero.svg}
    sections:
      - type: Hero
        props: {headline: Disk assets, asset: hero}
`
	if err := os.WriteFile(filepath.Join(catalogDir, "catalog.yaml"), []byte(record), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	manifestDir := t.TempDir()
	manifest := `{"images": [{"id": "disk-hero", "category": "saas", "alt": "Hero from disk", "path": "/media/disk-hero.jpg"}]}`
	if err := os.WriteFile(filepath.Join(manifestDir, "stock.json"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	cfg := defaultConfig()
	cfg.CatalogDir = catalogDir
	cfg.ManifestDir = manifestDir

	handler, err := buildHandler(cfg, nil)
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/compose", strings.NewReader(`{"templateId":"v1-disk-assets"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `src=\"/media/disk-hero.jpg\"`) || !strings.Contains(body, "Hero from disk") {
		t.Fatalf("expected hero resolved through the manifest dir, got %s", body)
	}
	if !strings.Contains(body, `data-asset-provenance=\"primary\"`) {
		t.Fatalf("expected primary provenance, got %s", body)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/stock-images?q=disk", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "disk-hero") {
		t.Fatalf("expected stock search over the manifest dir, got %d %s", rec.Code, rec.Body.String())
	}
}
