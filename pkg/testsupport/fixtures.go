package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-pagegen/pkg/spec"
)

// MustLoadSpec reads a YAML or JSON template fixture from disk.
func MustLoadSpec(t *testing.T, path string) spec.TemplateSpec {
	t.Helper()

	record, err := LoadSpec(path)
	if err != nil {
		t.Fatalf("load spec: %v", err)
	}
	return record
}

// LoadSpec reads a fixture without requiring testing.T so setup functions can
// share it.
func LoadSpec(path string) (spec.TemplateSpec, error) {
	if path == "" {
		return spec.TemplateSpec{}, errors.New("testsupport: spec path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return spec.TemplateSpec{}, fmt.Errorf("testsupport: read spec: %w", err)
	}
	return ParseSpec(data)
}

// ParseSpec decodes fixture bytes. JSON is attempted first, then YAML.
func ParseSpec(data []byte) (spec.TemplateSpec, error) {
	var record spec.TemplateSpec
	if err := json.Unmarshal(data, &record); err == nil {
		return record, nil
	}
	if err := yaml.Unmarshal(data, &record); err != nil {
		return spec.TemplateSpec{}, fmt.Errorf("testsupport: decode spec: %w", err)
	}
	return record, nil
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create golden dir: %v", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a human readable diff between two values.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden loads a golden file as bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
