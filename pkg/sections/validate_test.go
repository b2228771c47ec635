package sections_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-pagegen/pkg/sections"
	"github.com/goliatone/go-pagegen/pkg/spec"
)

func TestCheckSection(t *testing.T) {
	tests := []struct {
		name    string
		section spec.Section
		kind    spec.Kind
		path    string
	}{
		{
			name:    "valid hero",
			section: spec.Section{Type: "Hero", Props: map[string]any{"headline": "x"}},
		},
		{
			name:    "unknown type",
			section: spec.Section{Type: "Carousel"},
			kind:    spec.UnknownSectionType,
			path:    "sections[3].type",
		},
		{
			name:    "hero without headline",
			section: spec.Section{Type: "Hero"},
			kind:    spec.CatalogInvalid,
			path:    "sections[3].props.headline",
		},
		{
			name: "service item without title",
			section: spec.Section{Type: "ServiceList", Props: map[string]any{
				"items": []any{map[string]any{"title": "ok"}, map[string]any{"description": "no title"}},
			}},
			kind: spec.CatalogInvalid,
			path: "sections[3].props.items[1].title",
		},
		{
			name: "testimonial without author",
			section: spec.Section{Type: "Testimonials", Props: map[string]any{
				"items": []any{map[string]any{"quote": "hi"}},
			}},
			kind: spec.CatalogInvalid,
			path: "sections[3].props.items[0].author",
		},
		{
			name:    "cta without label",
			section: spec.Section{Type: "FinalCTA", Props: map[string]any{"headline": "x"}},
			kind:    spec.CatalogInvalid,
			path:    "sections[3].props.cta.label",
		},
		{
			name:    "logo strip with asset list",
			section: spec.Section{Type: "LogoStrip", Props: map[string]any{"assets": []any{"logo1"}}},
		},
		{
			name:    "empty logo strip",
			section: spec.Section{Type: "LogoStrip"},
			kind:    spec.CatalogInvalid,
			path:    "sections[3].props.logos",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sections.CheckSection(3, tt.section)
			if tt.kind == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
			if !strings.Contains(err.Error(), tt.path) {
				t.Fatalf("expected path %q in %v", tt.path, err)
			}
		})
	}
}
