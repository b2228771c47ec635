package spec

import (
	"maps"
	"slices"
	"strings"

	"github.com/mohae/deepcopy"
)

// Version is the only schema version understood by the engine.
const Version = "v1"

// PlaceholderRoot is the static namespace fallback assets live under. Each
// template category owns its own sub-directory.
const PlaceholderRoot = "/placeholders"

// TemplateSpec describes one landing-page template as authored in the
// catalog. Registry entries are never mutated; callers that need to change a
// spec work on a Clone.
type TemplateSpec struct {
	TemplateID string            `json:"templateId" yaml:"templateId"`
	Version    string            `json:"version" yaml:"version"`
	Category   string            `json:"category" yaml:"category"`
	Goal       string            `json:"goal" yaml:"goal"`
	Theme      string            `json:"theme" yaml:"theme"`
	Sections   []Section         `json:"sections" yaml:"sections"`
	Assets     Assets            `json:"assets" yaml:"assets"`
	Form       Form              `json:"form" yaml:"form"`
	Metadata   Metadata          `json:"metadata" yaml:"metadata"`
	Tokens     map[string]string `json:"tokens,omitempty" yaml:"tokens,omitempty"`
}

// Section is one structural block of the page. Type selects the renderer,
// Props carries the content.
type Section struct {
	Type  string         `json:"type" yaml:"type"`
	Props map[string]any `json:"props,omitempty" yaml:"props,omitempty"`
}

// Assets maps logical asset names onto a primary (demo) identifier and a
// static fallback path.
type Assets struct {
	Primary  map[string]string `json:"primary,omitempty" yaml:"primary,omitempty"`
	Fallback map[string]string `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// Form holds the default lead-capture form metadata shown next to a
// template. The engine carries it through untouched.
type Form struct {
	Title       string      `json:"title,omitempty" yaml:"title,omitempty"`
	SubmitLabel string      `json:"submitLabel,omitempty" yaml:"submitLabel,omitempty"`
	Fields      []FormField `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// FormField describes a single input of the default form.
type FormField struct {
	Name        string `json:"name" yaml:"name"`
	Label       string `json:"label,omitempty" yaml:"label,omitempty"`
	Kind        string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
}

// Metadata is the human facing catalog entry.
type Metadata struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// SectionTypes returns the section type tags in document order.
func (s TemplateSpec) SectionTypes() []string {
	out := make([]string, len(s.Sections))
	for idx, section := range s.Sections {
		out[idx] = section.Type
	}
	return out
}

// FallbackPrefix returns the placeholder directory reserved for category.
func FallbackPrefix(category string) string {
	return PlaceholderRoot + "/" + strings.Trim(strings.TrimSpace(category), "/") + "/"
}

// Clone returns a deep copy so effective specs never alias registry data.
func (s TemplateSpec) Clone() TemplateSpec {
	out := s
	if s.Sections != nil {
		out.Sections = make([]Section, len(s.Sections))
		for idx, section := range s.Sections {
			out.Sections[idx] = Section{
				Type:  section.Type,
				Props: CloneProps(section.Props),
			}
		}
	}
	out.Assets = Assets{
		Primary:  cloneStringMap(s.Assets.Primary),
		Fallback: cloneStringMap(s.Assets.Fallback),
	}
	out.Form.Fields = slices.Clone(s.Form.Fields)
	out.Metadata.Tags = slices.Clone(s.Metadata.Tags)
	out.Tokens = cloneStringMap(s.Tokens)
	return out
}

// CloneProps deep-copies a property bag including nested maps and lists.
func CloneProps(props map[string]any) map[string]any {
	if props == nil {
		return nil
	}
	copied, ok := deepcopy.Copy(props).(map[string]any)
	if !ok {
		return maps.Clone(props)
	}
	return copied
}

func cloneStringMap(src map[string]string) map[string]string {
	if src == nil {
		return nil
	}
	return maps.Clone(src)
}
