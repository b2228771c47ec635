package sections

import (
	"fmt"

	"github.com/goliatone/go-pagegen/pkg/spec"
)

// Validate checks the props a kind cannot render without. Paths in the
// returned error are relative to the section ("props.items[0].title").
func Validate(kind Kind, props map[string]any) error {
	switch kind {
	case Hero:
		return requireString(props, "headline", "props.headline")
	case LogoStrip:
		if len(propList(props, "logos")) == 0 && len(propStrings(props, "assets")) == 0 {
			return missing("props.logos", "logo strip needs logos or assets")
		}
		return nil
	case ServiceList:
		return requireItems(props, "items", "title")
	case Testimonials:
		return requireItems(props, "items", "quote", "author")
	case FinalCTA:
		if err := requireString(props, "headline", "props.headline"); err != nil {
			return err
		}
		if link(props, "cta") == nil {
			return missing("props.cta.label", "final call to action needs a cta label")
		}
		return nil
	default:
		return spec.Errorf(spec.UnknownSectionType, "", "type", "unknown section type %q", kind)
	}
}

// CheckSection validates one catalog section: its type must be known and its
// props complete.
func CheckSection(index int, section spec.Section) error {
	kind, err := ParseKind(section.Type)
	if err != nil {
		return spec.Errorf(spec.UnknownSectionType, "", spec.SectionPath(index, "type"), "unknown section type %q", section.Type)
	}
	if err := Validate(kind, section.Props); err != nil {
		if kindErr, ok := err.(*spec.Error); ok {
			kindErr.Path = spec.SectionPath(index, kindErr.Path)
		}
		return err
	}
	return nil
}

func requireString(props map[string]any, key, path string) error {
	if propString(props, key) == "" {
		return missing(path, key+" is required")
	}
	return nil
}

func requireItems(props map[string]any, listKey string, fields ...string) error {
	items := propList(props, listKey)
	if len(items) == 0 {
		return missing("props."+listKey, listKey+" must list at least one entry")
	}
	for idx, item := range items {
		for _, field := range fields {
			if propString(item, field) == "" {
				return missing(fmt.Sprintf("props.%s[%d].%s", listKey, idx, field), field+" is required")
			}
		}
	}
	return nil
}

func missing(path, message string) error {
	return spec.Errorf(spec.CatalogInvalid, "", path, "%s", message)
}
