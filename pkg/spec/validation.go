package spec

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	templateIDPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	categoryPattern   = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Validate checks the structural rules every catalog record must satisfy.
// Section types are not checked here; the catalog loader consults the
// section renderer set for that.
func (s TemplateSpec) Validate() error {
	err := validation.ValidateStruct(&s,
		validation.Field(&s.TemplateID, validation.Required, validation.Match(templateIDPattern)),
		validation.Field(&s.Version, validation.Required, validation.In(Version).Error("unsupported version, expected "+Version)),
		validation.Field(&s.Category, validation.Required, validation.Match(categoryPattern)),
		validation.Field(&s.Theme, validation.Required),
		validation.Field(&s.Sections, validation.Required),
		validation.Field(&s.Assets, validation.By(s.fallbackNamespaceRule)),
		validation.Field(&s.Metadata),
	)
	if err != nil {
		return Wrap(CatalogInvalid, s.TemplateID, "", err)
	}
	return nil
}

// Validate implements validation.Validatable so section slices are checked
// element by element.
func (s Section) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Type, validation.Required),
	)
}

// Validate implements validation.Validatable.
func (m Metadata) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Name, validation.Required),
	)
}

func (s TemplateSpec) fallbackNamespaceRule(value any) error {
	assets, ok := value.(Assets)
	if !ok {
		return nil
	}
	prefix := FallbackPrefix(s.Category)

	names := make([]string, 0, len(assets.Fallback))
	for name := range assets.Fallback {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := strings.TrimSpace(assets.Fallback[name])
		if path == "" {
			continue
		}
		if !strings.HasPrefix(path, prefix) {
			return validation.NewError(
				"spec_fallback_namespace",
				fmt.Sprintf("fallback %q must live under %s, got %q", name, prefix, path),
			)
		}
	}
	return nil
}
