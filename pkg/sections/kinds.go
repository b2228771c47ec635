package sections

import (
	"strings"

	"github.com/goliatone/go-pagegen/pkg/spec"
)

// Kind is a section type tag.
type Kind string

const (
	Hero         Kind = "Hero"
	LogoStrip    Kind = "LogoStrip"
	ServiceList  Kind = "ServiceList"
	Testimonials Kind = "Testimonials"
	FinalCTA     Kind = "FinalCTA"
)

type kindInfo struct {
	template string
	class    string
	// listKey names the prop holding repeated items, if any.
	listKey string
}

var kindTable = map[Kind]kindInfo{
	Hero:         {template: "hero", class: "v1-hero"},
	LogoStrip:    {template: "logo_strip", class: "v1-logo-strip", listKey: "logos"},
	ServiceList:  {template: "service_list", class: "v1-service-list", listKey: "items"},
	Testimonials: {template: "testimonials", class: "v1-testimonials", listKey: "items"},
	FinalCTA:     {template: "final_cta", class: "v1-final-cta"},
}

// Kinds lists every supported kind in a stable order.
func Kinds() []Kind {
	return []Kind{Hero, LogoStrip, ServiceList, Testimonials, FinalCTA}
}

// ParseKind maps a section type tag onto a Kind.
func ParseKind(value string) (Kind, error) {
	kind := Kind(strings.TrimSpace(value))
	if _, ok := kindTable[kind]; !ok {
		return "", spec.Errorf(spec.UnknownSectionType, "", "", "unknown section type %q", value)
	}
	return kind, nil
}

// Known reports whether value is a supported section type.
func Known(value string) bool {
	_, err := ParseKind(value)
	return err == nil
}

// Class returns the CSS class that scopes the kind's markup and stylesheet.
func (k Kind) Class() string {
	return kindTable[k].class
}

func (k Kind) String() string {
	return string(k)
}
