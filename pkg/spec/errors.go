package spec

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies composition failures. A Kind is itself an error so callers
// can write errors.Is(err, spec.TemplateNotFound).
type Kind string

const (
	// TemplateNotFound reports an identifier absent from the registry.
	TemplateNotFound Kind = "TemplateNotFound"
	// UnknownSectionType reports a section type with no renderer.
	UnknownSectionType Kind = "UnknownSectionType"
	// InvalidOverrideShape reports an override that addresses missing
	// sections, assets or tokens, or that does not match the payload schema.
	InvalidOverrideShape Kind = "InvalidOverrideShape"
	// AssetResolutionFailure reports a logical asset with neither a primary
	// identifier nor a fallback path.
	AssetResolutionFailure Kind = "AssetResolutionFailure"
	// CatalogInvalid reports a catalog record that failed load-time checks.
	CatalogInvalid Kind = "CatalogInvalid"
)

func (k Kind) Error() string {
	return string(k)
}

// CallerError reports whether the kind is caused by caller input rather than
// an authoring defect in the catalog.
func (k Kind) CallerError() bool {
	return k == TemplateNotFound || k == InvalidOverrideShape
}

// Error carries the kind plus enough context (template, path) for callers to
// fix their input or for operators to locate the catalog defect.
type Error struct {
	Kind       Kind
	TemplateID string
	// Path locates the offending element, e.g. "sections[2].type" or
	// "assets.hero".
	Path    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("pagegen: ")
	b.WriteString(string(e.Kind))
	if msg := strings.TrimSpace(e.Message); msg != "" {
		b.WriteString(": ")
		b.WriteString(msg)
	}

	var context []string
	if e.TemplateID != "" {
		context = append(context, fmt.Sprintf("template %q", e.TemplateID))
	}
	if e.Path != "" {
		context = append(context, e.Path)
	}
	if len(context) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(context, ", "))
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches Kind targets so errors.Is works against the kind constants.
func (e *Error) Is(target error) bool {
	kind, ok := target.(Kind)
	return ok && e.Kind == kind
}

// Errorf builds a kind error with a formatted message.
func Errorf(kind Kind, templateID, path, format string, args ...any) *Error {
	return &Error{
		Kind:       kind,
		TemplateID: templateID,
		Path:       path,
		Message:    fmt.Sprintf(format, args...),
	}
}

// Wrap attaches a kind to an underlying cause.
func Wrap(kind Kind, templateID, path string, err error) *Error {
	return &Error{
		Kind:       kind,
		TemplateID: templateID,
		Path:       path,
		Err:        err,
	}
}

// KindOf extracts the kind from err, returning "" for foreign errors.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var kindErr *Error
	if errors.As(err, &kindErr) && kindErr != nil {
		return kindErr.Kind
	}
	var kind Kind
	if errors.As(err, &kind) {
		return kind
	}
	return ""
}

// WithTemplate fills in the template identifier on kind errors that were
// raised before the caller knew it. Other errors pass through untouched.
func WithTemplate(err error, templateID string) error {
	var kindErr *Error
	if errors.As(err, &kindErr) && kindErr != nil && kindErr.TemplateID == "" {
		kindErr.TemplateID = templateID
	}
	return err
}

// SectionPath formats the path of a section element.
func SectionPath(index int, rest ...string) string {
	path := fmt.Sprintf("sections[%d]", index)
	for _, part := range rest {
		if part = strings.TrimSpace(part); part != "" {
			path += "." + part
		}
	}
	return path
}
