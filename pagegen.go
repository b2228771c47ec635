package pagegen

import (
	"context"
	"sync"

	"github.com/goliatone/go-pagegen/pkg/catalog"
	"github.com/goliatone/go-pagegen/pkg/composer"
	"github.com/goliatone/go-pagegen/pkg/override"
)

// Result aliases composer.Result so callers only import the root package for
// the common path.
type Result = composer.Result

// Payload is the override document accepted by Compose.
type Payload = override.Payload

// Option configures the composer built by New or Compose.
type Option = composer.Option

// New exposes the composer constructor from the top-level module.
func New(options ...Option) *composer.Composer {
	return composer.New(options...)
}

var defaultComposer = sync.OnceValue(func() *composer.Composer {
	return composer.New()
})

// Compose renders templateID with optional overrides into a self-contained
// HTML document. Calls without options share one composer built over the
// embedded catalog.
func Compose(ctx context.Context, templateID string, overrides *Payload, options ...Option) (Result, error) {
	c := defaultComposer()
	if len(options) > 0 {
		c = composer.New(options...)
	}
	return c.Compose(ctx, composer.Request{TemplateID: templateID, Overrides: overrides})
}

// TemplateIDs lists the embedded catalog in catalog order.
func TemplateIDs() ([]string, error) {
	registry, err := catalog.Default()
	if err != nil {
		return nil, err
	}
	return registry.IDs(), nil
}

// ParseOverrides decodes a JSON or JSONC override document.
func ParseOverrides(raw []byte) (*Payload, error) {
	return override.ParsePayload(raw)
}

// WithRegistry forwards a custom catalog to the composer.
func WithRegistry(registry composer.Registry) Option {
	return composer.WithRegistry(registry)
}

// WithLenientOverrides forwards the lenient merge switch to the composer.
func WithLenientOverrides(lenient bool) Option {
	return composer.WithLenientOverrides(lenient)
}
