package api

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
)

//go:embed openapi.yaml
var openAPIDocument []byte

var loadDocument = sync.OnceValues(func() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openAPIDocument)
	if err != nil {
		return nil, fmt.Errorf("api: load openapi document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("api: validate openapi document: %w", err)
	}
	return doc, nil
})

// Document returns the parsed OpenAPI description of the routes.
func Document() (*openapi3.T, error) {
	return loadDocument()
}

// OpenAPISource returns the raw embedded document.
func OpenAPISource() []byte {
	out := make([]byte, len(openAPIDocument))
	copy(out, openAPIDocument)
	return out
}

type requestValidator struct {
	doc     *openapi3.T
	options *openapi3filter.Options
}

func newRequestValidator(doc *openapi3.T) *requestValidator {
	return &requestValidator{
		doc: doc,
		options: &openapi3filter.Options{
			AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		},
	}
}

// validate checks r against the operation registered for pattern, the
// templated path as written in the document.
func (v *requestValidator) validate(r *http.Request, pattern string, params map[string]string) error {
	item := v.doc.Paths.Value(pattern)
	if item == nil {
		return fmt.Errorf("api: no openapi path for %s", pattern)
	}
	operation := item.GetOperation(r.Method)
	if operation == nil {
		return fmt.Errorf("api: no openapi operation for %s %s", r.Method, pattern)
	}

	route := &routers.Route{
		Spec:      v.doc,
		Path:      pattern,
		PathItem:  item,
		Method:    r.Method,
		Operation: operation,
	}
	return openapi3filter.ValidateRequest(r.Context(), &openapi3filter.RequestValidationInput{
		Request:    r,
		PathParams: params,
		Route:      route,
		Options:    v.options,
	})
}
