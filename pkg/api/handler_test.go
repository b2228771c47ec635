package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-pagegen/pkg/api"
	"github.com/goliatone/go-pagegen/pkg/catalog"
	"github.com/goliatone/go-pagegen/pkg/composer"
	"github.com/goliatone/go-pagegen/pkg/spec"
)

type composeBody struct {
	HTML    string `json:"html"`
	Preview string `json:"preview"`
	CSS     string `json:"css"`
	V1      struct {
		TemplateID   string          `json:"templateId"`
		Overrides    json.RawMessage `json:"overrides"`
		SectionTypes []string        `json:"sectionTypes"`
		Fingerprint  string          `json:"fingerprint"`
	} `json:"v1"`
}

type errorBody struct {
	Error struct {
		Code     string `json:"code"`
		Category string `json:"category"`
		Message  string `json:"message"`
	} `json:"error"`
}

func newHandler(t *testing.T, opts ...api.Option) *api.Handler {
	t.Helper()
	h, err := api.New(opts...)
	require.NoError(t, err)
	return h
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestComposeReturnsInlinedDocument(t *testing.T) {
	h := newHandler(t)
	rec := do(t, h, http.MethodPost, "/api/v1/compose", `{"templateId":"v1-saas-modern-light"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	body := decode[composeBody](t, rec)
	assert.Contains(t, body.HTML, `class="v1-root"`)
	assert.Equal(t, body.HTML, body.Preview)
	assert.Empty(t, body.CSS)
	assert.Equal(t, "v1-saas-modern-light", body.V1.TemplateID)
	assert.Equal(t, []string{"Hero", "LogoStrip", "ServiceList", "Testimonials", "FinalCTA"}, body.V1.SectionTypes)
	assert.Empty(t, body.V1.Overrides)
	assert.Len(t, body.V1.Fingerprint, 64)
}

func TestComposeEchoesOverrides(t *testing.T) {
	h := newHandler(t)
	rec := do(t, h, http.MethodPost, "/api/v1/compose", `{
		"templateId": "v1-saas-modern-light",
		"overrides": {"sections": [{"index": 0, "props": {"headline": "Launch week"}}]}
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[composeBody](t, rec)
	assert.Contains(t, body.HTML, "Launch week")
	assert.JSONEq(t, `{"sections": [{"index": 0, "props": {"headline": "Launch week"}}]}`, string(body.V1.Overrides))
}

func TestComposeErrors(t *testing.T) {
	h := newHandler(t)

	cases := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"unknown template", `{"templateId":"v1-missing"}`, http.StatusNotFound, "TEMPLATE_NOT_FOUND"},
		{"override index out of range", `{"templateId":"v1-saas-modern-light","overrides":{"sections":[{"index":40,"props":{}}]}}`, http.StatusBadRequest, "INVALID_OVERRIDE"},
		{"undeclared asset", `{"templateId":"v1-saas-modern-light","overrides":{"assets":{"mascot":"x"}}}`, http.StatusBadRequest, "INVALID_OVERRIDE"},
		{"undeclared section asset", `{"templateId":"v1-saas-modern-light","overrides":{"sections":[{"index":0,"props":{"asset":"no-such-asset"}}]}}`, http.StatusBadRequest, "INVALID_OVERRIDE"},
		{"missing template id", `{}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"unknown field", `{"templateId":"v1-saas-modern-light","overrides":{"layout":"grid"}}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"malformed json", `{"templateId":`, http.StatusBadRequest, "INVALID_REQUEST"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/compose", tc.body)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())

			body := decode[errorBody](t, rec)
			assert.Equal(t, tc.code, body.Error.Code)
			assert.NotEmpty(t, body.Error.Category)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestComposeRequiresJSONContentType(t *testing.T) {
	h := newHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/compose", strings.NewReader(`{"templateId":"v1-saas-modern-light"}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type failingComposer struct {
	err error
}

func (f failingComposer) Compose(context.Context, composer.Request) (composer.Result, error) {
	return composer.Result{}, f.err
}

func TestComposeCatalogDefectIsServerError(t *testing.T) {
	h := newHandler(t, api.WithComposer(failingComposer{
		err: spec.Errorf(spec.UnknownSectionType, "v1-saas-modern-light", "sections[3].type", "unknown section type %q", "Carousel"),
	}))
	rec := do(t, h, http.MethodPost, "/api/v1/compose", `{"templateId":"v1-saas-modern-light"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decode[errorBody](t, rec)
	assert.Equal(t, "UNKNOWN_SECTION_TYPE", body.Error.Code)
	assert.NotContains(t, body.Error.Message, "Carousel")
}

func TestListTemplatesInCatalogOrder(t *testing.T) {
	h := newHandler(t)
	rec := do(t, h, http.MethodGet, "/api/v1/templates", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	registry, err := catalog.Default()
	require.NoError(t, err)

	summaries := decode[[]struct {
		TemplateID   string   `json:"templateId"`
		Name         string   `json:"name"`
		Theme        string   `json:"theme"`
		SectionTypes []string `json:"sectionTypes"`
	}](t, rec)

	var ids []string
	for _, summary := range summaries {
		ids = append(ids, summary.TemplateID)
		assert.NotEmpty(t, summary.Name)
		assert.NotEmpty(t, summary.Theme)
		assert.NotEmpty(t, summary.SectionTypes)
	}
	assert.Equal(t, registry.IDs(), ids)
}

func TestGetTemplate(t *testing.T) {
	h := newHandler(t)

	rec := do(t, h, http.MethodGet, "/api/v1/templates/v1-saas-modern-light", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	record := decode[spec.TemplateSpec](t, rec)
	assert.Equal(t, "v1-saas-modern-light", record.TemplateID)
	assert.NotEmpty(t, record.Form.Fields)

	rec = do(t, h, http.MethodGet, "/api/v1/templates/v1-missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/templates/Not_Valid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchStockImages(t *testing.T) {
	h := newHandler(t)

	rec := do(t, h, http.MethodGet, "/api/v1/stock-images?category=saas&q=logo&limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	images := decode[[]struct {
		ID       string `json:"id"`
		Category string `json:"category"`
	}](t, rec)
	require.Len(t, images, 2)
	for _, image := range images {
		assert.Equal(t, "saas", image.Category)
		assert.Contains(t, image.ID, "logo")
	}

	rec = do(t, h, http.MethodGet, "/api/v1/stock-images?q=nothing-matches-this", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/v1/stock-images?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDocumentIsValid(t *testing.T) {
	doc, err := api.Document()
	require.NoError(t, err)
	assert.NotNil(t, doc.Paths.Value("/api/v1/compose"))
	assert.NotEmpty(t, api.OpenAPISource())
}
