package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-pagegen/internal/logging"
	"github.com/goliatone/go-pagegen/pkg/assets"
	"github.com/goliatone/go-pagegen/pkg/catalog"
	"github.com/goliatone/go-pagegen/pkg/composer"
	"github.com/goliatone/go-pagegen/pkg/interfaces"
	"github.com/goliatone/go-pagegen/pkg/override"
	"github.com/goliatone/go-pagegen/pkg/spec"
)

// DefaultMaxBodyBytes caps compose request bodies.
const DefaultMaxBodyBytes int64 = 1 << 20

const (
	pathCompose     = "/api/v1/compose"
	pathTemplates   = "/api/v1/templates"
	pathTemplate    = "/api/v1/templates/{id}"
	pathStockImages = "/api/v1/stock-images"
)

// Composer renders pages.
type Composer interface {
	Compose(ctx context.Context, req composer.Request) (composer.Result, error)
}

// Catalog lists and looks up templates.
type Catalog interface {
	IDs() []string
	Lookup(id string) (spec.TemplateSpec, error)
}

// ImageSearcher filters the stock image manifest.
type ImageSearcher interface {
	Search(query, category string, limit int) []assets.Image
}

// Option configures a Handler.
type Option func(*Handler)

// WithComposer replaces the default composer.
func WithComposer(c Composer) Option {
	return func(h *Handler) {
		h.composer = c
	}
}

// WithCatalog sets the catalog used by the template routes. When no composer
// is supplied the default composer is built over the same catalog.
func WithCatalog(c Catalog) Option {
	return func(h *Handler) {
		h.catalog = c
	}
}

// WithImageSearcher replaces the embedded stock manifest.
func WithImageSearcher(s ImageSearcher) Option {
	return func(h *Handler) {
		h.images = s
	}
}

// WithManifest serves stock image search from m and, when no composer is
// supplied, resolves primary assets against it.
func WithManifest(m *assets.Manifest) Option {
	return func(h *Handler) {
		h.manifest = m
	}
}

// WithLogger sets the handler logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithLoggerProvider derives the handler logger from provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(h *Handler) {
		h.logger = logging.ModuleLogger(provider, "api")
	}
}

// WithMaxBodyBytes overrides DefaultMaxBodyBytes.
func WithMaxBodyBytes(limit int64) Option {
	return func(h *Handler) {
		if limit > 0 {
			h.maxBody = limit
		}
	}
}

// Handler serves the JSON routes.
type Handler struct {
	composer  Composer
	catalog   Catalog
	images    ImageSearcher
	manifest  *assets.Manifest
	logger    interfaces.Logger
	maxBody   int64
	validator *requestValidator
	mux       *http.ServeMux
}

// New builds a Handler, falling back to the embedded catalog, stock manifest
// and a default composer.
func New(opts ...Option) (*Handler, error) {
	h := &Handler{maxBody: DefaultMaxBodyBytes}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	if h.logger == nil {
		h.logger = logging.NoOp()
	}

	if h.catalog == nil {
		registry, err := catalog.Default()
		if err != nil {
			return nil, fmt.Errorf("api: catalog: %w", err)
		}
		h.catalog = registry
	}
	if h.composer == nil {
		options := []composer.Option{
			composer.WithRegistry(h.catalog),
			composer.WithLogger(h.logger),
		}
		if h.manifest != nil {
			options = append(options, composer.WithAssetResolver(assets.NewResolver(assets.WithManifest(h.manifest))))
		}
		h.composer = composer.New(options...)
	}
	if h.images == nil && h.manifest != nil {
		h.images = h.manifest
	}
	if h.images == nil {
		manifest, err := assets.DefaultManifest()
		if err != nil {
			return nil, fmt.Errorf("api: stock manifest: %w", err)
		}
		h.images = manifest
	}

	doc, err := Document()
	if err != nil {
		return nil, err
	}
	h.validator = newRequestValidator(doc)

	h.mux = http.NewServeMux()
	h.Register(h.mux)
	return h, nil
}

// Register mounts the routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST "+pathCompose, h.handleCompose)
	mux.HandleFunc("GET "+pathTemplates, h.handleTemplates)
	mux.HandleFunc("GET "+pathTemplate, h.handleTemplate)
	mux.HandleFunc("GET "+pathStockImages, h.handleStockImages)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

type composeRequest struct {
	TemplateID string          `json:"templateId"`
	Overrides  json.RawMessage `json:"overrides,omitempty"`
}

func (r composeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.TemplateID, validation.Required, validation.Length(1, 128)),
	)
}

type composeResponse struct {
	HTML    string    `json:"html"`
	Preview string    `json:"preview"`
	CSS     string    `json:"css"`
	V1      composeV1 `json:"v1"`
}

type composeV1 struct {
	TemplateID   string          `json:"templateId"`
	Overrides    json.RawMessage `json:"overrides,omitempty"`
	SectionTypes []string        `json:"sectionTypes"`
	Fingerprint  string          `json:"fingerprint,omitempty"`
	Issues       []string        `json:"issues,omitempty"`
}

func (h *Handler) handleCompose(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	if err := h.validator.validate(r, pathCompose, nil); err != nil {
		h.fail(w, r, badRequest(err, "request does not match the compose schema"))
		return
	}

	var req composeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.fail(w, r, badRequest(err, "malformed request body"))
		return
	}
	req.TemplateID = strings.TrimSpace(req.TemplateID)
	if err := req.Validate(); err != nil {
		h.fail(w, r, badRequest(err, "invalid compose request"))
		return
	}

	payload, err := override.ParsePayload(req.Overrides)
	if err != nil {
		h.fail(w, r, classify(spec.WithTemplate(err, req.TemplateID)))
		return
	}

	result, err := h.composer.Compose(r.Context(), composer.Request{
		TemplateID: req.TemplateID,
		Overrides:  payload,
	})
	if err != nil {
		h.fail(w, r, classify(err))
		return
	}

	resp := composeResponse{
		HTML:    result.HTML,
		Preview: result.HTML,
		V1: composeV1{
			TemplateID:   result.TemplateID,
			SectionTypes: result.SectionTypes,
			Fingerprint:  result.Fingerprint,
		},
	}
	if payload != nil {
		resp.V1.Overrides = req.Overrides
	}
	for _, issue := range result.Issues {
		resp.V1.Issues = append(resp.V1.Issues, issue.String())
	}
	h.writeJSON(w, http.StatusOK, resp)
}

type templateSummary struct {
	TemplateID   string   `json:"templateId"`
	Category     string   `json:"category"`
	Goal         string   `json:"goal,omitempty"`
	Theme        string   `json:"theme"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	SectionTypes []string `json:"sectionTypes"`
}

func (h *Handler) handleTemplates(w http.ResponseWriter, r *http.Request) {
	if err := h.validator.validate(r, pathTemplates, nil); err != nil {
		h.fail(w, r, badRequest(err, "invalid request"))
		return
	}

	ids := h.catalog.IDs()
	out := make([]templateSummary, 0, len(ids))
	for _, id := range ids {
		record, err := h.catalog.Lookup(id)
		if err != nil {
			h.fail(w, r, classify(err))
			return
		}
		out = append(out, templateSummary{
			TemplateID:   record.TemplateID,
			Category:     record.Category,
			Goal:         record.Goal,
			Theme:        record.Theme,
			Name:         record.Metadata.Name,
			Description:  record.Metadata.Description,
			Tags:         record.Metadata.Tags,
			SectionTypes: record.SectionTypes(),
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleTemplate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.validator.validate(r, pathTemplate, map[string]string{"id": id}); err != nil {
		h.fail(w, r, badRequest(err, "invalid template id"))
		return
	}

	record, err := h.catalog.Lookup(id)
	if err != nil {
		h.fail(w, r, classify(err))
		return
	}
	h.writeJSON(w, http.StatusOK, record)
}

func (h *Handler) handleStockImages(w http.ResponseWriter, r *http.Request) {
	if err := h.validator.validate(r, pathStockImages, nil); err != nil {
		h.fail(w, r, badRequest(err, "invalid stock image query"))
		return
	}

	query := r.URL.Query()
	limit := 0
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.fail(w, r, badRequest(err, "invalid limit"))
			return
		}
		limit = parsed
	}
	h.writeJSON(w, http.StatusOK, h.images.Search(query.Get("q"), query.Get("category"), limit))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	} else {
		h.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	h.writeJSON(w, status, envelope(err, status))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(value); err != nil {
		h.logger.Warn("write response failed", "error", err)
	}
}
