package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzhttp"

	pagegen "github.com/goliatone/go-pagegen"
	"github.com/goliatone/go-pagegen/internal/logging"
	"github.com/goliatone/go-pagegen/internal/logging/gologger"
	"github.com/goliatone/go-pagegen/pkg/api"
	"github.com/goliatone/go-pagegen/pkg/assets"
	"github.com/goliatone/go-pagegen/pkg/interfaces"
)

const requestIDHeader = "X-Request-ID"

type server struct {
	cfg     config
	logger  interfaces.Logger
	handler http.Handler
}

func newServer(cfg config) (*server, error) {
	provider, err := gologger.NewProvider(gologger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	if err != nil {
		return nil, err
	}

	handler, err := buildHandler(cfg, provider)
	if err != nil {
		return nil, err
	}
	return &server{
		cfg:     cfg,
		logger:  logging.ModuleLogger(provider, "server"),
		handler: handler,
	}, nil
}

// buildHandler wires the API, the placeholder files and the middleware chain.
func buildHandler(cfg config, provider interfaces.LoggerProvider) (http.Handler, error) {
	options := []api.Option{
		api.WithLoggerProvider(provider),
		api.WithMaxBodyBytes(cfg.MaxBodyBytes),
	}

	if dir := strings.TrimSpace(cfg.CatalogDir); dir != "" {
		registry, err := pagegen.LoadCatalog(os.DirFS(dir))
		if err != nil {
			return nil, fmt.Errorf("load catalog %s: %w", dir, err)
		}
		options = append(options, api.WithCatalog(registry))
	}

	if dir := strings.TrimSpace(cfg.ManifestDir); dir != "" {
		manifest, err := assets.ManifestFromDir(dir, os.DirFS(dir))
		if err != nil {
			return nil, fmt.Errorf("load manifest %s: %w", dir, err)
		}
		options = append(options, api.WithManifest(manifest))
	}

	apiHandler, err := api.New(options...)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("GET /placeholders/", http.StripPrefix("/placeholders/", http.FileServerFS(pagegen.PlaceholdersFS())))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})

	logger := logging.ModuleLogger(provider, "http")
	return gzhttp.GzipHandler(withRequestID(logger, mux)), nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func withRequestID(logger interfaces.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.Info("request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(started),
		)
	})
}

func (s *server) run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", s.cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
