// Package server implements the nodemap HTTP API.
//
// Routes:
//
//	POST   /api/v1/render                 render a definition in the request body
//	GET    /api/v1/diagrams               list stored diagrams
//	POST   /api/v1/diagrams               store a definition
//	GET    /api/v1/diagrams/{id}          fetch a stored definition
//	DELETE /api/v1/diagrams/{id}          delete a stored definition
//	GET    /api/v1/diagrams/{id}/{format} render a stored definition
//	GET    /healthz                       liveness
//	GET    /metrics                       Prometheus metrics
//
// Render endpoints take the pipeline options as query parameters: format,
// layout, prune, normalize, scale and refresh.
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/nodemap/pkg/pipeline"
	"github.com/matzehuels/nodemap/pkg/store"
)

// Defaults for [Config].
const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 1 << 20
	DefaultTimeout      = 60 * time.Second
)

// Config holds the server dependencies.
type Config struct {
	Addr   string
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger

	// Gatherer serves /metrics. Defaults to the Prometheus default registry.
	Gatherer prometheus.Gatherer

	// MaxBodyBytes bounds request bodies (default 1 MiB).
	MaxBodyBytes int64
	// Timeout bounds a single render (default 60s).
	Timeout time.Duration
}

// Server is the HTTP API server.
type Server struct {
	runner  *pipeline.Runner
	store   store.Store
	logger  *log.Logger
	maxBody int64
	timeout time.Duration

	handler http.Handler
	server  *http.Server
}

// New builds a server from cfg. Runner and Store are required.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	s := &Server{
		runner:  cfg.Runner,
		store:   cfg.Store,
		logger:  cfg.Logger,
		maxBody: cfg.MaxBodyBytes,
		timeout: cfg.Timeout,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.withObservability)

	r.Get("/healthz", handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Route("/diagrams", func(r chi.Router) {
			r.Get("/", s.handleListDiagrams)
			r.Post("/", s.handleCreateDiagram)
			r.Get("/{id}", s.handleGetDiagram)
			r.Delete("/{id}", s.handleDeleteDiagram)
			r.Get("/{id}/{format}", s.handleRenderDiagram)
		})
	})

	s.handler = r
	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Timeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.handler }

// Addr returns the listen address.
func (s *Server) Addr() string { return s.server.Addr }

// Start runs the HTTP server (blocking). It returns nil after [Server.Stop].
func (s *Server) Start() error {
	s.logger.Info("server starting", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("server stopping")
	return s.server.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
