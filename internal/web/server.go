// Package web provides the HTTP server and web UI for the song popularity predictor.
package web

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// DefaultAddr is the default server address.
const DefaultAddr = "127.0.0.1:8080"

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr        string
	Predictor   Predictor
	TemplatesFS fs.FS
	StaticFS    fs.FS
	Logger      zerolog.Logger

	// RateLimitRequests per RateLimitWindow per client IP on prediction
	// routes. Zero disables rate limiting.
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// Server is the HTTP server for the web application.
type Server struct {
	router    chi.Router
	server    *http.Server
	templates *Templates
	handlers  *Handlers
	logger    zerolog.Logger
}

// NewServer creates a new web server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Predictor == nil {
		return nil, errors.New("predictor is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	// Create template manager
	templates, err := NewTemplates(cfg.TemplatesFS)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	handlers := NewHandlers(cfg.Predictor, templates)

	router := chi.NewRouter()

	s := &Server{
		router:    router,
		templates: templates,
		handlers:  handlers,
		logger:    cfg.Logger,
	}

	s.setupMiddleware()
	s.setupRoutes(cfg)

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures routes for the application.
func (s *Server) setupRoutes(cfg ServerConfig) {
	// Static files
	if cfg.StaticFS != nil {
		fileServer := http.FileServer(http.FS(cfg.StaticFS))
		s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))
	}

	// Pages
	s.router.Get("/", s.handlers.Home)

	// Prediction routes hit the catalog, so they are rate limited.
	s.router.Group(func(r chi.Router) {
		if cfg.RateLimitRequests > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimitRequests, cfg.RateLimitWindow))
		}
		r.Post("/predict", s.handlers.Predict)
		r.Get("/api/predict", s.handlers.APIPredict)
	})

	s.router.Get("/healthz", s.handlers.Health)
	s.router.Handle("/metrics", promhttp.Handler())
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msgf("Starting server at http://%s", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and handles graceful shutdown on interrupt signals.
func (s *Server) Run() error {
	// Channel to receive shutdown signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt or error
	select {
	case err := <-errCh:
		return err
	case <-stop:
		s.logger.Info().Msg("Shutting down server...")
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info().Msg("Server stopped")
	return nil
}
