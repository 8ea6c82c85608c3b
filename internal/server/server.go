// Package server provides the HTTP API for juris.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/juris/internal/config"
	"github.com/hyperjump/juris/internal/session"
	"github.com/hyperjump/juris/pkg/utils"
	"go.uber.org/zap"
)

// multipartOverhead is the body allowance above the upload ceiling for
// multipart boundaries and headers.
const multipartOverhead = 1 << 20

// Server is the HTTP server for the juris API.
type Server struct {
	sessions *session.Manager
	maxBytes int64
	config   *config.ServerConfig
	logger   *zap.Logger
	server   *http.Server
}

// NewServer creates a server. maxBytes is the upload ceiling used to bound
// request bodies; validation itself happens in the ingest pipeline.
func NewServer(sessions *session.Manager, maxBytes int64, cfg *config.ServerConfig, logger *zap.Logger) *Server {
	if maxBytes <= 0 {
		maxBytes = config.DefaultMaxBytes
	}
	return &Server{
		sessions: sessions,
		maxBytes: maxBytes,
		config:   cfg,
		logger:   utils.OrNop(logger),
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	timeout := 60 * time.Second
	if s.config != nil && s.config.RequestTimeoutSeconds > 0 {
		timeout = time.Duration(s.config.RequestTimeoutSeconds) * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.Compress(5))

	r.Route("/api/v1/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/document", s.handleUploadDocument)
			r.Delete("/document", s.handleRemoveDocument)
			r.Post("/messages", s.handleSubmitMessage)
		})
	})
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
