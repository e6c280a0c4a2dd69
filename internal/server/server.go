// Package server provides the HTTP API for BuildBot.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/buildbot/internal/audit"
	"github.com/hyperjump/buildbot/internal/catalog"
	"github.com/hyperjump/buildbot/internal/config"
	"github.com/hyperjump/buildbot/internal/models"
	"github.com/hyperjump/buildbot/internal/search"
	"go.uber.org/zap"
)

// Advisor is the advisory engine surface the server depends on.
type Advisor interface {
	Suggest(ctx context.Context, req *models.BuildRequest) (*models.ValidatedBuild, error)
}

// Server is the HTTP server for the BuildBot API.
type Server struct {
	advisor Advisor
	catalog *catalog.Store
	index   *search.Index
	audit   audit.Store
	config  *config.Config
	logger  *zap.Logger
	server  *http.Server
}

// NewServer creates a server with the given dependencies. index and
// auditStore may be nil; the corresponding endpoints then report the feature
// as unavailable.
func NewServer(
	advisor Advisor,
	store *catalog.Store,
	index *search.Index,
	auditStore audit.Store,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		advisor: advisor,
		catalog: store,
		index:   index,
		audit:   auditStore,
		config:  cfg,
		logger:  logger,
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))
	r.Use(middleware.Compress(5))

	r.Route("/api/v1/buildbot", func(r chi.Router) {
		r.MethodNotAllowed(s.handleMethodNotAllowedPost)
		r.Post("/", s.handleAdvise)
	})
	r.Post("/api/v1/search", s.handleSearch)
	r.Get("/api/v1/parts", s.handlePartCounts)
	r.Get("/api/v1/parts/{category}", s.handlePartCategory)
	r.Get("/api/v1/parts/{category}/{id}", s.handlePart)
	r.Get("/health", s.handleHealth)
	r.Get("/status", s.handleStatus)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
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
