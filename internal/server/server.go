// Package server provides the HTTP API for the Shirabe search engine.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hyperjump/shirabe/internal/analytics"
	"github.com/hyperjump/shirabe/internal/autocomplete"
	"github.com/hyperjump/shirabe/internal/config"
	"github.com/hyperjump/shirabe/internal/index"
	"github.com/hyperjump/shirabe/internal/models"
	"github.com/hyperjump/shirabe/internal/search"
)

// Server is the HTTP server for the Shirabe API.
type Server struct {
	store     *index.Store
	engine    *search.Engine
	complete  *autocomplete.Engine
	analytics *analytics.Recorder
	config    *config.ServerConfig
	logger    *zap.Logger
	server    *http.Server
}

// NewServer creates a server with the given dependencies and hooks the
// metrics gauges into the engine's change notifications.
func NewServer(
	store *index.Store,
	engine *search.Engine,
	complete *autocomplete.Engine,
	recorder *analytics.Recorder,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	s := &Server{
		store:     store,
		engine:    engine,
		complete:  complete,
		analytics: recorder,
		config:    cfg,
		logger:    logger,
	}
	store.Subscribe(func(index.ChangeEvent) {
		indexSize.Set(float64(store.Size()))
	})
	recorder.Subscribe(func(models.AnalyticsEvent) {
		analyticsEventsTotal.Inc()
	})
	return s
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/search", s.handleSearch)
	r.Get("/api/v1/search/semantic", s.handleSemanticSearch)
	r.Get("/api/v1/autocomplete", s.handleAutocomplete)

	r.Post("/api/v1/items", s.handleAddItem)
	r.Patch("/api/v1/items/{id}", s.handleUpdateItem)
	r.Get("/api/v1/items/{id}", s.handleGetItem)
	r.Delete("/api/v1/items/{id}", s.handleDeleteItem)
	r.Delete("/api/v1/items", s.handleClearIndex)

	r.Post("/api/v1/analytics/events", s.handleTrackEvent)
	r.Get("/api/v1/analytics/events", s.handleListEvents)
	r.Get("/api/v1/analytics/popular", s.handlePopularQueries)

	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router(),
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
