// Package server exposes the dashboard over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/ringside/wrestling-pulse/internal/config"
	"github.com/ringside/wrestling-pulse/internal/models"
	"github.com/ringside/wrestling-pulse/internal/monitoring"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

const triggerTimeout = 10 * time.Minute

// DashboardService is what the API reads from and triggers
type DashboardService interface {
	Dashboard() (*models.Dashboard, bool)
	Analyze(timeframe string) (*models.Dashboard, error)
	Mentions(wrestler, timeframe string) ([]models.WrestlerMention, error)
	Refresh(ctx context.Context) (*models.Dashboard, error)
	GetMetrics() string
}

// RosterSearcher looks up tracked wrestlers
type RosterSearcher interface {
	Search(ctx context.Context, q string) ([]models.Wrestler, error)
}

// Server serves the dashboard API
type Server struct {
	server   *http.Server
	router   *mux.Router
	service  DashboardService
	roster   RosterSearcher
	triggers chan struct{}
}

// NewServer creates the HTTP server. roster may be nil.
func NewServer(cfg *config.Config, service DashboardService, roster RosterSearcher) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		service:  service,
		roster:   roster,
		triggers: make(chan struct{}, 1),
	}
	s.routes()

	handler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}).Handler(s.router)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/health", healthCheckHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/metrics", s.metricsHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/trigger", s.triggerHandler).Methods(http.MethodPost)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/dashboard", s.dashboardHandler(func(d *models.Dashboard) any { return d })).Methods(http.MethodGet)
	api.HandleFunc("/trends", s.dashboardHandler(func(d *models.Dashboard) any { return orEmpty(d.Trends) })).Methods(http.MethodGet)
	api.HandleFunc("/emerging", s.dashboardHandler(func(d *models.Dashboard) any { return orEmpty(d.Emerging) })).Methods(http.MethodGet)
	api.HandleFunc("/alerts", s.dashboardHandler(func(d *models.Dashboard) any { return orEmpty(d.Alerts) })).Methods(http.MethodGet)
	api.HandleFunc("/storylines", s.dashboardHandler(func(d *models.Dashboard) any { return orEmpty(d.Storylines) })).Methods(http.MethodGet)
	api.HandleFunc("/storylines/momentum", s.dashboardHandler(func(d *models.Dashboard) any { return orEmpty(d.StorylineMomentum) })).Methods(http.MethodGet)
	api.HandleFunc("/topics", s.dashboardHandler(func(d *models.Dashboard) any { return orEmpty(d.Topics) })).Methods(http.MethodGet)
	api.HandleFunc("/momentum", s.dashboardHandler(func(d *models.Dashboard) any { return orEmpty(d.Momentum) })).Methods(http.MethodGet)
	api.HandleFunc("/mentions", s.mentionsHandler).Methods(http.MethodGet)
	api.HandleFunc("/wrestlers", s.wrestlersHandler).Methods(http.MethodGet)
}

// Handler returns the root handler, CORS included
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	logrus.Infof("HTTP server starting on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) metricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(s.service.GetMetrics()))
}

// triggerHandler starts a refresh that bypasses the cached batch; a refresh
// already started from here is not queued twice
func (s *Server) triggerHandler(w http.ResponseWriter, r *http.Request) {
	select {
	case s.triggers <- struct{}{}:
	default:
		respondWithJSON(w, http.StatusConflict, map[string]string{"message": "Refresh already running"})
		return
	}

	go func() {
		defer func() { <-s.triggers }()

		ctx, cancel := context.WithTimeout(context.Background(), triggerTimeout)
		defer cancel()
		if _, err := s.service.Refresh(ctx); err != nil {
			logrus.Errorf("Manual refresh failed: %v", err)
		}
	}()

	respondWithJSON(w, http.StatusAccepted, map[string]string{"message": "Refresh triggered"})
}

// dashboardHandler serves one view of the dashboard for the timeframe query
// parameter, or of the latest run when it is absent
func (s *Server) dashboardHandler(view func(*models.Dashboard) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		timeframe := r.URL.Query().Get("timeframe")

		var (
			d   *models.Dashboard
			err error
		)
		if timeframe == "" {
			var ok bool
			if d, ok = s.service.Dashboard(); !ok {
				err = monitoring.ErrNotReady
			}
		} else {
			d, err = s.service.Analyze(timeframe)
		}

		switch {
		case errors.Is(err, monitoring.ErrNotReady):
			respondWithError(w, http.StatusServiceUnavailable, "Dashboard not ready yet", err)
		case err != nil:
			respondWithError(w, http.StatusBadRequest, err.Error(), err)
		default:
			respondWithJSON(w, http.StatusOK, view(d))
		}
	}
}

func (s *Server) mentionsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mentions, err := s.service.Mentions(q.Get("wrestler"), q.Get("timeframe"))
	switch {
	case errors.Is(err, monitoring.ErrNotReady):
		respondWithError(w, http.StatusServiceUnavailable, "Dashboard not ready yet", err)
	case err != nil:
		respondWithError(w, http.StatusBadRequest, err.Error(), err)
	default:
		respondWithJSON(w, http.StatusOK, orEmpty(mentions))
	}
}

func (s *Server) wrestlersHandler(w http.ResponseWriter, r *http.Request) {
	if s.roster == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Roster store not configured", nil)
		return
	}

	wrestlers, err := s.roster.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to search roster", err)
		return
	}
	respondWithJSON(w, http.StatusOK, orEmpty(wrestlers))
}

// orEmpty keeps empty lists encoding as [] rather than null
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	if err != nil && code >= 500 {
		logrus.Errorf("%s: %v", message, err)
	}
	respondWithJSON(w, code, map[string]string{"error": message})
}
