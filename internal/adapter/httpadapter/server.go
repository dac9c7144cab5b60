// Package httpadapter serves the lookup API over HTTP, along with health,
// readiness and Prometheus endpoints.
package httpadapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/weather-lookup/internal/app"
	"github.com/couchcryptid/weather-lookup/internal/observability"
)

// SessionHeader carries the client's typeahead session id.
const SessionHeader = "X-Session-ID"

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

// Server exposes the lookup API plus /healthz, /readyz and /metrics.
type Server struct {
	httpServer *http.Server
	svc        *app.Service
	sessions   *sessions
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with all routes registered.
func NewServer(addr string, svc *app.Service, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		svc:      svc,
		sessions: newSessions(svc.NewSession, sessionTTL, metrics),
		metrics:  metrics,
		logger:   logger,
	}

	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/postal-code", s.handlePostalCode)
	mux.HandleFunc("POST /api/select", s.handleSelect)
	mux.HandleFunc("GET /api/forecast", s.handleForecast)
	mux.HandleFunc("GET /api/links", s.handleLinks)
	mux.HandleFunc("GET /api/yahoo-link", s.handleYahooLink)
	mux.HandleFunc("GET /api/favorites", s.handleFavorites)
	mux.HandleFunc("POST /api/favorites/toggle", s.handleToggleFavorite)
	mux.HandleFunc("POST /api/favorites/remove", s.handleRemoveFavorite)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(svc))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline,
// then cancels any search sessions still in flight.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.sessions.closeAll()
	return err
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client went away
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
