// Package http exposes the forecast service over a JSON API, alongside
// health, readiness, and metrics endpoints.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/pu9052473/shoreline-project/internal/domain"
	"github.com/pu9052473/shoreline-project/internal/geomap"
	"github.com/pu9052473/shoreline-project/internal/prediction"
)

// Predictor runs predictions and exposes the active result. Its readiness
// check backs /readyz.
type Predictor interface {
	RunPrediction(ctx context.Context, modelID string) (domain.PredictionResult, error)
	State() prediction.State
	Active() (domain.PredictionResult, bool)
	Result(id string) (domain.PredictionResult, bool)
	CheckReadiness(ctx context.Context) error
}

// Server exposes the prediction API plus /healthz, /readyz, and /metrics.
type Server struct {
	httpServer *http.Server
	predictor  Predictor
	maps       *geomap.State
	logger     *slog.Logger
}

// NewServer creates an HTTP server. writeTimeout must exceed the backend
// timeout, since a prediction request holds its connection until it settles.
func NewServer(addr string, predictor Predictor, mapOpts geomap.Options, writeTimeout time.Duration, logger *slog.Logger) *Server {
	r := mux.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: writeTimeout,
			IdleTimeout:  60 * time.Second,
		},
		predictor: predictor,
		maps:      geomap.NewState(mapOpts),
		logger:    logger,
	}

	r.Use(s.logRequests)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.HandleFunc("/healthz", sharedobs.LivenessHandler()).Methods(http.MethodGet)
	r.HandleFunc("/readyz", sharedobs.ReadinessHandler(predictor)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/api/models", s.handleModels).Methods(http.MethodGet)
	r.HandleFunc("/api/predict/{modelId}", s.handlePredict).Methods(http.MethodPost)
	r.HandleFunc("/api/state", s.handleState).Methods(http.MethodGet)
	r.HandleFunc("/api/result", s.handleActiveResult).Methods(http.MethodGet)
	r.HandleFunc("/api/result/report.xlsx", s.handleReport).Methods(http.MethodGet)
	r.HandleFunc("/api/result/chart.png", s.handleChart).Methods(http.MethodGet)
	r.HandleFunc("/api/results/{id}", s.handleResultByID).Methods(http.MethodGet)
	r.HandleFunc("/api/map/filter", s.handleSetFilter).Methods(http.MethodPut)
	r.HandleFunc("/api/map/filter/reset", s.handleResetFilter).Methods(http.MethodPost)
	r.HandleFunc("/api/map.geojson", s.handleMapGeoJSON).Methods(http.MethodGet)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}
