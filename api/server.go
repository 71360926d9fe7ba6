package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"forecast-service/datasource"
	"forecast-service/forecast"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ForecastService produces a forecast outcome for a free-text location
type ForecastService interface {
	GetForecast(ctx context.Context, location string) forecast.Result
}

// Server represents the API server
type Server struct {
	service     ForecastService
	defaultCity string
	logger      zerolog.Logger
	router      chi.Router
	server      *http.Server
}

// NewServer creates a new API server
func NewServer(service ForecastService, defaultCity string, port int, logger zerolog.Logger) *Server {
	r := chi.NewRouter()

	s := &Server{
		service:     service,
		defaultCity: defaultCity,
		logger:      logger,
		router:      r,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}

	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	// a browser UI served from another origin calls the API
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
	}))

	r.Get("/weatherforecast", s.handleGetDefaultForecast)
	r.Get("/weatherforecast/", s.handleGetDefaultForecast)
	r.Get("/weatherforecast/{location}", s.handleGetForecastByLocation)

	// Health check
	r.Get("/api/health", s.handleHealthCheck)

	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins the API server
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("Starting API server")
	return s.server.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleGetDefaultForecast(w http.ResponseWriter, r *http.Request) {
	s.writeForecast(w, r, s.defaultCity)
}

func (s *Server) handleGetForecastByLocation(w http.ResponseWriter, r *http.Request) {
	location := chi.URLParam(r, "location")
	if unescaped, err := url.PathUnescape(location); err == nil {
		location = unescaped
	}
	if location == "" {
		location = s.defaultCity
	}
	s.writeForecast(w, r, location)
}

func (s *Server) writeForecast(w http.ResponseWriter, r *http.Request, location string) {
	res := s.service.GetForecast(r.Context(), location)

	switch res.Status {
	case forecast.StatusSuccess:
		writeJSON(w, r, http.StatusOK, newForecastResponse(res))
	case forecast.StatusNotFound:
		writeJSON(w, r, http.StatusNotFound, ForecastResponse{
			Error: fmt.Sprintf("No forecast found for location: %s", res.Query),
		})
	default:
		if res.Err != nil && res.Err.Kind == datasource.KindCanceled {
			zerolog.Ctx(r.Context()).Info().Str("location", location).Msg("client went away before forecast completed")
			return
		}
		status := http.StatusBadGateway
		if res.Err != nil && res.Err.Kind == datasource.KindTimeout {
			status = http.StatusGatewayTimeout
		}
		msg := "weather provider request failed"
		if res.Err != nil {
			msg = errorMessage(res.Err)
		}
		writeJSON(w, r, status, ForecastResponse{Error: msg})
	}
}

// handleHealthCheck provides a simple health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

// requestLogger tags each request with an ID and a request-scoped logger
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		logger := s.logger.With().Str("request_id", requestID).Logger()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context())))

		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
