// Package server provides the HTTP API server functionality.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/aristath/tnuos/internal/config"
	"github.com/aristath/tnuos/internal/metrics"
	"github.com/aristath/tnuos/internal/modules/costing"
	"github.com/aristath/tnuos/internal/modules/forecast"
	"github.com/aristath/tnuos/internal/modules/opportunities"
	"github.com/aristath/tnuos/internal/modules/portfolio"
	"github.com/aristath/tnuos/internal/modules/rates"
	"github.com/aristath/tnuos/internal/modules/reports"
)

// Config carries the server's dependencies.
type Config struct {
	Log        zerolog.Logger
	Config     *config.Config
	Rates      *rates.Repository
	Calculator *costing.Calculator
	Analyzer   *opportunities.Analyzer
	Forecaster *forecast.Forecaster
	Reports    *reports.Generator
}

// Server represents the HTTP server. It holds no portfolio state: every
// request carries the sites it wants evaluated.
type Server struct {
	router     *chi.Mux
	server     *http.Server
	log        zerolog.Logger
	cfg        *config.Config
	rates      *rates.Repository
	calc       *costing.Calculator
	analyzer   *opportunities.Analyzer
	forecaster *forecast.Forecaster
	reports    *reports.Generator
	loader     *portfolio.Loader
	startedAt  time.Time
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		log:        cfg.Log.With().Str("component", "server").Logger(),
		cfg:        cfg.Config,
		rates:      cfg.Rates,
		calc:       cfg.Calculator,
		analyzer:   cfg.Analyzer,
		forecaster: cfg.Forecaster,
		reports:    cfg.Reports,
		loader:     portfolio.NewLoader(cfg.Log),
		startedAt:  time.Now(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Router returns the configured router, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// setupMiddleware configures the middleware stack
func (s *Server) setupMiddleware() {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Prometheus request metrics
	s.router.Use(s.metricsMiddleware)

	// Timeout
	s.router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.handleHealth)

	// Prometheus exposition
	s.router.Handle("/metrics", promhttp.Handler())

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		// System monitoring
		r.Get("/system/status", s.handleSystemStatus)

		// Reference data
		r.Get("/zones", s.handleZones)
		r.Get("/rates/years", s.handleRateYears)

		// Portfolio analytics
		r.Route("/portfolio", func(r chi.Router) {
			r.Post("/compute", s.handleCompute)
			r.Post("/opportunities", s.handleOpportunities)
			r.Post("/trend", s.handleTrend)
			r.Post("/risk", s.handleRisk)
			r.Post("/map", s.handleMap)
			r.Post("/sample", s.handleSample)
			r.Post("/upload", s.handleUpload)
			r.Get("/template", s.handleTemplate)
		})

		// What-if scenarios
		r.Route("/scenario", func(r chi.Router) {
			r.Post("/capacity", s.handleScenarioCapacity)
			r.Post("/flexibility", s.handleScenarioFlexibility)
			r.Post("/sensitivity", s.handleScenarioSensitivity)
		})

		// Single-site quick quote
		r.Post("/quote", s.handleQuote)

		// Rendered reports
		r.Route("/reports", func(r chi.Router) {
			r.Post("/pdf", s.handleReportPDF)
			r.Post("/xlsx", s.handleReportXLSX)
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("host", s.cfg.Host).Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs all HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

// metricsMiddleware records request counts, durations and error codes.
// Labels use the chi route pattern so path cardinality stays bounded.
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}

		metrics.RequestsTotal.WithLabelValues(path).Inc()
		metrics.RequestDurationSeconds.WithLabelValues(path).Observe(time.Since(start).Seconds())
		if ww.Status() >= http.StatusBadRequest {
			metrics.RequestErrorsTotal.WithLabelValues(path, strconv.Itoa(ww.Status())).Inc()
		}
	})
}
