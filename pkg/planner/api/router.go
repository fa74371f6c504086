package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/tendant/content-planner/pkg/planner"
)

const defaultMaxBodyBytes = 1 << 20

// RouterConfig assembles the full HTTP surface
type RouterConfig struct {
	Service        planner.Service
	Authenticate   AuthenticationFunc
	Logger         *slog.Logger
	Metrics        *PrometheusMetrics // nil disables /metrics
	AllowedOrigins []string
	MaxBodyBytes   int64
	Timeout        time.Duration
}

// NewRouter returns the service router: /health and /metrics unauthenticated,
// everything else under /api/v1 behind Authenticate.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(logger))
	if cfg.Metrics != nil {
		r.Use(MetricsMiddleware(cfg.Metrics))
	}
	r.Use(RecoveryMiddleware(logger))
	r.Use(CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.Timeout(timeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]any{
			"status":     "healthy",
			"ai_enabled": cfg.Service.AIEnabled(),
		})
	})
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RequestSizeLimitMiddleware(maxBody))
		r.Use(AuthenticationMiddleware(cfg.Authenticate))
		r.Mount("/", NewHandler(cfg.Service, logger).Routes())
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "not_found", "Route not found")
	})

	return r
}
