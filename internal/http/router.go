package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rogerio-castellano/abc-console/internal/http/handlers"
	rl "github.com/rogerio-castellano/abc-console/internal/http/rate_limiter"
)

type RouterConfig struct {
	AllowedOrigins []string
	Visitors       *rl.Visitors
	Logger         *slog.Logger
}

// NewRouter builds the web mirror of the console.
func NewRouter(s *handlers.Server, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	if cfg.Visitors != nil {
		r.Use(RateLimitMiddleware(cfg.Visitors))
	}

	r.Get("/", s.PageHandler)
	r.Get("/chart.svg", s.ChartHandler)
	r.Get("/api/page", s.GetPageHandler)
	r.Post("/refresh", s.RefreshHandler)
	r.Get("/healthz", s.HealthHandler)
	return r
}
