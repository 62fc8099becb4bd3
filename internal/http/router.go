// Package http assembles the engine's HTTP surface: the versioned API,
// health, and metrics.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ascent/internal/platform/metrics"
	"ascent/internal/platform/middleware"
	"ascent/pkg/platform/httputil"
)

// Registrar is implemented by every module handler.
type Registrar interface {
	Register(r chi.Router)
}

// HealthChecker reports a dependency's availability.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Config wires the router's collaborators.
type Config struct {
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
	JWTValidator middleware.JWTValidator

	// Handlers are mounted under /v1 behind auth.
	Handlers []Registrar

	// HealthChecks run on /healthz; a nil map entry is skipped.
	HealthChecks map[string]HealthChecker
}

// New builds the router: common middleware, authenticated /v1 routes,
// and the unauthenticated operational endpoints.
func New(cfg Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Timeout(30 * time.Second))
	if cfg.Metrics != nil {
		r.Use(middleware.Latency(cfg.Metrics))
	}

	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(middleware.ContentTypeJSON)
		v1.Use(middleware.RequireAuth(cfg.JWTValidator, cfg.Logger))
		for _, h := range cfg.Handlers {
			h.Register(v1)
		}
	})

	r.Get("/healthz", handleHealth(cfg.HealthChecks))
	r.Handle("/metrics", metrics.Handler())

	return r
}

func handleHealth(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, check := range checks {
			if check == nil {
				continue
			}
			if err := check.Health(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = err.Error()
				continue
			}
			body[name] = "ok"
		}
		httputil.WriteJSON(w, status, body)
	}
}
