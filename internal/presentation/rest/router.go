package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/andresv02/loan-management-system/pkg/auth"
)

// RouterConfig wires the HTTP surface. Auth, Metrics, MetricsHandler and
// RateLimiter are optional.
type RouterConfig struct {
	Handler        *Handler
	Health         *HealthHandler
	Auth           func(http.Handler) http.Handler
	Metrics        func(http.Handler) http.Handler
	MetricsHandler http.Handler
	RateLimiter    *RateLimiter
	Logger         *slog.Logger
	Timeout        time.Duration
}

// NewRouter builds the chi router. Probes and /metrics are public; /api
// requires a valid bearer token, and writes additionally require the admin
// or operator role.
func NewRouter(cfg RouterConfig) *chi.Mux {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		requestLogger(cfg.Logger),
		middleware.Recoverer,
	)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics)
	}

	cfg.Health.RegisterRoutes(r)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	h := cfg.Handler
	r.Route("/api", func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Middleware)
		}
		r.Use(middleware.Timeout(cfg.Timeout))
		if cfg.Auth != nil {
			r.Use(cfg.Auth)
		}

		// Reads.
		r.Get("/companies", h.listCompanies)
		r.Get("/applications", h.listApplications)
		r.Get("/loans", h.listLoans)
		r.Get("/loans/{id}", h.getLoan)
		r.Get("/loans/{id}/next-payment", h.nextPayment)
		r.Get("/loans/{id}/available-installments", h.availableInstallments)
		r.Get("/dashboard", h.dashboard)
		r.Post("/schedules/preview", h.previewSchedule)

		// Writes.
		r.Group(func(r chi.Router) {
			if cfg.Auth != nil {
				r.Use(auth.RequireRoleHTTP(auth.RoleAdmin, auth.RoleOperator))
			}
			r.Post("/companies", h.createCompany)
			r.Put("/companies/{id}", h.renameCompany)
			r.Delete("/companies/{id}", h.deleteCompany)
			r.Post("/applications", h.submitApplication)
			r.Post("/applications/{id}/approve", h.approveApplication)
			r.Post("/applications/{id}/decline", h.declineApplication)
			r.Delete("/loans/{id}", h.deleteLoan)
			r.Post("/loans/{id}/payments", h.recordPayment)
			r.Post("/payments/{id}/reverse", h.reversePayment)
		})
	})

	return r
}
