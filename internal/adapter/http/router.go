package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/mesho254/SavingsModule/internal/adapter/http/handler"
	"github.com/mesho254/SavingsModule/internal/adapter/http/middleware"
	"github.com/mesho254/SavingsModule/internal/infrastructure/auth"
	"github.com/mesho254/SavingsModule/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	TransactionHandler    *handler.TransactionHandler
	GoalHandler           *handler.GoalHandler
	ApprovalHandler       *handler.ApprovalHandler
	ReconciliationHandler *handler.ReconciliationHandler
	HealthHandler         *handler.HealthHandler
	IdempotencyStore      usecase.IdempotencyStore
	JWTManager            *auth.JWTManager
	RateLimiter           *middleware.RateLimiter
	Logger                zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.JWTManager))

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Goals
		r.Route("/goals", func(r chi.Router) {
			r.Post("/", cfg.GoalHandler.Create)
			r.Get("/", cfg.GoalHandler.List)
			r.Get("/{id}", cfg.GoalHandler.Get)
		})

		// Transactions
		r.Route("/transactions", func(r chi.Router) {
			r.Post("/deposits", cfg.TransactionHandler.Deposit)
			r.Post("/withdrawals", cfg.TransactionHandler.RequestWithdrawal)
			r.Get("/", cfg.TransactionHandler.ListLedger)
			r.Get("/withdrawals/pending", cfg.ApprovalHandler.ListPending)
		})

		// Admin
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Get("/ledger", cfg.TransactionHandler.ListAllLedger)
			r.Post("/reconciliation", cfg.ReconciliationHandler.Run)

			r.Route("/withdrawals", func(r chi.Router) {
				r.Get("/pending", cfg.ApprovalHandler.ListPending)
				r.Post("/{id}/approve", cfg.ApprovalHandler.Approve)
				r.Post("/{id}/reject", cfg.ApprovalHandler.Reject)
			})
		})
	})

	return r
}
