package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/marathon-wallet/internal/adapter/http/handler"
	"github.com/iho/marathon-wallet/internal/adapter/http/middleware"
	"github.com/iho/marathon-wallet/internal/domain"
	"github.com/iho/marathon-wallet/internal/infrastructure/metrics"
	"github.com/iho/marathon-wallet/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	PaymentHandler    *handler.PaymentHandler
	WithdrawalHandler *handler.WithdrawalHandler
	WalletHandler     *handler.WalletHandler
	LedgerHandler     *handler.LedgerHandler
	HealthHandler     *handler.HealthHandler

	// Authenticate populates the request user. Defaults to trusted headers.
	Authenticate func(http.Handler) http.Handler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	MetricsHandler   http.Handler
	Metrics          *metrics.Metrics
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	if cfg.Metrics != nil {
		r.Use(middleware.HTTPMetrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// Gateway callbacks authenticate by signature, not by bearer token.
	r.Post("/payment/webhook", cfg.PaymentHandler.Webhook)

	authenticate := cfg.Authenticate
	if authenticate == nil {
		authenticate = middleware.HeaderAuth
	}

	r.Group(func(r chi.Router) {
		r.Use(authenticate)

		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Payments
		r.Post("/payment/topup", cfg.PaymentHandler.TopUp)
		r.Post("/payment/marathon/{marathonId}", cfg.PaymentHandler.JoinMarathon)
		r.Get("/payment/{id}", cfg.PaymentHandler.Get)

		// Withdrawals
		r.Route("/withdrawals", func(r chi.Router) {
			r.Post("/", cfg.WithdrawalHandler.Create)
			r.Get("/", cfg.WithdrawalHandler.List)
			r.Get("/{id}", cfg.WithdrawalHandler.Get)
		})

		// Virtual wallet
		r.Route("/virtual-wallet", func(r chi.Router) {
			r.Get("/", cfg.WalletHandler.Get)
			r.Get("/balance", cfg.WalletHandler.Balance)
			r.Get("/transactions", cfg.WalletHandler.Transactions)
		})

		// Operator endpoints
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.RoleAdmin))

			r.Post("/withdrawals/{id}/review", cfg.WithdrawalHandler.Review)
			r.Post("/withdrawals/{id}/refund", cfg.WithdrawalHandler.Refund)

			r.Post("/wallets/{userId}/freeze", cfg.WalletHandler.Freeze)
			r.Post("/wallets/{userId}/unfreeze", cfg.WalletHandler.Unfreeze)

			r.Post("/payments/expire", cfg.PaymentHandler.Expire)
			r.Post("/payments/{id}/sync", cfg.PaymentHandler.Sync)

			r.Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)
			r.Get("/ledger/report", cfg.LedgerHandler.Report)
			r.Get("/ledger/accounts/{id}/reconcile", cfg.LedgerHandler.ReconcileAccount)
			r.Get("/audit-logs", cfg.LedgerHandler.AuditLogs)
		})
	})

	return r
}
