package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/goraffle/internal/adapter/http/handler"
	"github.com/iho/goraffle/internal/adapter/http/middleware"
	"github.com/iho/goraffle/internal/domain"
	"github.com/iho/goraffle/internal/infrastructure/metrics"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	Logger                zerolog.Logger
	RaffleHandler         *handler.RaffleHandler
	AccountHandler        *handler.AccountHandler
	AssetHandler          *handler.AssetHandler
	ReconciliationHandler *handler.ReconciliationHandler
	HealthHandler         *handler.HealthHandler
	AuthHandler           *handler.AuthHandler
	Auth                  *middleware.AuthMiddleware
	Idempotency           *middleware.IdempotencyMiddleware
	RateLimiter           *middleware.RateLimiter
	Metrics               *metrics.Metrics
	MetricsGatherer       prometheus.Gatherer
	CORSAllowedOrigins    []string
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Metrics(cfg.Metrics))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.IdempotencyKeyHeader, middleware.CallerIdentityHeader, middleware.CallerRoleHeader},
			ExposedHeaders:   []string{"X-Idempotency-Replay", "X-Request-Id"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	if cfg.MetricsGatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cfg.Auth.Authenticate)

		// Idempotency keys are scoped by caller, so this runs after auth
		if cfg.Idempotency != nil {
			r.Use(cfg.Idempotency.Wrap)
		}

		r.Get("/me", cfg.AuthHandler.Me)

		// Raffles
		r.Route("/raffles", func(r chi.Router) {
			r.Post("/", cfg.RaffleHandler.Create)
			r.Get("/", cfg.RaffleHandler.List)
			r.Get("/{id}", cfg.RaffleHandler.Get)
			r.Get("/{id}/entries", cfg.RaffleHandler.ListEntries)
			r.Get("/{id}/events", cfg.RaffleHandler.ListEvents)
			r.Post("/{id}/entries", cfg.RaffleHandler.Enter)
			r.Post("/{id}/close", cfg.RaffleHandler.Close)
			r.Post("/{id}/draw", cfg.RaffleHandler.Draw)
			r.Post("/{id}/claim", cfg.RaffleHandler.Claim)
			r.Get("/{id}/verify", cfg.ReconciliationHandler.VerifyRaffle)
		})

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Get("/{id}/postings", cfg.AccountHandler.ListPostings)
			r.With(middleware.RequireRole(domain.RoleAdmin)).Post("/{id}/mint", cfg.AccountHandler.Mint)
		})

		// Prize assets
		r.Route("/assets", func(r chi.Router) {
			r.With(middleware.RequireRole(domain.RoleAdmin)).Post("/", cfg.AssetHandler.Register)
			r.Get("/", cfg.AssetHandler.ListByOwner)
			r.Get("/{id}", cfg.AssetHandler.Get)
		})

		// Ledger checks
		r.Route("/ledger", func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.RoleAdmin))
			r.Get("/consistency", cfg.ReconciliationHandler.CheckLedger)
			r.Get("/reconciliation", cfg.ReconciliationHandler.Report)
		})
	})

	return r
}
