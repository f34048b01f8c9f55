package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/pmholt/budgeteer/internal/adapter/http/handler"
	"github.com/pmholt/budgeteer/internal/adapter/http/middleware"
	"github.com/pmholt/budgeteer/internal/domain"
	"github.com/pmholt/budgeteer/internal/infrastructure/auth"
	"github.com/pmholt/budgeteer/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler        *handler.AuthHandler
	AccountHandler     *handler.AccountHandler
	TransactionHandler *handler.TransactionHandler
	RecurringHandler   *handler.RecurringHandler
	SummaryHandler     *handler.SummaryHandler
	HealthHandler      *handler.HealthHandler
	JWTManager         *auth.JWTManager
	IdempotencyStore   usecase.IdempotencyStore
	LoginLimiter       *middleware.RateLimiter
	Logger             zerolog.Logger
}

// NewRouter creates the HTTP router. Everything under /api except register
// and login requires a bearer token.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Credential endpoints are open but rate limited per IP.
		r.Group(func(r chi.Router) {
			if cfg.LoginLimiter != nil {
				r.Use(cfg.LoginLimiter.Limit)
			}
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/login", cfg.AuthHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))

			if cfg.IdempotencyStore != nil {
				idempotency := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
				r.Use(idempotency.Wrap)
			}

			// Accounts
			r.Route("/accounts", func(r chi.Router) {
				r.Post("/", cfg.AccountHandler.Create)
				r.Get("/", cfg.AccountHandler.List)
				r.Get("/{id}", cfg.AccountHandler.Get)
				r.Patch("/{id}", cfg.AccountHandler.Update)
				r.Delete("/{id}", cfg.AccountHandler.Archive)
			})
			r.Get("/accounts-summary", cfg.AccountHandler.Summaries)

			// Transactions (listing merges synthetic pending rows)
			r.Route("/transactions", func(r chi.Router) {
				r.Post("/", cfg.TransactionHandler.Create)
				r.Get("/", cfg.TransactionHandler.List)
				r.Get("/{id}", cfg.TransactionHandler.Get)
				r.Patch("/{id}", cfg.TransactionHandler.Update)
				r.Delete("/{id}", cfg.TransactionHandler.Delete)
			})

			// Recurring definitions, plus kind-pinned convenience views
			r.Route("/recurrings", func(r chi.Router) {
				r.Post("/", cfg.RecurringHandler.Create)
				r.Get("/", cfg.RecurringHandler.List)
				r.Get("/{id}", cfg.RecurringHandler.Get)
				r.Patch("/{id}", cfg.RecurringHandler.Update)
				r.Delete("/{id}", cfg.RecurringHandler.Archive)
				r.Post("/{id}/confirm", cfg.RecurringHandler.Confirm)
				r.Post("/{id}/skip", cfg.RecurringHandler.Skip)
			})
			r.Route("/bills", func(r chi.Router) {
				r.Post("/", cfg.RecurringHandler.CreateWithKind(domain.KindBill))
				r.Get("/", cfg.RecurringHandler.ListWithKind(domain.KindBill))
				r.Delete("/{id}", cfg.RecurringHandler.Archive)
			})
			r.Route("/paychecks", func(r chi.Router) {
				r.Post("/", cfg.RecurringHandler.CreateWithKind(domain.KindPaycheck))
				r.Get("/", cfg.RecurringHandler.ListWithKind(domain.KindPaycheck))
				r.Delete("/{id}", cfg.RecurringHandler.Archive)
			})

			// Projection
			r.Get("/summary", cfg.SummaryHandler.Get)
		})
	})

	return r
}
