package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/pmholt/budgeteer/internal/adapter/http"
	"github.com/pmholt/budgeteer/internal/adapter/http/handler"
	"github.com/pmholt/budgeteer/internal/adapter/http/middleware"
	postgresRepo "github.com/pmholt/budgeteer/internal/adapter/repository/postgres"
	redisRepo "github.com/pmholt/budgeteer/internal/adapter/repository/redis"
	"github.com/pmholt/budgeteer/internal/infrastructure/auth"
	"github.com/pmholt/budgeteer/internal/infrastructure/config"
	"github.com/pmholt/budgeteer/internal/infrastructure/logger"
	"github.com/pmholt/budgeteer/internal/infrastructure/postgres"
	"github.com/pmholt/budgeteer/internal/infrastructure/redis"
	"github.com/pmholt/budgeteer/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	// PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, resolveMigrationsPath()); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Repositories and infrastructure
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	recurringRepo := postgresRepo.NewRecurringRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Use cases
	invalidator := usecase.NewSummaryCacheInvalidator(cache)
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, transactionRepo, idGen, invalidator, nil)
	transactionUC := usecase.NewTransactionUseCase(transactionRepo, accountRepo, recurringRepo, idGen, invalidator, nil)
	recurringUC := usecase.NewRecurringUseCase(txManager, recurringRepo, transactionRepo, accountRepo, idGen, retrier, invalidator, nil)
	summaryUC := usecase.NewSummaryUseCase(accountRepo, transactionRepo, recurringRepo, cache, cfg.SummaryCacheTTL, nil)
	userUC := usecase.NewUserUseCase(userRepo, idGen, jwtManager, nil)

	// Login attempts are throttled per IP.
	loginLimiter := middleware.NewRateLimiter(float64(cfg.LoginRatePerMinute)/60.0, cfg.LoginRateBurst)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:        handler.NewAuthHandler(userUC),
		AccountHandler:     handler.NewAccountHandler(accountUC),
		TransactionHandler: handler.NewTransactionHandler(transactionUC),
		RecurringHandler:   handler.NewRecurringHandler(recurringUC),
		SummaryHandler:     handler.NewSummaryHandler(summaryUC),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		JWTManager:         jwtManager,
		IdempotencyStore:   idempotencyStore,
		LoginLimiter:       loginLimiter,
		Logger:             log.Logger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func resolveMigrationsPath() string {
	if path := os.Getenv("MIGRATIONS_PATH"); path != "" {
		return path
	}

	return "file://migrations"
}
