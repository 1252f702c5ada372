package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/mesho254/SavingsModule/internal/adapter/http"
	"github.com/mesho254/SavingsModule/internal/adapter/http/handler"
	"github.com/mesho254/SavingsModule/internal/adapter/http/middleware"
	postgresRepo "github.com/mesho254/SavingsModule/internal/adapter/repository/postgres"
	redisRepo "github.com/mesho254/SavingsModule/internal/adapter/repository/redis"
	"github.com/mesho254/SavingsModule/internal/infrastructure/auth"
	"github.com/mesho254/SavingsModule/internal/infrastructure/config"
	"github.com/mesho254/SavingsModule/internal/infrastructure/eventpublisher"
	"github.com/mesho254/SavingsModule/internal/infrastructure/logger"
	"github.com/mesho254/SavingsModule/internal/infrastructure/metrics"
	"github.com/mesho254/SavingsModule/internal/infrastructure/postgres"
	"github.com/mesho254/SavingsModule/internal/infrastructure/redis"
	"github.com/mesho254/SavingsModule/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger
	zerolog.SetGlobalLevel(appLogger.GetLevel())

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	appMetrics := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	goalRepo := postgresRepo.NewGoalRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	outcome := usecase.NewRandomOutcomePolicy(cfg.DepositSuccessRate, time.Now().UnixNano())

	// Initialize use cases
	transactionUC := usecase.NewTransactionUseCase(txManager, goalRepo, txnRepo, userRepo, outboxRepo, idGen, outcome, appMetrics)
	approvalUC := usecase.NewApprovalUseCase(txManager, goalRepo, txnRepo, outboxRepo, auditRepo, idGen, appMetrics)
	goalUC := usecase.NewGoalUseCase(txManager, goalRepo, outboxRepo, idGen, appMetrics)
	reconciliationUC := usecase.NewReconciliationUseCase(goalRepo, txnRepo, cache, cfg.ReconciliationCacheTTL, appMetrics)

	// Initialize handlers
	transactionHandler := handler.NewTransactionHandler(transactionUC)
	goalHandler := handler.NewGoalHandler(goalUC)
	approvalHandler := handler.NewApprovalHandler(approvalUC)
	reconciliationHandler := handler.NewReconciliationHandler(reconciliationUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TransactionHandler:    transactionHandler,
		GoalHandler:           goalHandler,
		ApprovalHandler:       approvalHandler,
		ReconciliationHandler: reconciliationHandler,
		HealthHandler:         healthHandler,
		IdempotencyStore:      idempotencyStore,
		JWTManager:            jwtManager,
		RateLimiter:           rateLimiter,
		Logger:                appLogger,
	})

	// Start the outbox publisher
	publisherCtx, stopPublisher := context.WithCancel(ctx)
	defer stopPublisher()

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(nil),
		Metrics:    appMetrics,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxPollInterval,
	})
	go func() {
		if err := publisher.Start(publisherCtx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	// Periodically drop idle rate limiters
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-publisherCtx.Done():
				return
			case <-ticker.C:
				rateLimiter.CleanupLimiters()
			}
		}
	}()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	stopPublisher()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
