package integration

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	adaptershttp "github.com/mesho254/SavingsModule/internal/adapter/http"
	"github.com/mesho254/SavingsModule/internal/adapter/http/handler"
	"github.com/mesho254/SavingsModule/internal/adapter/repository/postgres"
	redisrepo "github.com/mesho254/SavingsModule/internal/adapter/repository/redis"
	"github.com/mesho254/SavingsModule/internal/domain"
	"github.com/mesho254/SavingsModule/internal/infrastructure/auth"
	"github.com/mesho254/SavingsModule/internal/infrastructure/logger"
	infraredis "github.com/mesho254/SavingsModule/internal/infrastructure/redis"
	"github.com/mesho254/SavingsModule/internal/usecase"
	"github.com/mesho254/SavingsModule/tests/testutil"
)

// api bundles everything an HTTP round-trip test needs.
type api struct {
	Router      http.Handler
	DB          *testutil.TestDB
	Redis       *goredis.Client
	Member      *domain.User
	Admin       *domain.User
	MemberToken string
	AdminToken  string
}

// setupAPI builds a full router backed by the test database and Redis.
// Deposits always settle so assertions stay deterministic.
func setupAPI(t *testing.T, ctx context.Context) *api {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)
	testDB.TruncateAll(ctx)

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}
	redisClient, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { redisClient.Close() })
	if err := redisClient.FlushAll(ctx).Err(); err != nil {
		t.Fatalf("failed to flush redis: %v", err)
	}

	pool := testDB.Pool
	txManager := postgres.NewTxManager(pool)
	goalRepo := postgres.NewGoalRepository(pool)
	txnRepo := postgres.NewTransactionRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	idGen := postgres.NewULIDGenerator()
	cache := redisrepo.NewCache(redisClient)
	idempotencyStore := redisrepo.NewIdempotencyStore(redisClient)

	transactionUC := usecase.NewTransactionUseCase(txManager, goalRepo, txnRepo, userRepo, outboxRepo, idGen, usecase.StaticOutcomePolicy(true), nil)
	approvalUC := usecase.NewApprovalUseCase(txManager, goalRepo, txnRepo, outboxRepo, auditRepo, idGen, nil)
	goalUC := usecase.NewGoalUseCase(txManager, goalRepo, outboxRepo, idGen, nil)
	reconciliationUC := usecase.NewReconciliationUseCase(goalRepo, txnRepo, cache, time.Second, nil)

	jwtManager := auth.NewJWTManager("integration-secret", time.Hour)

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		TransactionHandler:    handler.NewTransactionHandler(transactionUC),
		GoalHandler:           handler.NewGoalHandler(goalUC),
		ApprovalHandler:       handler.NewApprovalHandler(approvalUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconciliationUC),
		HealthHandler:         handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:      idempotencyStore,
		JWTManager:            jwtManager,
		Logger:                logger.New(logger.Config{Level: "error", Format: "json"}),
	})

	member := testDB.CreateTestUser(ctx, "member@example.com", domain.RoleMember)
	admin := testDB.CreateTestUser(ctx, "admin@example.com", domain.RoleAdmin)

	memberToken, err := jwtManager.Generate(member)
	if err != nil {
		t.Fatalf("failed to generate member token: %v", err)
	}
	adminToken, err := jwtManager.Generate(admin)
	if err != nil {
		t.Fatalf("failed to generate admin token: %v", err)
	}

	return &api{
		Router:      router,
		DB:          testDB,
		Redis:       redisClient,
		Member:      member,
		Admin:       admin,
		MemberToken: memberToken,
		AdminToken:  adminToken,
	}
}
