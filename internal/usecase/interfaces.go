package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mesho254/SavingsModule/internal/domain"
)

// GoalRepository defines data access for goals.
type GoalRepository interface {
	Create(ctx context.Context, tx Transaction, goal *domain.Goal) error
	GetByID(ctx context.Context, id string) (*domain.Goal, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Goal, error)
	// IncrementBalance applies a relative balance change at the store.
	// The update is a single atomic statement, never read-modify-write.
	IncrementBalance(ctx context.Context, tx Transaction, id string, delta decimal.Decimal, updatedAt time.Time) error
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Goal, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Goal, error)
}

// TransactionRepository defines data access for transactions.
type TransactionRepository interface {
	// Create inserts a transaction. Returns domain.ErrDuplicateIdempotencyKey
	// when the store's unique index on the idempotency key rejects the row.
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Transaction, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.TransactionStatus, description string, resolvedAt time.Time) error
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Transaction, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Transaction, error)
	ListPending(ctx context.Context, ownerID *string) ([]*domain.Transaction, error)
	// ListEffectiveByGoal returns successful deposits and approved withdrawals
	// for a goal in chronological order.
	ListEffectiveByGoal(ctx context.Context, goalID string) ([]*domain.Transaction, error)
	// ListAllByDate returns every transaction ordered by date ascending.
	ListAllByDate(ctx context.Context) ([]*domain.Transaction, error)
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateLastDeposit(ctx context.Context, tx Transaction, id string, at time.Time) error
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage for HTTP replay.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
