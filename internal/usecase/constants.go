package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultReconciliationTimeout bounds a full audit pass. Each check is
	// independently re-runnable, so timing out is safe.
	DefaultReconciliationTimeout = 30 * time.Second

	// DuplicateWindow is the adjacency window for duplicate detection.
	DuplicateWindow = 60 * time.Second

	// DefaultDepositSuccessRate matches the legacy payment simulation.
	DefaultDepositSuccessRate = 0.9

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)
