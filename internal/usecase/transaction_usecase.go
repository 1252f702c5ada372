package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mesho254/SavingsModule/internal/domain"
	"github.com/mesho254/SavingsModule/internal/infrastructure/metrics"
)

// TransactionUseCase records deposits and withdrawal requests. It is the only
// writer of deposit transactions and, together with the approval use case, the
// only mutator of goal balances.
type TransactionUseCase struct {
	txManager TransactionManager
	goalRepo  GoalRepository
	txnRepo   TransactionRepository
	userRepo  UserRepository
	outbox    OutboxRepository
	idGen     IDGenerator
	outcome   OutcomePolicy
	metrics   *metrics.Metrics
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	txManager TransactionManager,
	goalRepo GoalRepository,
	txnRepo TransactionRepository,
	userRepo UserRepository,
	outbox OutboxRepository,
	idGen IDGenerator,
	outcome OutcomePolicy,
	metrics *metrics.Metrics,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager: txManager,
		goalRepo:  goalRepo,
		txnRepo:   txnRepo,
		userRepo:  userRepo,
		outbox:    outbox,
		idGen:     idGen,
		outcome:   outcome,
		metrics:   metrics,
	}
}

// DepositInput represents input for recording a deposit.
type DepositInput struct {
	OwnerID        string
	Amount         decimal.Decimal
	GoalID         *string
	Description    string
	IdempotencyKey *string
}

// DepositResult is the recorded transaction plus whether an idempotency key
// short-circuited the request.
type DepositResult struct {
	Transaction *domain.Transaction
	Replayed    bool
}

// Deposit validates and records a deposit. On successful settlement the goal
// balance is incremented in the same database transaction as the record, so
// neither is ever observed without the other.
func (uc *TransactionUseCase) Deposit(ctx context.Context, input DepositInput) (*DepositResult, error) {
	if input.OwnerID == "" {
		return nil, domain.ErrMissingOwner
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	if existing, ok, err := uc.replayByKey(ctx, input.IdempotencyKey); err != nil {
		return nil, err
	} else if ok {
		return &DepositResult{Transaction: existing, Replayed: true}, nil
	}

	settled := uc.outcome.Settle(ctx, input.OwnerID, input.Amount)

	status := domain.StatusSuccess
	if !settled {
		status = domain.StatusFailed
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:             uc.idGen.Generate(),
		OwnerID:        input.OwnerID,
		GoalID:         input.GoalID,
		Type:           domain.TypeDeposit,
		Amount:         input.Amount,
		Status:         status,
		Description:    input.Description,
		Date:           now,
		EventType:      domain.EventDeposit,
		IdempotencyKey: input.IdempotencyKey,
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.txnRepo.Create(txCtx, tx, txn); err != nil {
		// A concurrent request with the same key won the insert race. The
		// unique index is what closes the check-then-act window.
		if errors.Is(err, domain.ErrDuplicateIdempotencyKey) && input.IdempotencyKey != nil {
			_ = tx.Rollback(txCtx)

			existing, lookupErr := uc.txnRepo.GetByIdempotencyKey(ctx, *input.IdempotencyKey)
			if lookupErr != nil {
				return nil, lookupErr
			}

			return &DepositResult{Transaction: existing, Replayed: true}, nil
		}

		return nil, err
	}

	if settled && input.GoalID != nil {
		if err := uc.goalRepo.IncrementBalance(txCtx, tx, *input.GoalID, input.Amount, now); err != nil {
			return nil, err
		}

		if err := uc.userRepo.UpdateLastDeposit(txCtx, tx, input.OwnerID, now); err != nil {
			return nil, err
		}
	}

	eventType := domain.EventTypeDepositRecorded
	if !settled {
		eventType = domain.EventTypeDepositFailed
	}

	if err := uc.emitDepositEvent(txCtx, tx, txn, eventType, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		if settled {
			uc.metrics.DepositsRecorded.Inc()
			amount, _ := input.Amount.Float64()
			uc.metrics.DepositAmount.Observe(amount)
		} else {
			uc.metrics.DepositsFailed.Inc()
		}
	}

	return &DepositResult{Transaction: txn}, nil
}

// RequestWithdrawal records a pending withdrawal. The goal balance is not
// touched until an admin approves it.
func (uc *TransactionUseCase) RequestWithdrawal(ctx context.Context, input DepositInput) (*DepositResult, error) {
	if input.OwnerID == "" {
		return nil, domain.ErrMissingOwner
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	if existing, ok, err := uc.replayByKey(ctx, input.IdempotencyKey); err != nil {
		return nil, err
	} else if ok {
		return &DepositResult{Transaction: existing, Replayed: true}, nil
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:             uc.idGen.Generate(),
		OwnerID:        input.OwnerID,
		GoalID:         input.GoalID,
		Type:           domain.TypeWithdrawal,
		Amount:         input.Amount,
		Status:         domain.StatusPending,
		Description:    input.Description,
		Date:           now,
		EventType:      domain.EventWithdrawal,
		IdempotencyKey: input.IdempotencyKey,
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.txnRepo.Create(txCtx, tx, txn); err != nil {
		if errors.Is(err, domain.ErrDuplicateIdempotencyKey) && input.IdempotencyKey != nil {
			_ = tx.Rollback(txCtx)

			existing, lookupErr := uc.txnRepo.GetByIdempotencyKey(ctx, *input.IdempotencyKey)
			if lookupErr != nil {
				return nil, lookupErr
			}

			return &DepositResult{Transaction: existing, Replayed: true}, nil
		}

		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   txn.ID,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     domain.EventTypeWithdrawalRequested,
		Payload: map[string]any{
			"transaction_id": txn.ID,
			"owner_id":       txn.OwnerID,
			"goal_id":        goalIDOrEmpty(txn.GoalID),
			"amount":         txn.Amount.String(),
		},
		CreatedAt: now,
	}
	if err := uc.outbox.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.WithdrawalsRequested.Inc()
	}

	return &DepositResult{Transaction: txn}, nil
}

// ListLedgerInput represents input for listing an owner's ledger.
type ListLedgerInput struct {
	OwnerID string
	Limit   int
	Offset  int
}

// ListLedger lists an owner's transactions, newest first.
func (uc *TransactionUseCase) ListLedger(ctx context.Context, input ListLedgerInput) ([]*domain.Transaction, error) {
	if input.OwnerID == "" {
		return nil, domain.ErrMissingOwner
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.txnRepo.ListByOwner(ctx, input.OwnerID, limit, offset)
}

// ListAllLedger lists every owner's transactions, newest first. The caller
// must hold the admin capability.
func (uc *TransactionUseCase) ListAllLedger(ctx context.Context, actorIsAdmin bool, limit, offset int) ([]*domain.Transaction, error) {
	if !actorIsAdmin {
		return nil, domain.ErrAdminRequired
	}

	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.txnRepo.List(ctx, limit, offset)
}

// replayByKey looks up a previously recorded transaction for the key. The
// lookup is an optimization; the store's unique index is the real guarantee.
func (uc *TransactionUseCase) replayByKey(ctx context.Context, key *string) (*domain.Transaction, bool, error) {
	if key == nil || *key == "" {
		return nil, false, nil
	}

	existing, err := uc.txnRepo.GetByIdempotencyKey(ctx, *key)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return nil, false, nil
		}

		return nil, false, err
	}

	if uc.metrics != nil {
		uc.metrics.DepositsReplayed.Inc()
	}

	return existing, true, nil
}

func (uc *TransactionUseCase) emitDepositEvent(ctx context.Context, tx Transaction, txn *domain.Transaction, eventType string, now time.Time) error {
	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   txn.ID,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     eventType,
		Payload: map[string]any{
			"transaction_id": txn.ID,
			"owner_id":       txn.OwnerID,
			"goal_id":        goalIDOrEmpty(txn.GoalID),
			"amount":         txn.Amount.String(),
			"status":         string(txn.Status),
		},
		CreatedAt: now,
	}

	return uc.outbox.Create(ctx, tx, event)
}

func goalIDOrEmpty(goalID *string) string {
	if goalID == nil {
		return ""
	}

	return *goalID
}
