package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/mesho254/SavingsModule/internal/domain"
	"github.com/mesho254/SavingsModule/internal/infrastructure/metrics"
)

// ResolveAction is the admin's decision on a pending withdrawal.
type ResolveAction string

const (
	ActionApprove ResolveAction = "approve"
	ActionReject  ResolveAction = "reject"
)

// ApprovalUseCase drives the withdrawal state machine:
// pending -> approved | rejected, both terminal. Approval is the only path by
// which a withdrawal affects a goal balance.
type ApprovalUseCase struct {
	txManager TransactionManager
	goalRepo  GoalRepository
	txnRepo   TransactionRepository
	outbox    OutboxRepository
	auditRepo AuditRepository
	idGen     IDGenerator
	metrics   *metrics.Metrics
}

// NewApprovalUseCase creates a new ApprovalUseCase.
func NewApprovalUseCase(
	txManager TransactionManager,
	goalRepo GoalRepository,
	txnRepo TransactionRepository,
	outbox OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *ApprovalUseCase {
	return &ApprovalUseCase{
		txManager: txManager,
		goalRepo:  goalRepo,
		txnRepo:   txnRepo,
		outbox:    outbox,
		auditRepo: auditRepo,
		idGen:     idGen,
		metrics:   metrics,
	}
}

// ResolveInput represents input for resolving a pending withdrawal.
type ResolveInput struct {
	TransactionID string
	Action        ResolveAction
	Reason        string
	ActorID       string
	ActorIsAdmin  bool
}

// Resolve transitions a pending withdrawal to approved or rejected. The row
// is locked for the duration, so a concurrent re-approval fails on the state
// check instead of double-applying the balance effect. Balance decrement and
// status transition commit as one unit.
func (uc *ApprovalUseCase) Resolve(ctx context.Context, input ResolveInput) (*domain.Transaction, error) {
	if !input.ActorIsAdmin {
		return nil, domain.ErrAdminRequired
	}

	if input.Action != ActionApprove && input.Action != ActionReject {
		return nil, domain.ErrInvalidAction
	}

	start := time.Now()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	txn, err := uc.txnRepo.GetByIDForUpdate(txCtx, tx, input.TransactionID)
	if err != nil {
		return nil, err
	}

	if err := txn.CanResolve(); err != nil {
		uc.audit(ctx, input, txn, err)
		return nil, err
	}

	before := *txn
	now := time.Now().UTC()

	switch input.Action {
	case ActionApprove:
		if txn.GoalID != nil {
			if err := uc.goalRepo.IncrementBalance(txCtx, tx, *txn.GoalID, txn.Amount.Neg(), now); err != nil {
				return nil, err
			}
		}

		txn.Status = domain.StatusApproved

	case ActionReject:
		txn.Status = domain.StatusRejected
		if input.Reason != "" {
			txn.Description = annotateRejection(txn.Description, input.Reason)
		}
	}

	txn.ResolvedAt = &now

	if err := uc.txnRepo.UpdateStatus(txCtx, tx, txn.ID, txn.Status, txn.Description, now); err != nil {
		return nil, err
	}

	eventType := domain.EventTypeWithdrawalApproved
	if input.Action == ActionReject {
		eventType = domain.EventTypeWithdrawalRejected
	}

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
			"action":         string(input.Action),
			"reason":         input.Reason,
		},
		CreatedAt: now,
	}
	if err := uc.outbox.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		auditLog := &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			UserID:       input.ActorID,
			Action:       string(auditAction(input.Action)),
			ResourceType: "transaction",
			ResourceID:   txn.ID,
			BeforeState:  domain.MarshalState(before),
			AfterState:   domain.MarshalState(txn),
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    now,
		}
		if err := uc.auditRepo.CreateTx(txCtx, tx, auditLog); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		if input.Action == ActionApprove {
			uc.metrics.WithdrawalsApproved.Inc()
		} else {
			uc.metrics.WithdrawalsRejected.Inc()
		}
		uc.metrics.ResolutionDuration.Observe(time.Since(start).Seconds())
	}

	return txn, nil
}

// ListPendingInput represents input for listing pending withdrawals.
type ListPendingInput struct {
	// OwnerID narrows the listing to one owner when set.
	OwnerID *string
}

// ListPending lists pending withdrawals, optionally filtered by owner.
func (uc *ApprovalUseCase) ListPending(ctx context.Context, input ListPendingInput) ([]*domain.Transaction, error) {
	return uc.txnRepo.ListPending(ctx, input.OwnerID)
}

// audit records a failed resolution attempt outside the store transaction.
func (uc *ApprovalUseCase) audit(ctx context.Context, input ResolveInput, txn *domain.Transaction, cause error) {
	if uc.auditRepo == nil {
		return
	}

	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       input.ActorID,
		Action:       string(auditAction(input.Action)),
		ResourceType: "transaction",
		ResourceID:   txn.ID,
		BeforeState:  domain.MarshalState(txn),
		Status:       string(domain.AuditStatusFailure),
		ErrorMessage: cause.Error(),
		CreatedAt:    time.Now().UTC(),
	})
}

func auditAction(action ResolveAction) domain.AuditAction {
	if action == ActionReject {
		return domain.AuditActionWithdrawalReject
	}

	return domain.AuditActionWithdrawalApprove
}

func annotateRejection(description, reason string) string {
	if description == "" {
		return fmt.Sprintf("rejected: %s", reason)
	}

	return fmt.Sprintf("%s (rejected: %s)", description, reason)
}
