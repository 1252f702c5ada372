package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mesho254/SavingsModule/internal/domain"
	"github.com/mesho254/SavingsModule/internal/infrastructure/metrics"
)

// GoalUseCase handles goal lifecycle. Goals are created with a zero balance
// and never deleted.
type GoalUseCase struct {
	txManager TransactionManager
	goalRepo  GoalRepository
	outbox    OutboxRepository
	idGen     IDGenerator
	metrics   *metrics.Metrics
}

// NewGoalUseCase creates a new GoalUseCase.
func NewGoalUseCase(
	txManager TransactionManager,
	goalRepo GoalRepository,
	outbox OutboxRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *GoalUseCase {
	return &GoalUseCase{
		txManager: txManager,
		goalRepo:  goalRepo,
		outbox:    outbox,
		idGen:     idGen,
		metrics:   metrics,
	}
}

// CreateGoalInput represents input for creating a goal.
type CreateGoalInput struct {
	OwnerID      string
	TargetAmount decimal.Decimal
	TargetDate   time.Time
}

// CreateGoal creates a goal with a zero starting balance.
func (uc *GoalUseCase) CreateGoal(ctx context.Context, input CreateGoalInput) (*domain.Goal, error) {
	now := time.Now().UTC()
	goal := &domain.Goal{
		ID:             uc.idGen.Generate(),
		OwnerID:        input.OwnerID,
		TargetAmount:   input.TargetAmount,
		TargetDate:     input.TargetDate,
		CurrentBalance: decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := goal.Validate(); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.goalRepo.Create(txCtx, tx, goal); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   goal.ID,
		AggregateType: domain.AggregateTypeGoal,
		EventType:     domain.EventTypeGoalCreated,
		Payload: map[string]any{
			"goal_id":       goal.ID,
			"owner_id":      goal.OwnerID,
			"target_amount": goal.TargetAmount.String(),
			"target_date":   goal.TargetDate.Format(time.RFC3339),
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
		uc.metrics.GoalsCreated.Inc()
	}

	return goal, nil
}

// GetGoal retrieves a goal by ID.
func (uc *GoalUseCase) GetGoal(ctx context.Context, id string) (*domain.Goal, error) {
	return uc.goalRepo.GetByID(ctx, id)
}

// ListGoalsInput represents input for listing an owner's goals.
type ListGoalsInput struct {
	OwnerID string
	Limit   int
	Offset  int
}

// ListGoals lists an owner's goals.
func (uc *GoalUseCase) ListGoals(ctx context.Context, input ListGoalsInput) ([]*domain.Goal, error) {
	if input.OwnerID == "" {
		return nil, domain.ErrMissingOwner
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.goalRepo.ListByOwner(ctx, input.OwnerID, limit, offset)
}
