package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mesho254/SavingsModule/internal/usecase"
)

// DepositRequest represents a request to record a deposit.
type DepositRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	GoalID      *string         `json:"goal_id,omitempty"`
	Description string          `json:"description"`
}

// ToUseCaseInput converts to use case input.
func (r *DepositRequest) ToUseCaseInput(ownerID string, idempotencyKey *string) usecase.DepositInput {
	return usecase.DepositInput{
		OwnerID:        ownerID,
		Amount:         r.Amount,
		GoalID:         r.GoalID,
		Description:    r.Description,
		IdempotencyKey: idempotencyKey,
	}
}

// WithdrawalRequest represents a request to open a pending withdrawal.
type WithdrawalRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	GoalID      *string         `json:"goal_id,omitempty"`
	Description string          `json:"description"`
}

// ToUseCaseInput converts to use case input.
func (r *WithdrawalRequest) ToUseCaseInput(ownerID string, idempotencyKey *string) usecase.DepositInput {
	return usecase.DepositInput{
		OwnerID:        ownerID,
		Amount:         r.Amount,
		GoalID:         r.GoalID,
		Description:    r.Description,
		IdempotencyKey: idempotencyKey,
	}
}

// CreateGoalRequest represents a request to create a savings goal.
type CreateGoalRequest struct {
	TargetAmount decimal.Decimal `json:"target_amount"`
	TargetDate   time.Time       `json:"target_date"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateGoalRequest) ToUseCaseInput(ownerID string) usecase.CreateGoalInput {
	return usecase.CreateGoalInput{
		OwnerID:      ownerID,
		TargetAmount: r.TargetAmount,
		TargetDate:   r.TargetDate,
	}
}

// ResolveRequest represents a request to approve or reject a withdrawal.
// Reason is only used for rejections.
type ResolveRequest struct {
	Reason string `json:"reason,omitempty"`
}
