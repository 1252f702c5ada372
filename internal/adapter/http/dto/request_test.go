package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDepositRequestToUseCaseInput(t *testing.T) {
	goalID := "goal-1"
	key := "dep-1234"
	req := DepositRequest{
		Amount:      decimal.NewFromInt(250),
		GoalID:      &goalID,
		Description: "holiday savings",
	}

	input := req.ToUseCaseInput("user-1", &key)

	if input.OwnerID != "user-1" {
		t.Fatalf("expected owner user-1, got %s", input.OwnerID)
	}
	if !input.Amount.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected amount 250, got %s", input.Amount)
	}
	if input.GoalID == nil || *input.GoalID != goalID {
		t.Fatalf("expected goal ID to carry over")
	}
	if input.IdempotencyKey == nil || *input.IdempotencyKey != key {
		t.Fatalf("expected idempotency key to carry over")
	}
}

func TestCreateGoalRequestToUseCaseInput(t *testing.T) {
	target := time.Date(2027, time.June, 1, 0, 0, 0, 0, time.UTC)
	req := CreateGoalRequest{
		TargetAmount: decimal.NewFromInt(5000),
		TargetDate:   target,
	}

	input := req.ToUseCaseInput("user-9")

	if input.OwnerID != "user-9" {
		t.Fatalf("expected owner user-9, got %s", input.OwnerID)
	}
	if !input.TargetDate.Equal(target) {
		t.Fatalf("expected target date to carry over")
	}
}
