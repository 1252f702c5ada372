package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mesho254/SavingsModule/internal/domain"
)

func TestTransactionFromDomain(t *testing.T) {
	goalID := "goal-1"
	resolved := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	txn := &domain.Transaction{
		ID:         "txn-1",
		OwnerID:    "user-1",
		GoalID:     &goalID,
		Type:       domain.TypeWithdrawal,
		Amount:     decimal.NewFromInt(80),
		Status:     domain.StatusApproved,
		EventType:  domain.EventWithdrawal,
		ResolvedAt: &resolved,
	}

	resp := TransactionFromDomain(txn)

	if resp.ID != "txn-1" || resp.Type != "withdrawal" || resp.Status != "approved" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.GoalID == nil || *resp.GoalID != goalID {
		t.Fatalf("expected goal ID to carry over")
	}
	if resp.ResolvedAt == nil || !resp.ResolvedAt.Equal(resolved) {
		t.Fatalf("expected resolved_at to carry over")
	}
}

func TestTransactionsFromDomain_PreservesOrder(t *testing.T) {
	txns := []*domain.Transaction{
		{ID: "txn-2"},
		{ID: "txn-1"},
	}

	resp := TransactionsFromDomain(txns)

	if len(resp) != 2 || resp[0].ID != "txn-2" || resp[1].ID != "txn-1" {
		t.Fatalf("expected order to be preserved, got %+v", resp)
	}
}

func TestGoalFromDomain(t *testing.T) {
	goal := &domain.Goal{
		ID:             "goal-1",
		OwnerID:        "user-1",
		TargetAmount:   decimal.NewFromInt(1000),
		CurrentBalance: decimal.NewFromInt(350),
		Version:        3,
	}

	resp := GoalFromDomain(goal)

	if resp.ID != "goal-1" || resp.Version != 3 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !resp.CurrentBalance.Equal(decimal.NewFromInt(350)) {
		t.Fatalf("expected balance 350, got %s", resp.CurrentBalance)
	}
}
