package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mesho254/SavingsModule/internal/domain"
	"github.com/mesho254/SavingsModule/internal/usecase"
	"github.com/mesho254/SavingsModule/internal/usecase/mocks"
)

type approvalFixture struct {
	goalRepo  *mocks.MockGoalRepository
	txnRepo   *mocks.MockTransactionRepository
	outbox    *mocks.MockOutboxRepository
	auditRepo *mocks.MockAuditRepository
	uc        *usecase.ApprovalUseCase
}

func newApprovalFixture() *approvalFixture {
	f := &approvalFixture{
		goalRepo:  mocks.NewMockGoalRepository(),
		txnRepo:   mocks.NewMockTransactionRepository(),
		outbox:    mocks.NewMockOutboxRepository(),
		auditRepo: mocks.NewMockAuditRepository(),
	}
	f.uc = usecase.NewApprovalUseCase(
		mocks.NewMockTransactionManager(),
		f.goalRepo,
		f.txnRepo,
		f.outbox,
		f.auditRepo,
		mocks.NewMockIDGenerator(),
		nil,
	)
	return f
}

func (f *approvalFixture) seedPendingWithdrawal(id string, amount int64) {
	goalID := "goal-1"
	f.goalRepo.Seed(&domain.Goal{
		ID:             goalID,
		OwnerID:        "user-1",
		TargetAmount:   decimal.NewFromInt(1000),
		CurrentBalance: decimal.NewFromInt(500),
	})
	f.txnRepo.Seed(&domain.Transaction{
		ID:      id,
		OwnerID: "user-1",
		GoalID:  &goalID,
		Type:    domain.TypeWithdrawal,
		Amount:  decimal.NewFromInt(amount),
		Status:  domain.StatusPending,
		Date:    time.Now().UTC(),
	})
}

func TestApprovalUseCase_Approve(t *testing.T) {
	f := newApprovalFixture()
	f.seedPendingWithdrawal("w-1", 200)

	txn, err := f.uc.Resolve(context.Background(), usecase.ResolveInput{
		TransactionID: "w-1",
		Action:        usecase.ActionApprove,
		ActorID:       "admin-1",
		ActorIsAdmin:  true,
	})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if txn.Status != domain.StatusApproved {
		t.Errorf("expected approved status, got %s", txn.Status)
	}
	if txn.ResolvedAt == nil {
		t.Error("expected resolved timestamp")
	}

	goal, _ := f.goalRepo.GetByID(context.Background(), "goal-1")
	if !goal.CurrentBalance.Equal(decimal.NewFromInt(300)) {
		t.Errorf("expected balance 300 after approval, got %s", goal.CurrentBalance)
	}

	events := f.outbox.Events()
	if len(events) != 1 || events[0].EventType != domain.EventTypeWithdrawalApproved {
		t.Errorf("expected one withdrawal.approved event, got %+v", events)
	}

	logs := f.auditRepo.Logs()
	if len(logs) != 1 {
		t.Fatalf("expected one audit log, got %d", len(logs))
	}
	if logs[0].Action != string(domain.AuditActionWithdrawalApprove) {
		t.Errorf("unexpected audit action %s", logs[0].Action)
	}
	if logs[0].Status != string(domain.AuditStatusSuccess) {
		t.Errorf("unexpected audit status %s", logs[0].Status)
	}
}

func TestApprovalUseCase_DoubleApprove(t *testing.T) {
	f := newApprovalFixture()
	f.seedPendingWithdrawal("w-1", 200)

	input := usecase.ResolveInput{
		TransactionID: "w-1",
		Action:        usecase.ActionApprove,
		ActorID:       "admin-1",
		ActorIsAdmin:  true,
	}

	if _, err := f.uc.Resolve(context.Background(), input); err != nil {
		t.Fatalf("first approve failed: %v", err)
	}

	_, err := f.uc.Resolve(context.Background(), input)
	if !errors.Is(err, domain.ErrNotPending) {
		t.Fatalf("expected ErrNotPending on second approve, got %v", err)
	}

	// The balance effect must have applied exactly once.
	goal, _ := f.goalRepo.GetByID(context.Background(), "goal-1")
	if !goal.CurrentBalance.Equal(decimal.NewFromInt(300)) {
		t.Errorf("expected balance 300 after double approve, got %s", goal.CurrentBalance)
	}

	logs := f.auditRepo.Logs()
	if len(logs) != 2 {
		t.Fatalf("expected two audit logs, got %d", len(logs))
	}
	if logs[1].Status != string(domain.AuditStatusFailure) {
		t.Errorf("expected failure audit for rejected re-approval, got %s", logs[1].Status)
	}
}

func TestApprovalUseCase_Reject(t *testing.T) {
	f := newApprovalFixture()
	f.seedPendingWithdrawal("w-1", 200)
	f.txnRepo.Seed(&domain.Transaction{
		ID:          "w-1",
		OwnerID:     "user-1",
		GoalID:      strPtr("goal-1"),
		Type:        domain.TypeWithdrawal,
		Amount:      decimal.NewFromInt(200),
		Status:      domain.StatusPending,
		Description: "emergency",
		Date:        time.Now().UTC(),
	})

	txn, err := f.uc.Resolve(context.Background(), usecase.ResolveInput{
		TransactionID: "w-1",
		Action:        usecase.ActionReject,
		Reason:        "insufficient funds",
		ActorID:       "admin-1",
		ActorIsAdmin:  true,
	})
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if txn.Status != domain.StatusRejected {
		t.Errorf("expected rejected status, got %s", txn.Status)
	}
	if !strings.Contains(txn.Description, "rejected: insufficient funds") {
		t.Errorf("expected annotated description, got %q", txn.Description)
	}

	// Rejection never touches the balance.
	goal, _ := f.goalRepo.GetByID(context.Background(), "goal-1")
	if !goal.CurrentBalance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("rejection changed the balance: %s", goal.CurrentBalance)
	}

	events := f.outbox.Events()
	if len(events) != 1 || events[0].EventType != domain.EventTypeWithdrawalRejected {
		t.Errorf("expected one withdrawal.rejected event, got %+v", events)
	}
}

func TestApprovalUseCase_Resolve_Errors(t *testing.T) {
	tests := []struct {
		name      string
		seed      func(*approvalFixture)
		input     usecase.ResolveInput
		errorType error
	}{
		{
			name: "non-admin actor",
			seed: func(f *approvalFixture) { f.seedPendingWithdrawal("w-1", 100) },
			input: usecase.ResolveInput{
				TransactionID: "w-1",
				Action:        usecase.ActionApprove,
				ActorID:       "user-1",
			},
			errorType: domain.ErrAdminRequired,
		},
		{
			name: "invalid action",
			seed: func(f *approvalFixture) { f.seedPendingWithdrawal("w-1", 100) },
			input: usecase.ResolveInput{
				TransactionID: "w-1",
				Action:        usecase.ResolveAction("escalate"),
				ActorID:       "admin-1",
				ActorIsAdmin:  true,
			},
			errorType: domain.ErrInvalidAction,
		},
		{
			name: "resolving a deposit",
			seed: func(f *approvalFixture) {
				f.txnRepo.Seed(&domain.Transaction{
					ID:      "d-1",
					OwnerID: "user-1",
					Type:    domain.TypeDeposit,
					Amount:  decimal.NewFromInt(100),
					Status:  domain.StatusSuccess,
				})
			},
			input: usecase.ResolveInput{
				TransactionID: "d-1",
				Action:        usecase.ActionApprove,
				ActorID:       "admin-1",
				ActorIsAdmin:  true,
			},
			errorType: domain.ErrNotWithdrawal,
		},
		{
			name: "unknown transaction",
			seed: func(*approvalFixture) {},
			input: usecase.ResolveInput{
				TransactionID: "missing",
				Action:        usecase.ActionApprove,
				ActorID:       "admin-1",
				ActorIsAdmin:  true,
			},
			errorType: domain.ErrTransactionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newApprovalFixture()
			tt.seed(f)

			_, err := f.uc.Resolve(context.Background(), tt.input)
			if !errors.Is(err, tt.errorType) {
				t.Errorf("expected %v, got %v", tt.errorType, err)
			}
		})
	}
}

func TestApprovalUseCase_ListPending(t *testing.T) {
	f := newApprovalFixture()
	goalID := "goal-1"

	f.txnRepo.Seed(&domain.Transaction{ID: "w-1", OwnerID: "user-1", GoalID: &goalID, Type: domain.TypeWithdrawal, Amount: decimal.NewFromInt(10), Status: domain.StatusPending})
	f.txnRepo.Seed(&domain.Transaction{ID: "w-2", OwnerID: "user-2", GoalID: &goalID, Type: domain.TypeWithdrawal, Amount: decimal.NewFromInt(20), Status: domain.StatusPending})
	f.txnRepo.Seed(&domain.Transaction{ID: "w-3", OwnerID: "user-1", GoalID: &goalID, Type: domain.TypeWithdrawal, Amount: decimal.NewFromInt(30), Status: domain.StatusApproved})
	f.txnRepo.Seed(&domain.Transaction{ID: "d-1", OwnerID: "user-1", GoalID: &goalID, Type: domain.TypeDeposit, Amount: decimal.NewFromInt(40), Status: domain.StatusSuccess})

	all, err := f.uc.ListPending(context.Background(), usecase.ListPendingInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 pending withdrawals, got %d", len(all))
	}

	owner := "user-1"
	mine, err := f.uc.ListPending(context.Background(), usecase.ListPendingInput{OwnerID: &owner})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != "w-1" {
		t.Errorf("expected only w-1 for user-1, got %+v", mine)
	}
}
