package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mesho254/SavingsModule/internal/adapter/http/dto"
	"github.com/mesho254/SavingsModule/internal/domain"
	"github.com/mesho254/SavingsModule/internal/usecase"
	"github.com/mesho254/SavingsModule/internal/usecase/mocks"
)

func newTransactionHandler(outcome usecase.OutcomePolicy) *TransactionHandler {
	uc := usecase.NewTransactionUseCase(
		mocks.NewMockTransactionManager(),
		mocks.NewMockGoalRepository(),
		mocks.NewMockTransactionRepository(),
		mocks.NewMockUserRepository(),
		mocks.NewMockOutboxRepository(),
		mocks.NewMockIDGenerator(),
		outcome,
		nil,
	)
	return NewTransactionHandler(uc)
}

func authedRequest(method, target string, body []byte, user *domain.User) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if user != nil {
		req = req.WithContext(domain.ContextWithUser(req.Context(), user))
	}
	return req
}

func memberUser() *domain.User {
	return &domain.User{ID: "user-1", Email: "member@example.com", Role: domain.RoleMember}
}

func TestTransactionHandler_Deposit_Success(t *testing.T) {
	h := newTransactionHandler(usecase.StaticOutcomePolicy(true))

	body, _ := json.Marshal(dto.DepositRequest{
		Amount:      decimal.NewFromInt(150),
		Description: "birthday money",
	})
	req := authedRequest(http.MethodPost, "/transactions/deposits", body, memberUser())
	rec := httptest.NewRecorder()

	h.Deposit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.OwnerID != "user-1" {
		t.Fatalf("expected owner from auth context, got %s", resp.OwnerID)
	}

	if resp.Status != string(domain.StatusSuccess) {
		t.Fatalf("expected success status, got %s", resp.Status)
	}
}

func TestTransactionHandler_Deposit_Unauthenticated(t *testing.T) {
	h := newTransactionHandler(usecase.StaticOutcomePolicy(true))

	body, _ := json.Marshal(dto.DepositRequest{Amount: decimal.NewFromInt(10)})
	req := authedRequest(http.MethodPost, "/transactions/deposits", body, nil)
	rec := httptest.NewRecorder()

	h.Deposit(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestTransactionHandler_Deposit_InvalidBody(t *testing.T) {
	h := newTransactionHandler(usecase.StaticOutcomePolicy(true))

	req := authedRequest(http.MethodPost, "/transactions/deposits", []byte("{bad json"), memberUser())
	rec := httptest.NewRecorder()

	h.Deposit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTransactionHandler_Deposit_InvalidAmount(t *testing.T) {
	h := newTransactionHandler(usecase.StaticOutcomePolicy(true))

	body, _ := json.Marshal(dto.DepositRequest{Amount: decimal.NewFromInt(-5)})
	req := authedRequest(http.MethodPost, "/transactions/deposits", body, memberUser())
	rec := httptest.NewRecorder()

	h.Deposit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTransactionHandler_Deposit_ReplaySetsHeader(t *testing.T) {
	h := newTransactionHandler(usecase.StaticOutcomePolicy(true))

	body, _ := json.Marshal(dto.DepositRequest{
		Amount:      decimal.NewFromInt(75),
		Description: "allowance",
	})

	first := authedRequest(http.MethodPost, "/transactions/deposits", body, memberUser())
	first.Header.Set("Idempotency-Key", "dep-0001")
	rec := httptest.NewRecorder()
	h.Deposit(rec, first)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 on first request, got %d", rec.Code)
	}

	var original dto.TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &original); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	second := authedRequest(http.MethodPost, "/transactions/deposits", body, memberUser())
	second.Header.Set("Idempotency-Key", "dep-0001")
	rec = httptest.NewRecorder()
	h.Deposit(rec, second)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on replay, got %d", rec.Code)
	}

	if rec.Header().Get("X-Idempotency-Replay") != "true" {
		t.Fatalf("expected replay header to be set")
	}

	var replayed dto.TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &replayed); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if replayed.ID != original.ID {
		t.Fatalf("expected replay to return the original transaction, got %s vs %s", replayed.ID, original.ID)
	}
}

func TestTransactionHandler_RequestWithdrawal_Pending(t *testing.T) {
	h := newTransactionHandler(usecase.StaticOutcomePolicy(true))

	body, _ := json.Marshal(dto.WithdrawalRequest{
		Amount:      decimal.NewFromInt(40),
		Description: "new shoes",
	})
	req := authedRequest(http.MethodPost, "/transactions/withdrawals", body, memberUser())
	rec := httptest.NewRecorder()

	h.RequestWithdrawal(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Status != string(domain.StatusPending) {
		t.Fatalf("expected pending withdrawal, got %s", resp.Status)
	}
}

func TestTransactionHandler_ListAllLedger_MemberForbidden(t *testing.T) {
	h := newTransactionHandler(usecase.StaticOutcomePolicy(true))

	req := authedRequest(http.MethodGet, "/admin/ledger", nil, memberUser())
	rec := httptest.NewRecorder()

	h.ListAllLedger(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
