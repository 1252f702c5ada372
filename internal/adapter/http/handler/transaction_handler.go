package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mesho254/SavingsModule/internal/adapter/http/dto"
	"github.com/mesho254/SavingsModule/internal/usecase"
)

// TransactionHandler handles transaction-related HTTP requests.
type TransactionHandler struct {
	transactionUC *usecase.TransactionUseCase
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionUC *usecase.TransactionUseCase) *TransactionHandler {
	return &TransactionHandler{transactionUC: transactionUC}
}

// Deposit records a deposit for the authenticated user.
func (h *TransactionHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.transactionUC.Deposit(r.Context(), req.ToUseCaseInput(user.ID, idempotencyKeyFromHeader(r)))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record deposit", err.Error())

		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
		w.Header().Set("X-Idempotency-Replay", "true")
	}

	writeJSON(w, status, dto.TransactionFromDomain(result.Transaction))
}

// RequestWithdrawal opens a pending withdrawal for the authenticated user.
func (h *TransactionHandler) RequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.WithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.transactionUC.RequestWithdrawal(r.Context(), req.ToUseCaseInput(user.ID, idempotencyKeyFromHeader(r)))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to request withdrawal", err.Error())

		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
		w.Header().Set("X-Idempotency-Replay", "true")
	}

	writeJSON(w, status, dto.TransactionFromDomain(result.Transaction))
}

// ListLedger lists the authenticated user's transactions, newest first.
func (h *TransactionHandler) ListLedger(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	txns, err := h.transactionUC.ListLedger(r.Context(), usecase.ListLedgerInput{
		OwnerID: user.ID,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list ledger", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txns))
}

// ListAllLedger lists every user's transactions. Admin only.
func (h *TransactionHandler) ListAllLedger(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	txns, err := h.transactionUC.ListAllLedger(r.Context(), user.Role.CanViewAllLedgers(), limit, offset)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list ledger", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txns))
}
