package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mesho254/SavingsModule/internal/adapter/http/dto"
	"github.com/mesho254/SavingsModule/internal/usecase"
)

// ApprovalHandler handles withdrawal approval HTTP requests.
type ApprovalHandler struct {
	approvalUC *usecase.ApprovalUseCase
}

// NewApprovalHandler creates a new ApprovalHandler.
func NewApprovalHandler(approvalUC *usecase.ApprovalUseCase) *ApprovalHandler {
	return &ApprovalHandler{approvalUC: approvalUC}
}

// Approve approves a pending withdrawal.
func (h *ApprovalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, usecase.ActionApprove)
}

// Reject rejects a pending withdrawal.
func (h *ApprovalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, usecase.ActionReject)
}

func (h *ApprovalHandler) resolve(w http.ResponseWriter, r *http.Request, action usecase.ResolveAction) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	// The body is optional; a bare approve carries no reason.
	var req dto.ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	txn, err := h.approvalUC.Resolve(r.Context(), usecase.ResolveInput{
		TransactionID: id,
		Action:        action,
		Reason:        req.Reason,
		ActorID:       user.ID,
		ActorIsAdmin:  user.Role.CanResolveWithdrawals(),
	})
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to resolve withdrawal", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// ListPending lists pending withdrawals. Admins see every owner's requests
// and may narrow to a single owner with ?user_id=; members only see their own.
func (h *ApprovalHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var ownerID *string
	if user.Role.CanResolveWithdrawals() {
		if filter := r.URL.Query().Get("user_id"); filter != "" {
			ownerID = &filter
		}
	} else {
		ownerID = &user.ID
	}

	txns, err := h.approvalUC.ListPending(r.Context(), usecase.ListPendingInput{OwnerID: ownerID})
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list pending withdrawals", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txns))
}
