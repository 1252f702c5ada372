package handler

import (
	"net/http"

	"github.com/mesho254/SavingsModule/internal/adapter/http/dto"
	"github.com/mesho254/SavingsModule/internal/usecase"
)

// ReconciliationHandler handles reconciliation audit HTTP requests.
type ReconciliationHandler struct {
	reconciliationUC *usecase.ReconciliationUseCase
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconciliationUC *usecase.ReconciliationUseCase) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationUC: reconciliationUC}
}

// Run executes a full reconciliation pass and returns the report.
func (h *ReconciliationHandler) Run(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciliationUC.Run(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "reconciliation failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReportFromUseCase(report))
}
