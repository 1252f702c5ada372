package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mesho254/SavingsModule/internal/domain"
	"github.com/mesho254/SavingsModule/internal/usecase"
)

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID             string          `json:"id"`
	OwnerID        string          `json:"owner_id"`
	GoalID         *string         `json:"goal_id,omitempty"`
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	Description    string          `json:"description,omitempty"`
	Date           time.Time       `json:"date"`
	EventType      string          `json:"event_type"`
	IdempotencyKey *string         `json:"idempotency_key,omitempty"`
	ResolvedAt     *time.Time      `json:"resolved_at,omitempty"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:             t.ID,
		OwnerID:        t.OwnerID,
		GoalID:         t.GoalID,
		Type:           string(t.Type),
		Amount:         t.Amount,
		Status:         string(t.Status),
		Description:    t.Description,
		Date:           t.Date,
		EventType:      string(t.EventType),
		IdempotencyKey: t.IdempotencyKey,
		ResolvedAt:     t.ResolvedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// GoalResponse represents a savings goal in API responses.
type GoalResponse struct {
	ID             string          `json:"id"`
	OwnerID        string          `json:"owner_id"`
	TargetAmount   decimal.Decimal `json:"target_amount"`
	TargetDate     time.Time       `json:"target_date"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Version        int64           `json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// GoalFromDomain converts a domain goal to a response.
func GoalFromDomain(g *domain.Goal) *GoalResponse {
	return &GoalResponse{
		ID:             g.ID,
		OwnerID:        g.OwnerID,
		TargetAmount:   g.TargetAmount,
		TargetDate:     g.TargetDate,
		CurrentBalance: g.CurrentBalance,
		Version:        g.Version,
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
	}
}

// GoalsFromDomain converts domain goals to responses.
func GoalsFromDomain(goals []*domain.Goal) []*GoalResponse {
	result := make([]*GoalResponse, len(goals))
	for i, g := range goals {
		result[i] = GoalFromDomain(g)
	}
	return result
}

// ReportResponse represents a reconciliation report in API responses.
type ReportResponse struct {
	Status               string                       `json:"status"`
	CheckedAt            time.Time                    `json:"checked_at"`
	BalanceDiscrepancies []usecase.BalanceDiscrepancy `json:"balance_discrepancies"`
	PotentialDuplicates  []usecase.DuplicatePair      `json:"potential_duplicates"`
	IntegrityViolations  []usecase.IntegrityViolation `json:"integrity_violations"`
}

// ReportFromUseCase converts a reconciliation report to a response.
func ReportFromUseCase(r *usecase.Report) *ReportResponse {
	return &ReportResponse{
		Status:               r.Status,
		CheckedAt:            r.CheckedAt,
		BalanceDiscrepancies: r.BalanceDiscrepancies,
		PotentialDuplicates:  r.PotentialDuplicates,
		IntegrityViolations:  r.IntegrityViolations,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
