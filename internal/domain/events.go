package domain

import "time"

// Event types
const (
	EventTypeDepositRecorded     = "deposit.recorded"
	EventTypeDepositFailed       = "deposit.failed"
	EventTypeWithdrawalRequested = "withdrawal.requested"
	EventTypeWithdrawalApproved  = "withdrawal.approved"
	EventTypeWithdrawalRejected  = "withdrawal.rejected"
	EventTypeGoalCreated         = "goal.created"
)

// Aggregate types
const (
	AggregateTypeTransaction = "transaction"
	AggregateTypeGoal        = "goal"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// DepositRecordedEvent payload
type DepositRecordedEvent struct {
	TransactionID string `json:"transaction_id"`
	OwnerID       string `json:"owner_id"`
	GoalID        string `json:"goal_id,omitempty"`
	Amount        string `json:"amount"`
	Status        string `json:"status"`
}

// WithdrawalRequestedEvent payload
type WithdrawalRequestedEvent struct {
	TransactionID string `json:"transaction_id"`
	OwnerID       string `json:"owner_id"`
	GoalID        string `json:"goal_id,omitempty"`
	Amount        string `json:"amount"`
}

// WithdrawalResolvedEvent payload
type WithdrawalResolvedEvent struct {
	TransactionID string `json:"transaction_id"`
	OwnerID       string `json:"owner_id"`
	GoalID        string `json:"goal_id,omitempty"`
	Amount        string `json:"amount"`
	Action        string `json:"action"`
	Reason        string `json:"reason,omitempty"`
}

// GoalCreatedEvent payload
type GoalCreatedEvent struct {
	GoalID       string `json:"goal_id"`
	OwnerID      string `json:"owner_id"`
	TargetAmount string `json:"target_amount"`
	TargetDate   string `json:"target_date"`
}
