package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the kind of money movement.
type TransactionType string

const (
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
)

// TransactionStatus is the resolution state of a transaction.
//
// Deposits resolve immediately to success or failed. Withdrawals start pending
// and resolve to approved or rejected. Every status except pending is terminal.
type TransactionStatus string

const (
	StatusSuccess  TransactionStatus = "success"
	StatusFailed   TransactionStatus = "failed"
	StatusPending  TransactionStatus = "pending"
	StatusApproved TransactionStatus = "approved"
	StatusRejected TransactionStatus = "rejected"
)

// EventType tracks what kind of user activity produced the transaction.
type EventType string

const (
	EventRegistration EventType = "registration"
	EventGoalCreated  EventType = "goal_created"
	EventDeposit      EventType = "deposit"
	EventWithdrawal   EventType = "withdrawal"
)

// Transaction is an append-only record of money movement against a goal.
// Once resolved, status and amount never change; only a rejection reason may
// be appended to the description.
type Transaction struct {
	ID             string
	OwnerID        string
	GoalID         *string
	Type           TransactionType
	Amount         decimal.Decimal
	Status         TransactionStatus
	Description    string
	Date           time.Time
	EventType      EventType
	IdempotencyKey *string
	ResolvedAt     *time.Time
}

// Validate validates a transaction at creation time.
func (t *Transaction) Validate() error {
	if t.OwnerID == "" {
		return ErrMissingOwner
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	return nil
}

// Resolved reports whether the transaction has reached a terminal status.
func (t *Transaction) Resolved() bool {
	return t.Status != StatusPending
}

// CanResolve checks that the transaction is a pending withdrawal, the only
// state the approval machine may transition from.
func (t *Transaction) CanResolve() error {
	if t.Type != TypeWithdrawal {
		return ErrNotWithdrawal
	}

	if t.Status != StatusPending {
		return ErrNotPending
	}

	return nil
}

// Effective reports whether the transaction counts toward a goal balance:
// successful deposits add, approved withdrawals subtract.
func (t *Transaction) Effective() bool {
	switch t.Type {
	case TypeDeposit:
		return t.Status == StatusSuccess
	case TypeWithdrawal:
		return t.Status == StatusApproved
	}

	return false
}

// BalanceDelta is the signed effect of the transaction on its goal balance.
// Zero for transactions that are not effective.
func (t *Transaction) BalanceDelta() decimal.Decimal {
	if !t.Effective() {
		return decimal.Zero
	}

	if t.Type == TypeWithdrawal {
		return t.Amount.Neg()
	}

	return t.Amount
}
