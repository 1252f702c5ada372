package domain

import "errors"

var (
	// Validation errors
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidAction = errors.New("action must be approve or reject")
	ErrMissingOwner  = errors.New("owner id is required")

	// Not-found errors
	ErrGoalNotFound        = errors.New("goal not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrUserNotFound        = errors.New("user not found")

	// State errors
	ErrNotWithdrawal = errors.New("transaction is not a withdrawal")
	ErrNotPending    = errors.New("withdrawal is not pending")

	// Authorization errors
	ErrAdminRequired = errors.New("admin capability required")

	// Idempotency errors
	ErrDuplicateIdempotencyKey = errors.New("idempotency key already used")
)
