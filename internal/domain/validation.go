package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")
	ErrDescriptionTooLong = errors.New("description exceeds maximum length")
)

// Validation constants
const (
	MaxDescriptionLength = 1024
	MaxTransactionAmount = "1000000000" // 1 billion
)

// ValidateAmount validates a deposit or withdrawal amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxTransactionAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxTransactionAmount)
	}

	return nil
}

// ValidateDescription validates a free-form description.
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: limit is %d characters", ErrDescriptionTooLong, MaxDescriptionLength)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
