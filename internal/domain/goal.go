package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal represents a savings target owned by a single user.
//
// CurrentBalance is a materialized value. The source of truth is the fold over
// the goal's effective transactions; the reconciliation engine verifies the two
// never drift apart.
type Goal struct {
	ID             string
	OwnerID        string
	TargetAmount   decimal.Decimal
	TargetDate     time.Time
	CurrentBalance decimal.Decimal
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate validates a goal at creation time.
func (g *Goal) Validate() error {
	if g.OwnerID == "" {
		return ErrMissingOwner
	}

	if g.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	return nil
}
