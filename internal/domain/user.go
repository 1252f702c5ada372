package domain

import (
	"context"
	"errors"
	"time"
)

// User represents a system user
type User struct {
	ID            string
	Email         string
	Name          string
	Role          Role
	LastDepositAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Role represents a user's access level
type Role string

const (
	// RoleAdmin may resolve withdrawals and view every owner's ledger
	RoleAdmin Role = "admin"

	// RoleMember may manage their own goals and transactions
	RoleMember Role = "member"
)

var validRoles = map[Role]bool{
	RoleAdmin:  true,
	RoleMember: true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanResolveWithdrawals checks if the role may approve or reject withdrawals
func (r Role) CanResolveWithdrawals() bool {
	return r == RoleAdmin
}

// CanViewAllLedgers checks if the role may read other owners' ledgers
func (r Role) CanViewAllLedgers() bool {
	return r == RoleAdmin
}

// Authentication errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

type userContextKey struct{}

// ContextWithUser returns a context carrying the authenticated user.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext extracts the authenticated user from the context.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*User)
	return user, ok
}
