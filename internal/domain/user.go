package domain

import (
	"context"
	"errors"
)

// User is the authenticated caller as carried by a bearer token.
type User struct {
	ID    string
	Email string
	Role  Role
}

// Role represents a user's access level
type Role string

const (
	// RoleUser is a marathon participant acting on their own wallet.
	RoleUser Role = "user"

	// RoleAdmin can review withdrawals and freeze wallets.
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)

type userContextKey struct{}

// ContextWithUser returns a copy of ctx carrying the authenticated user.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext extracts the authenticated user, if any.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*User)
	return user, ok && user != nil
}

// ActorFromContext names who performed an action for audit records.
func ActorFromContext(ctx context.Context) string {
	if user, ok := UserFromContext(ctx); ok {
		return user.ID
	}
	return "system"
}
