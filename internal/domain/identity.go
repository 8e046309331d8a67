package domain

import (
	"context"
	"errors"
	"strings"
)

// Identity is an authenticated caller. The raffle engine trusts it as
// authentic and only performs authorization checks against it.
type Identity struct {
	ID   string
	Role Role
}

// Role represents a caller's access level
type Role string

const (
	// RoleAdmin may mint tokens and register prize assets
	RoleAdmin Role = "admin"

	// RoleParticipant may open, enter, draw and claim raffles
	RoleParticipant Role = "participant"
)

var validRoles = map[Role]bool{
	RoleAdmin:       true,
	RoleParticipant: true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanIssue checks if the role can mint tokens and register assets
func (r Role) CanIssue() bool {
	return r == RoleAdmin
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)

type identityKey struct{}

// WithIdentity returns a context carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext extracts the caller identity.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}

// ValidateIdentity checks an identity string.
func ValidateIdentity(id string) error {
	id = strings.TrimSpace(id)
	if id == "" || len(id) > MaxIdentityLength {
		return ErrInvalidIdentity
	}
	if strings.HasPrefix(id, "raffle:") {
		// reserved for escrow accounts
		return ErrInvalidIdentity
	}
	return nil
}
