package domain

import "github.com/google/uuid"

// UserID uniquely identifies a user within the system.
// It is a thin wrapper around uuid.UUID to provide type safety at the domain layer.
type UserID uuid.UUID

// Role describes the authorization role of an authenticated user.
type Role string

const (
	// RoleUser is the default role for regular accounts.
	RoleUser Role = "user"
	// RoleAdmin grants access to admin-only operations such as credit grants
	// and viewing other users' scans.
	RoleAdmin Role = "admin"
)

// Identity is the authenticated caller as supplied by the token verifier:
// who they are, what they may do and which subscription tier they are on.
type Identity struct {
	UserID UserID
	Role   Role
	Tier   Tier
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }
