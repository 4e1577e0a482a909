package domain

import (
	"strings"
	"time"
)

// Role is the coarse permission class attached to a user account.
// Exactly two are recognised; ad hoc string roles are not carried forward.
type Role string

const (
	RoleOwner    Role = "owner"
	RoleEmployee Role = "employee"
)

// ParseRole normalises a role submitted at registration. The legacy "admin"
// spelling maps to owner; anything else is rejected.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "owner", "admin":
		return RoleOwner, nil
	case "employee":
		return RoleEmployee, nil
	default:
		return "", ErrInvalidRole
	}
}

// Valid reports whether r is one of the two recognised roles.
func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleEmployee
}

// User models a back-office account. Credential and reset fields live on this
// record; the core only reads and writes them, it never compares hashes for
// equality and never stores a plaintext password.
type User struct {
	ID               string     `json:"id"`
	Username         string     `json:"username"`
	Email            string     `json:"email,omitempty"`
	PasswordHash     string     `json:"-"`
	Role             Role       `json:"role"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
	ResetToken       string     `json:"-"`
	ResetRequestedAt *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Principal is the authenticated identity reconstructed from a valid token.
// It lives for exactly one request and is never persisted.
type Principal struct {
	SubjectID string
	Username  string
	Role      Role
}
