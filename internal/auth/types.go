// Package auth provides roles, credential hashing, and JWT access tokens
// for Home Inventory Core.
package auth

import "errors"

// Role represents an authorisation tier. The system has exactly two.
type Role string

const (
	// RoleAdmin manages the full inventory: people, rooms, device types,
	// devices, and assignments. Admins see every device and every room.
	RoleAdmin Role = "ADMIN"

	// RoleUser is a household member. Users see only devices assigned to
	// them and the rooms those devices occupy.
	RoleUser Role = "USER"
)

// ValidRoles is the set of roles an account may hold.
var ValidRoles = []Role{RoleAdmin, RoleUser}

// IsValidRole reports whether r is a recognised role.
func IsValidRole(r Role) bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// Principal is the authenticated identity attached to a request.
// It is derived from verified token claims, never from request payloads.
type Principal struct {
	PersonID int64  `json:"person_id"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether the principal holds the admin role.
// A nil principal is never an admin.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// Sentinel errors for auth operations.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("invalid token")

	// ErrAccessDenied is returned when a principal requests a resource view
	// outside its role, including requests targeting other identities.
	// Callers must not distinguish a denied target from a nonexistent one.
	ErrAccessDenied = errors.New("access denied")
)
