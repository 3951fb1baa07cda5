// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role represents a user's permission level in the system.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleAuthor Role = "author"
)

// User represents an account in the shared users table. Authentication
// itself lives in a separate service; this side only reads profiles.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Summary returns the populated form used in category responses.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, FirstName: u.FirstName, LastName: u.LastName}
}

// UserSummary is what responses expose about a referenced user.
type UserSummary struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

// Principal is the authenticated caller of an operation.
type Principal struct {
	ID        uuid.UUID
	Username  string
	FirstName string
	LastName  string
	Email     string
	Role      Role
}

// DisplayName prefers the username and falls back to "first last".
func (p *Principal) DisplayName() string {
	if p.Username != "" {
		return p.Username
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// IsElevated reports whether the principal may moderate other people's
// comments.
func (p *Principal) IsElevated() bool {
	return p != nil && (p.Role == RoleAdmin || p.Role == RoleEditor)
}
