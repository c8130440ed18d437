// Package model defines the data structures used throughout the application.
package model

import "time"

// Roles a user account can hold. A role is a coarse authorization tier:
// every issued token embeds it, and admin-only endpoints check it.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account.
//
// WHY PasswordHash `json:"-"`?
// The dash tells encoding/json to NEVER serialize this field. User structs
// are returned directly from handlers (e.g. /api/me), and without the dash
// the bcrypt hash would leak to every API consumer. Only the hash is stored —
// the plaintext password never touches the database.
//
// WHY GitHubID *int64?
// Accounts created with username/password have no GitHub identity, so the
// column is nullable. A pointer maps cleanly to SQL NULL: nil means "no
// linked GitHub account". The UNIQUE constraint on github_id ensures one
// GitHub account maps to exactly one app account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	GitHubID     *int64    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
