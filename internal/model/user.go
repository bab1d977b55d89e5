// Package model defines domain entities for the application.
package model

import (
	"strings"
	"time"
)

// UserRole is the authorization role of a user.
type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// ParseUserRole parses a role name case-insensitively.
func ParseUserRole(s string) (UserRole, bool) {
	switch UserRole(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// User is an account. Email and Role are fixed at signup; only the
// password (and, through the admin API, the role) change afterwards.
type User struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	Password   string    `json:"-"` // argon2id PHC hash
	Role       UserRole  `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

// UserRef builds an id-only reference to a user, as returned by plain
// lookups that do not join the users table.
func UserRef(id int64) *User {
	return &User{ID: id}
}

// AuthUser is the authenticated requester, taken from the bearer token.
// It is never persisted.
type AuthUser struct {
	ID    int64
	Email string
	Role  UserRole
}

// IsAdmin reports whether the requester holds the ADMIN role.
func (a AuthUser) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// UserFromAuth builds a user reference from the authenticated requester.
func UserFromAuth(a AuthUser) *User {
	return &User{ID: a.ID, Email: a.Email, Role: a.Role}
}
