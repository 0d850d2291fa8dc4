package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleVoter = "voter"
)

var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email already registered")
var ErrInvalidCredentials = errors.New("invalid credentials")

// User models an authenticated actor in the system. The credential is stored
// as a bcrypt hash only; the plaintext never leaves the register/login handlers.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// ValidRole reports whether role is one of the roles the system accepts.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleVoter
}
