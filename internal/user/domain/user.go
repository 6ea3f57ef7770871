package domain

import (
	"errors"
	"time"

	"tenant-accounts/backend/internal/platform/jsonbag"
)

// User is an account holder. Email is the login identifier; Username is an internal handle
// derived from the email at registration.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	Profile      jsonbag.Bag
	Status       int
	Settings     jsonbag.Bag
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StatusActive is the status assigned at registration. Other values are caller-defined.
const StatusActive = 0

var (
	ErrDuplicateEmail    = errors.New("user: email already exists")
	ErrDuplicateUsername = errors.New("user: username already exists")
)

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.Username == "" {
		return errors.New("username is required")
	}
	if u.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	if u.Profile == nil {
		u.Profile = jsonbag.Bag{}
	}
	return nil
}
