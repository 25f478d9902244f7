package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailAlreadyUsed   = errors.New("email already used")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveUser       = errors.New("user is inactive")
)

// User is an operator account. Pricing mutations require IsAdmin.
type User struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	DisplayName  *string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
	IsActive     bool
	IsAdmin      bool
}

// Filter defines parameters for listing operator accounts.
type Filter struct {
	Email       string
	DisplayName string
	IsActive    *bool
	Page        int
	PageSize    int
}

// UpdateInput carries the account fields an admin may change. Nil means the
// field is left as is.
type UpdateInput struct {
	DisplayName *string
	IsActive    *bool
	IsAdmin     *bool
}
