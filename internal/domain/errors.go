package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountArchived = errors.New("account is archived")
	ErrDuplicateName   = errors.New("name already in use")

	// Transaction errors
	ErrTransactionNotFound = errors.New("transaction not found")

	// Recurring errors
	ErrRecurringNotFound = errors.New("recurring not found")
	// ErrAnchorConflict is returned when a conditional anchor advance finds
	// the anchor already moved by a concurrent confirm or skip.
	ErrAnchorConflict = errors.New("recurring anchor was advanced concurrently")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Authentication errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
