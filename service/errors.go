package service

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound is returned when no user has the given id.
	ErrUserNotFound = errors.New("user not found")
	// ErrRequestNotFound is returned when no request has the given id.
	ErrRequestNotFound = errors.New("request not found")
	// ErrAlreadyDecided is returned when a request has left PENDING.
	ErrAlreadyDecided = errors.New("request already decided")
	// ErrInvalidCredentials is returned when login fails.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError is a user-facing input problem. The operation did not run.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
