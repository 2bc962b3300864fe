package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUnavailable        = errors.New("storage unavailable")
	ErrInvalidCredentials = errors.New("admin: incorrect password")
	ErrPasswordTooShort   = errors.New("admin: new password must be at least 6 characters long")
	ErrPasswordMismatch   = errors.New("admin: new passwords do not match")
)

// ValidationError reports the fields that failed a presence or range check.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing or invalid fields: " + strings.Join(e.Fields, ", ")
}
