package contact

import (
	"errors"
	"fmt"
)

var (
	ErrRequired     = errors.New("contact: field is required")
	ErrInvalidEmail = errors.New("contact: invalid email address")
	ErrTooLong      = errors.New("contact: field is too long")
	ErrHoneypot     = errors.New("contact: honeypot field filled")
	ErrRejected     = errors.New("contact: submission rejected by endpoint")
	ErrUnavailable  = errors.New("contact: endpoint unavailable")
)

// FieldError reports which form field failed validation.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
