package domain

import (
	"errors"
	"strings"
)

// Error kinds. Callers match on these with errors.Is.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrValidation         = errors.New("validation failed")
)

// Error pairs a kind with the message shown to API clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

var (
	ErrBadCredentials   = &Error{Kind: ErrInvalidCredentials, Message: "Invalid Credentials"}
	ErrUserNotFound     = &Error{Kind: ErrNotFound, Message: "User not found"}
	ErrProductNotFound  = &Error{Kind: ErrNotFound, Message: "Product not found"}
	ErrUserExists       = &Error{Kind: ErrConflict, Message: "User already exists"}
	ErrRoleChangeDenied = &Error{Kind: ErrUnauthorized, Message: "Unauthorized"}
)

// ValidationError lists every rule a request body broke.
type ValidationError struct {
	Messages []string
}

// Error renders the messages as one bracketed list, even when there is only one.
func (e *ValidationError) Error() string {
	return "[" + strings.Join(e.Messages, " , ") + "]"
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
