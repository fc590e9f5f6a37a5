package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a domain error for transport-layer mapping.
type ErrorCode string

const (
	CodeValidation   ErrorCode = "validation_error"
	CodeNotFound     ErrorCode = "not_found"
	CodeConflict     ErrorCode = "conflict"
	CodeInvalidState ErrorCode = "invalid_state"
	CodeForbidden    ErrorCode = "forbidden"
	CodeUnavailable  ErrorCode = "unavailable"
)

// Error is the common error type returned by domain and application code.
type Error struct {
	Code    ErrorCode
	Message string
	Field   string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError creates a validation error for a required or malformed input.
func NewValidationError(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

// NewFieldValidationError creates a validation error tied to a specific field,
// so callers can surface it inline next to the offending input.
func NewFieldValidationError(field, message string) *Error {
	return &Error{Code: CodeValidation, Message: message, Field: field}
}

// NewNotFoundError creates a not-found error for the named entity.
func NewNotFoundError(entity, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

// NewConflictError creates a conflict error (optimistic lock failure, duplicate submit).
func NewConflictError(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

// NewInvalidStateError creates an error for an illegal state transition.
func NewInvalidStateError(from, to string) *Error {
	return &Error{Code: CodeInvalidState, Message: fmt.Sprintf("cannot transition from %s to %s", from, to)}
}

// NewForbiddenError creates a forbidden error.
func NewForbiddenError(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

// NewUnavailableError creates an error for an exhausted or unreachable resource.
func NewUnavailableError(message string) *Error {
	return &Error{Code: CodeUnavailable, Message: message}
}

// AsDomainError unwraps err into a *Error if possible.
func AsDomainError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsCode reports whether err is a domain error with the given code.
func IsCode(err error, code ErrorCode) bool {
	de, ok := AsDomainError(err)
	return ok && de.Code == code
}
