package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicate       = errors.New("record already exists")
	ErrBrokenReference = errors.New("referenced record does not exist")
)

type ErrorCode string

const (
	CodeUnauthenticated  ErrorCode = "UNAUTHORIZED"
	CodeForbidden        ErrorCode = "FORBIDDEN"
	CodeValidation       ErrorCode = "VALIDATION_ERROR"
	CodeInvalidReference ErrorCode = "INVALID_REFERENCE"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// Error is the failure type returned by every service. Field names the
// offending input when one exists. Err holds the cause for logging and is
// never rendered to clients.
type Error struct {
	Code    ErrorCode
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewValidationError(field, message string) *Error {
	return &Error{Code: CodeValidation, Field: field, Message: message}
}

func NewReferenceError(field, message string) *Error {
	return &Error{Code: CodeInvalidReference, Field: field, Message: message}
}

func NewConflictError(field, message string) *Error {
	return &Error{Code: CodeConflict, Field: field, Message: message}
}

func NewNotFoundError(field, message string) *Error {
	return &Error{Code: CodeNotFound, Field: field, Message: message}
}

func NewUnauthenticatedError(message string) *Error {
	return &Error{Code: CodeUnauthenticated, Field: "auth", Message: message}
}

func NewForbiddenError(message string) *Error {
	return &Error{Code: CodeForbidden, Field: "auth", Message: message}
}

func NewInternalError(op string, err error) *Error {
	return &Error{Code: CodeInternal, Field: "server", Message: op, Err: err}
}

// CodeOf reports the taxonomy code of err, or CodeInternal when err is not a
// domain error.
func CodeOf(err error) ErrorCode {
	var de *Error

	if errors.As(err, &de) {
		return de.Code
	}

	return CodeInternal
}

func IsCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
