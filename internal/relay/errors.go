package relay

import (
	"errors"
	"fmt"
)

// Error represents a failure while handling a relay request.
//
// Relay errors fall into three categories:
//   - Validation: the request is structurally malformed (wrong field
//     sizes, oversized ciphertext)
//   - Unauthorized: the request is well-formed but its signature does
//     not verify under the configured policy
//   - Storage: the request is acceptable but persistence failed
//
// Error includes a structured code so callers can map categories to
// transport-level responses without string matching.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes relay errors.
type ErrorCode string

const (
	// CodeValidation indicates a structurally malformed request.
	CodeValidation ErrorCode = "VALIDATION_FAILED"

	// CodeUnauthorized indicates a signature that failed verification.
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// CodeStorage indicates a persistence failure.
	CodeStorage ErrorCode = "STORAGE_FAILED"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError creates an Error for a malformed request.
func NewValidationError(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// NewUnauthorizedError creates an Error for a failed signature check.
func NewUnauthorizedError(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

// NewStorageError creates an Error wrapping a persistence failure.
func NewStorageError(err error) *Error {
	return &Error{Code: CodeStorage, Message: "storage operation failed", Err: err}
}

// IsValidation returns true if the error is a validation error.
// Uses errors.As to handle wrapped errors.
func IsValidation(err error) bool {
	var re *Error
	return errors.As(err, &re) && re.Code == CodeValidation
}

// IsUnauthorized returns true if the error is an authorization error.
// Uses errors.As to handle wrapped errors.
func IsUnauthorized(err error) bool {
	var re *Error
	return errors.As(err, &re) && re.Code == CodeUnauthorized
}

// IsStorage returns true if the error is a storage error.
// Uses errors.As to handle wrapped errors.
func IsStorage(err error) bool {
	var re *Error
	return errors.As(err, &re) && re.Code == CodeStorage
}
