package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Predefined domain errors
var (
	// Authentication errors. The credentials message is deliberately
	// identical for unknown-phone and wrong-password so callers cannot
	// enumerate registered accounts.
	ErrInvalidCredentials = NewDomainError("INVALID_CREDENTIALS", "invalid credentials")
	ErrUnauthorized       = NewDomainError("UNAUTHORIZED", "unauthorized")
	ErrInvalidToken       = NewDomainError("INVALID_TOKEN", "invalid or expired token")

	// Validation errors
	ErrValidation  = NewDomainError("VALIDATION_FAILED", "the given data was invalid")
	ErrPhoneExists = NewDomainError("PHONE_EXISTS", "phone number already registered")

	// System errors. The message shown to clients never carries the
	// underlying store error; that detail stays in the server logs.
	ErrInternal           = NewDomainError("INTERNAL_ERROR", "something went wrong, please try again")
	ErrServiceUnavailable = NewDomainError("SERVICE_UNAVAILABLE", "service unavailable")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes.
// This should only be used in the handler/presentation layer.
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	return http.StatusInternalServerError
}

// domainErrorToHTTPStatus maps specific domain errors to HTTP status codes.
// Existing clients depend on 401/422/500, so validation failures map to
// 422 rather than 400.
func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 401 Unauthorized
	case "UNAUTHORIZED", "INVALID_CREDENTIALS", "INVALID_TOKEN":
		return http.StatusUnauthorized

	// 422 Unprocessable Entity
	case "VALIDATION_FAILED", "PHONE_EXISTS":
		return http.StatusUnprocessableEntity

	// 503 Service Unavailable
	case "SERVICE_UNAVAILABLE":
		return http.StatusServiceUnavailable

	// 500 Internal Server Error (default)
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts error message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}
