package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "invalid credentials", err: ErrInvalidCredentials, want: http.StatusUnauthorized},
		{name: "unauthorized", err: ErrUnauthorized, want: http.StatusUnauthorized},
		{name: "invalid token", err: ErrInvalidToken, want: http.StatusUnauthorized},
		{name: "validation", err: ErrValidation, want: http.StatusUnprocessableEntity},
		{name: "phone exists", err: ErrPhoneExists, want: http.StatusUnprocessableEntity},
		{name: "internal", err: ErrInternal, want: http.StatusInternalServerError},
		{name: "service unavailable", err: ErrServiceUnavailable, want: http.StatusServiceUnavailable},
		{name: "wrapped internal", err: WrapError(ErrInternal, errors.New("pg: connection refused")), want: http.StatusInternalServerError},
		{name: "wrapped with fmt", err: fmt.Errorf("context: %w", ErrInvalidCredentials), want: http.StatusUnauthorized},
		{name: "plain error", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToHTTPStatus(tt.err); got != tt.want {
				t.Errorf("ToHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWrapErrorPreservesIdentity(t *testing.T) {
	underlying := errors.New("duplicate key value violates unique constraint")
	wrapped := WrapError(ErrInternal, underlying)

	if !errors.Is(wrapped, underlying) {
		t.Error("wrapped error should match the underlying error with errors.Is")
	}

	var domainErr *DomainError
	if !errors.As(wrapped, &domainErr) {
		t.Fatal("wrapped error should expose *DomainError via errors.As")
	}
	if domainErr.Code != ErrInternal.Code {
		t.Errorf("code = %q, want %q", domainErr.Code, ErrInternal.Code)
	}
}

func TestErrorMessageHidesInternals(t *testing.T) {
	wrapped := WrapError(ErrInternal, errors.New("pg: password authentication failed"))

	msg := GetErrorMessage(wrapped)
	if msg != ErrInternal.Message {
		t.Errorf("GetErrorMessage() = %q, want the generic message %q", msg, ErrInternal.Message)
	}
}

func TestCredentialErrorsShareMessage(t *testing.T) {
	// Unknown account and wrong password surface through the same
	// error value; there is nothing for a caller to distinguish.
	if ErrInvalidCredentials.Message == "" {
		t.Fatal("ErrInvalidCredentials must carry a message")
	}
	if ErrInvalidCredentials.Message != GetErrorMessage(ErrInvalidCredentials) {
		t.Error("GetErrorMessage should return the domain message verbatim")
	}
}
