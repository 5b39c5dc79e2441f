package auth

import (
	"errors"
	"fmt"
)

// ErrApprovalTimeout marks a device authorization that expired before the
// user approved it. Timeouts are terminal; callers must start a fresh flow.
var ErrApprovalTimeout = errors.New("device authorization expired before approval")

// AuthError represents authorization flow failures
type AuthError struct {
	Operation string
	Message   string
	Err       error
}

func NewAuthError(operation, message string) *AuthError {
	return &AuthError{
		Operation: operation,
		Message:   message,
	}
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth %s failed: %s", e.Operation, e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func (e *AuthError) WithCause(err error) *AuthError {
	e.Err = err
	return e
}

// TokenError represents errors from credential persistence
type TokenError struct {
	Operation string
	Message   string
	Err       error
}

func NewTokenError(operation, message string) *TokenError {
	return &TokenError{
		Operation: operation,
		Message:   message,
	}
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("token %s failed: %s", e.Operation, e.Message)
}

func (e *TokenError) Unwrap() error {
	return e.Err
}

func (e *TokenError) WithCause(err error) *TokenError {
	e.Err = err
	return e
}

// pollError carries the OAuth error code a token poll returned
type pollError struct {
	ErrorCode   string `json:"error"`
	Description string `json:"error_description"`
}

func (e *pollError) Error() string {
	return fmt.Sprintf("poll error: %s - %s", e.ErrorCode, e.Description)
}
