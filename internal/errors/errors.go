// Package errors defines the domain error taxonomy shared by services and
// handlers. Domain errors carry a stable code and a user-safe message; raw
// storage errors are wrapped and never shown to clients.
package errors

import "fmt"

type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches domain errors by code so sentinels work with errors.Is even
// after wrapping with extra context.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Validation builds a VALIDATION_ERROR with a request-specific message.
func Validation(message string) *DomainError {
	return &DomainError{Code: "VALIDATION_ERROR", Message: message}
}

// Persistence wraps an unexpected storage failure. The wrapped error is kept
// for logs; the message is what clients see.
func Persistence(err error) *DomainError {
	return &DomainError{Code: "PERSISTENCE_ERROR", Message: "internal server error", Err: err}
}

// InsufficientBalance reports a failed deduction including the balance still
// available, in minor units.
func InsufficientBalance(available int64, currency string) *DomainError {
	return &DomainError{
		Code:    "INSUFFICIENT_BALANCE",
		Message: fmt.Sprintf("insufficient balance: available %d %s", available, currency),
	}
}
