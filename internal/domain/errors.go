package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrUnauthorized ErrorCode = "UNAUTHORIZED"

	// Quiz generation errors
	ErrGenerationFailed ErrorCode = "GENERATION_FAILED"
	ErrMalformedOutput  ErrorCode = "MALFORMED_MODEL_OUTPUT"

	// Alert errors
	ErrInvalidTransition ErrorCode = "INVALID_TRANSITION"
	ErrDispatchFailed    ErrorCode = "DISPATCH_FAILED"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(ErrNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(ErrUnauthorized, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewGenerationFailedError(err error) *DomainError {
	return NewError(ErrGenerationFailed, "Failed to generate quiz questions", err)
}

func NewMalformedOutputError(err error) *DomainError {
	return NewError(ErrMalformedOutput, "Model output is not a valid question list", err)
}

func NewInvalidTransitionError(state AlertState, event AlertEvent) *DomainError {
	return NewError(ErrInvalidTransition, fmt.Sprintf("event %s is not allowed in state %s", event, state), nil)
}

func NewDispatchFailedError(err error) *DomainError {
	return NewError(ErrDispatchFailed, "Failed to dispatch alert", err)
}

// HasCode reports whether err is a DomainError with the given code.
func HasCode(err error, code ErrorCode) bool {
	de, ok := AsDomainError(err)
	return ok && de.Code == code
}

// AsDomainError unwraps err into a *DomainError if there is one in its chain.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
