package domain

import (
	"fmt"
	"strings"
)

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidationErrors collects every field problem found in a request.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Field + ": " + e.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func NewMissingFieldError(field string) FieldError {
	return FieldError{Field: field, Message: "is required"}
}

func NewInvalidFormatError(field string, value interface{}) FieldError {
	return FieldError{Field: field, Message: "has an invalid format", Value: value}
}

func NewOutOfRangeError(field string, value interface{}, min, max int) FieldError {
	return FieldError{Field: field, Message: fmt.Sprintf("must be between %d and %d", min, max), Value: value}
}
