// Package errors provides error handling utilities.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeInvalidInput indicates a request violated a precondition.
	// It is the only type allowed to cross the service boundary.
	TypeInvalidInput Type = "INVALID_INPUT"

	// TypeModelLoad indicates the model artifact was missing or unreadable
	TypeModelLoad Type = "MODEL_LOAD_ERROR"

	// TypeModelInference indicates the model failed or returned an invalid value
	TypeModelInference Type = "MODEL_INFERENCE_ERROR"

	// TypeRules indicates a rule table file could not be parsed
	TypeRules Type = "RULES_ERROR"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// IsType reports whether err, or any error it wraps, is a domain error of type t
func IsType(err error, t Type) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// InvalidInput creates an invalid input error
func InvalidInput(message string) *Error {
	return New(TypeInvalidInput, message)
}

// InvalidInputf creates a formatted invalid input error
func InvalidInputf(format string, args ...interface{}) *Error {
	return Newf(TypeInvalidInput, format, args...)
}

// ModelLoad creates a model load error
func ModelLoad(message string, cause error) *Error {
	return Wrap(TypeModelLoad, message, cause)
}

// ModelInference creates a model inference error
func ModelInference(message string, cause error) *Error {
	return Wrap(TypeModelInference, message, cause)
}

// Rules creates a rule table error
func Rules(message string, cause error) *Error {
	return Wrap(TypeRules, message, cause)
}

// Config creates a configuration error
func Config(message string) *Error {
	return New(TypeConfig, message)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
