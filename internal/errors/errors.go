// Package errors carries the coded application error used to classify
// pipeline failures for logging and for the HTTP error envelope.
package errors

import (
	"errors"
	"fmt"
)

// AppError attaches a stable classification code to an error. Codes travel
// unchanged through %w wrapping, so the outermost caller can map any pipeline
// failure to a code with GetCode.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a coded error with no cause.
func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap adds context to an error, preserving an existing code or defaulting
// to INTERNAL_ERROR.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{Code: GetCode(err), Message: message, Cause: err}
}

// WithCode classifies an existing error. The original error stays in the
// chain, so errors.Is against domain sentinels still matches.
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: err.Error(), Cause: err}
}

// IsAppError reports whether any error in the chain carries a code.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetCode returns the code of the nearest AppError in the chain, or
// INTERNAL_ERROR for unclassified errors.
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternalError
}

// Failure classification codes.
const (
	CodeConfigInvalid   = "CONFIG_INVALID"
	CodeParseError      = "PARSE_ERROR"
	CodeMappingError    = "MAPPING_ERROR"
	CodeAnalysisError   = "ANALYSIS_ERROR"
	CodeGenerationError = "GENERATION_ERROR"
	CodeDatabaseError   = "DATABASE_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeInternalError   = "INTERNAL_ERROR"
	CodeInvalidInput    = "INVALID_INPUT"
)

// ConfigInvalid reports a bad or missing configuration value.
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

// NotFound reports a missing resource by name.
func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

// InvalidInput reports a malformed request.
func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}
