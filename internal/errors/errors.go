package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeSourceNotFound ErrorType = "SOURCE_NOT_FOUND"
	ErrTypeSchemaMismatch ErrorType = "SCHEMA_MISMATCH"
	ErrTypeColumnConflict ErrorType = "COLUMN_CONFLICT"
	ErrTypeWriteFailure   ErrorType = "WRITE_FAILURE"
	ErrTypeParsing        ErrorType = "PARSING"
	ErrTypeConfig         ErrorType = "CONFIG"
)

// AppError represents an application-specific error. Stage names the
// pipeline stage that produced the error when known.
type AppError struct {
	Type    ErrorType
	Stage   string
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := e.Message
	if e.Stage != "" {
		msg = fmt.Sprintf("%s: %s", e.Stage, msg)
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, msg, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, msg)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithStage records the pipeline stage that surfaced the error
func (e *AppError) WithStage(stage string) *AppError {
	e.Stage = stage
	return e
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// IsType reports whether err is (or wraps) an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// Helper functions for the fatal pipeline error taxonomy

// NewSourceNotFoundError reports a missing input file
func NewSourceNotFoundError(path string, cause error) *AppError {
	return NewAppError(ErrTypeSourceNotFound, fmt.Sprintf("source file not found: %s", path), cause)
}

// NewSchemaMismatchError reports required columns absent from the input
func NewSchemaMismatchError(message string, cause error) *AppError {
	return NewAppError(ErrTypeSchemaMismatch, message, cause)
}

// NewColumnConflictError reports a derived column colliding with an existing one
func NewColumnConflictError(column string) *AppError {
	return NewAppError(ErrTypeColumnConflict, fmt.Sprintf("derived column already exists: %s", column), nil).
		WithContext("column", column)
}

// NewWriteFailureError reports a failed artifact write
func NewWriteFailureError(message string, cause error) *AppError {
	return NewAppError(ErrTypeWriteFailure, message, cause)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
