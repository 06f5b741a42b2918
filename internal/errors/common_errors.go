package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeDataUnavailable ErrorType = "DATA_UNAVAILABLE"
	ErrTypeDerivation      ErrorType = "DERIVATION"
	ErrTypeParsing         ErrorType = "PARSING"
	ErrTypeStorage         ErrorType = "STORAGE"
	ErrTypeValidation      ErrorType = "VALIDATION"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
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

// NewDataUnavailableError reports that the backing record set at source
// could not be read or parsed. It is fatal for the process.
func NewDataUnavailableError(source string, cause error) *AppError {
	return NewAppError(ErrTypeDataUnavailable, "dataset unavailable", cause).
		WithContext("source", source)
}

// NewDerivationError reports that the named aggregate could not be computed
// from the current filtered view.
func NewDerivationError(aggregate, reason string) *AppError {
	return NewAppError(ErrTypeDerivation, fmt.Sprintf("cannot compute %s: %s", aggregate, reason), nil).
		WithContext("aggregate", aggregate)
}

// WrapDerivationError is NewDerivationError with an underlying cause.
func WrapDerivationError(aggregate string, cause error) *AppError {
	return NewAppError(ErrTypeDerivation, fmt.Sprintf("cannot compute %s", aggregate), cause).
		WithContext("aggregate", aggregate)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// TypeOf returns the ErrorType of the first AppError in err's chain.
func TypeOf(err error) (ErrorType, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type, true
	}
	return "", false
}

// IsDataUnavailable reports whether err is a DataUnavailable error.
func IsDataUnavailable(err error) bool {
	t, ok := TypeOf(err)
	return ok && t == ErrTypeDataUnavailable
}

// IsDerivation reports whether err is a DerivationError.
func IsDerivation(err error) bool {
	t, ok := TypeOf(err)
	return ok && t == ErrTypeDerivation
}

// AggregateOf returns the aggregate named by a DerivationError.
func AggregateOf(err error) string {
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Type != ErrTypeDerivation {
		return ""
	}
	name, _ := appErr.Context["aggregate"].(string)
	return name
}
