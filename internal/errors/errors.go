// Package errors provides unified error handling across deckfold.
//
// KEY RESPONSIBILITIES:
// - Define standardized error codes and categories for consistent identification
// - Provide a structured error type (AppError) with severity levels and context
// - Convert recoverable build anomalies into non-fatal Diagnostics
//
// The build pipeline never fails on document content: malformed input
// degrades (drop, pass-through, or clamp) and surfaces as a Diagnostic.
// AppError is reserved for real failures (I/O, serving, programming
// errors) at the storage, server, and CLI boundaries.
package errors

import (
	"fmt"
	"time"

	"github.com/deckfold/deckfold/internal/models"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Input errors
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"

	// Build errors
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
	ErrCodeBuildAnomaly  ErrorCode = "BUILD_ANOMALY"

	// Resource errors
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Storage errors
	ErrCodeStorageFailure ErrorCode = "STORAGE_FAILURE"
	ErrCodeFileNotFound   ErrorCode = "FILE_NOT_FOUND"

	// Server errors
	ErrCodeServerFailure ErrorCode = "SERVER_FAILURE"

	// Command errors
	ErrCodeCommandFailed  ErrorCode = "COMMAND_FAILED"
	ErrCodeInvalidCommand ErrorCode = "INVALID_COMMAND"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityInfo     ErrorSeverity = "info"
	SeverityWarning  ErrorSeverity = "warning"
	SeverityError    ErrorSeverity = "error"
	SeverityCritical ErrorSeverity = "critical"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	CategoryInput   ErrorCategory = "input"
	CategoryBuild   ErrorCategory = "build"
	CategoryStorage ErrorCategory = "storage"
	CategoryServer  ErrorCategory = "server"
	CategoryCommand ErrorCategory = "command"
	CategorySystem  ErrorCategory = "system"
)

// AppError represents a standardized application error
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Severity  ErrorSeverity          `json:"severity"`
	Category  ErrorCategory          `json:"category"`
	Cause     error                  `json:"-"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
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

// WithDetails adds details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string) *AppError {
	category, severity := categorizeError(code)
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  severity,
		Category:  category,
		Timestamp: time.Now(),
	}
}

// Wrap wraps an existing error with application error context
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := NewAppError(code, message)
	appErr.Cause = err
	return appErr
}

// categorizeError determines the category and severity based on error code
func categorizeError(code ErrorCode) (ErrorCategory, ErrorSeverity) {
	switch code {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat:
		return CategoryInput, SeverityWarning
	case ErrCodeBuildAnomaly:
		return CategoryBuild, SeverityWarning
	case ErrCodeInternalError:
		return CategoryBuild, SeverityCritical
	case ErrCodeNotFound, ErrCodeFileNotFound:
		return CategoryStorage, SeverityInfo
	case ErrCodeAlreadyExists:
		return CategoryStorage, SeverityWarning
	case ErrCodeStorageFailure:
		return CategoryStorage, SeverityError
	case ErrCodeServerFailure:
		return CategoryServer, SeverityError
	case ErrCodeCommandFailed, ErrCodeInvalidCommand:
		return CategoryCommand, SeverityError
	default:
		return CategorySystem, SeverityError
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError extracts an AppError from an error, or converts it to one
func GetAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Wrap(err, ErrCodeInternalError, "Internal error occurred")
}

// Common error constructors for frequently used errors

func NotFoundError(resource string) *AppError {
	return NewAppError(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternalError, message)
}

func StorageError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeStorageFailure, fmt.Sprintf("Storage operation failed: %s", operation))
}

func InvalidInputError(message string) *AppError {
	return NewAppError(ErrCodeInvalidInput, message)
}

// Diagnostic converts a recoverable anomaly into the build diagnostic
// side channel. slideIndex is -1 for anomalies in the definitions region.
func Diagnostic(severity models.DiagnosticSeverity, slideIndex int, format string, args ...interface{}) models.Diagnostic {
	return models.Diagnostic{
		Severity:   severity,
		Message:    fmt.Sprintf(format, args...),
		SlideIndex: slideIndex,
	}
}
