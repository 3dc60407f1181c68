// Package errors provides structured error handling for the application.
// It defines AppError type with error codes for consistent API responses.
package errors

import (
	"errors"
	"fmt"
)

// Error codes organized by category
const (
	// General errors (1000-1099)
	CodeSuccess       = 0
	CodeUnknown       = 1000
	CodeInvalidParams = 1001
	CodeNotFound      = 1002
	CodeQueueFull     = 1003

	// Video errors (1100-1199)
	CodeInvalidURL     = 1100
	CodeMetadataFailed = 1101

	// Transcript errors (1200-1299)
	CodeCaptionsUnavailable   = 1200
	CodeTranscribeFailed      = 1201
	CodeTranscriptUnavailable = 1202
	CodeEmptyTranscript       = 1203

	// Generative engine errors (1300-1399)
	CodeEngineFailed   = 1300
	CodeEngineEmpty    = 1301
	CodeEngineNotReady = 1302

	// Analysis errors (1400-1499)
	CodeThemeExtraction = 1400
	CodeSummaryFailed   = 1401
	CodeStageFailed     = 1402

	// Storage / export errors (1500-1599)
	CodeDBError        = 1500
	CodeFileNotFound   = 1501
	CodeFileWriteError = 1502
	CodeExportFailed   = 1503
)

// AppError represents a structured application error
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Cause   error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(code int, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithDetail wraps an error with additional detail
func WrapWithDetail(code int, message string, detail string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Detail:  detail,
		Cause:   cause,
	}
}

// Is checks if the target error is an AppError with the specified code
func Is(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts error code from error, returns CodeUnknown if not AppError
func GetCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetMessage extracts message from error
func GetMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// GetDetail extracts detail from error, empty when absent
func GetDetail(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Detail
	}
	return ""
}

// Predefined common errors
var (
	ErrInvalidParams = New(CodeInvalidParams, "Invalid parameters")
	ErrNotFound      = New(CodeNotFound, "Resource not found")
	ErrQueueFull     = New(CodeQueueFull, "Task queue is full")

	// Video
	ErrInvalidURL = New(CodeInvalidURL, "Not a valid YouTube URL")

	// Transcript
	ErrCaptionsUnavailable   = New(CodeCaptionsUnavailable, "Captions unavailable")
	ErrTranscriptUnavailable = New(CodeTranscriptUnavailable, "Transcript unavailable")
	ErrEmptyTranscript       = New(CodeEmptyTranscript, "Transcript is empty")

	// Engine
	ErrEngineEmpty    = New(CodeEngineEmpty, "Empty response from generative engine")
	ErrEngineNotReady = New(CodeEngineNotReady, "Generative engine not configured")

	// Storage / export
	ErrDBError      = New(CodeDBError, "Database error")
	ErrFileNotFound = New(CodeFileNotFound, "File not found")
)
