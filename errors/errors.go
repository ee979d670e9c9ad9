// Package errors provides error types and handling for Fusion SDK operations.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// Error represents a Fusion SDK operation error with context about the
// operation that failed. It wraps the underlying error with additional
// context for better debugging.
type Error struct {
	// Op is the operation that failed (e.g. "upload", "submit")
	Op string

	// File is the file name involved in the operation (if applicable)
	File string

	// Err is the underlying error
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.File != "" {
		return fmt.Sprintf("fusion.%s %s: %v", e.Op, e.File, e.Err)
	}
	return fmt.Sprintf("fusion.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithFile adds file name context to an existing error.
func (e *Error) WithFile(file string) *Error {
	e.File = file
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// NewFileError creates a new Error with file name context.
func NewFileError(op, file string, err error) *Error {
	return &Error{
		Op:   op,
		File: file,
		Err:  err,
	}
}

// Sentinel errors classifying Fusion SDK failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrValidation indicates invalid input rejected before any network call
	ErrValidation = errors.New("fusion: validation error")

	// ErrTransport indicates a network-layer failure
	ErrTransport = errors.New("fusion: transport error")

	// ErrProtocol indicates a server response violating the wire contract
	ErrProtocol = errors.New("fusion: protocol violation")

	// ErrUploadAborted indicates a multipart upload terminated because a
	// chunk failed all of its retries
	ErrUploadAborted = errors.New("fusion: upload aborted")
)

// FileTooLargeError occurs when a file exceeds the maximum allowed size.
type FileTooLargeError struct {
	// File is the offending file name
	File string

	// FileSize is the actual size of the file in bytes
	FileSize int64

	// MaxSize is the maximum allowed file size in bytes
	MaxSize int64
}

// Error implements the error interface.
func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("fusion.upload %s: file size %d bytes exceeds maximum allowed size %d bytes",
		e.File, e.FileSize, e.MaxSize)
}

// Unwrap classifies the error as a validation failure.
func (e *FileTooLargeError) Unwrap() error {
	return ErrValidation
}

// TaskSubmitError occurs when the submit call is rejected by the server.
type TaskSubmitError struct {
	// StatusCode is the HTTP status code of the failed request
	StatusCode int

	// Response is the raw response body from the server
	Response string
}

// Error implements the error interface.
func (e *TaskSubmitError) Error() string {
	return fmt.Sprintf("fusion.submit: task submission failed with status %d", e.StatusCode)
}

// TaskTimeoutError occurs when a task does not reach a terminal state
// within the configured timeout.
type TaskTimeoutError struct {
	SessionID string
	Service   string
	Timeout   time.Duration
}

// Error implements the error interface.
func (e *TaskTimeoutError) Error() string {
	return fmt.Sprintf("fusion.wait %s/%s: task timed out after %s", e.Service, e.SessionID, e.Timeout)
}

// TaskCancelledError occurs when a task wait is aborted by Cancel.
type TaskCancelledError struct {
	SessionID string
	Service   string
}

// Error implements the error interface.
func (e *TaskCancelledError) Error() string {
	return fmt.Sprintf("fusion.wait %s/%s: task was cancelled", e.Service, e.SessionID)
}

// TaskFailedError occurs when task execution fails on the server.
type TaskFailedError struct {
	SessionID string
	Service   string
	State     string

	// Details carries the server-reported error message, if any
	Details string
}

// Error implements the error interface.
func (e *TaskFailedError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("fusion.wait %s/%s: task failed with state %q: %s",
			e.Service, e.SessionID, e.State, e.Details)
	}
	return fmt.Sprintf("fusion.wait %s/%s: task failed with state %q", e.Service, e.SessionID, e.State)
}

// IsValidation checks if an error was raised by input validation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsTransport checks if an error indicates a network-layer failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsProtocol checks if an error indicates a wire-contract violation.
func IsProtocol(err error) bool {
	return errors.Is(err, ErrProtocol)
}
