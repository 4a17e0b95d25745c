package pipeline

import (
	"errors"
	"fmt"
)

// Code is the machine-readable error kind surfaced to callers.
type Code string

const (
	CodeInvalidInputData  Code = "INVALID_INPUT_DATA"
	CodeInsufficientData  Code = "INSUFFICIENT_DATA"
	CodeSessionNotFound   Code = "SESSION_NOT_FOUND"
	CodeProcessingFailed  Code = "PROCESSING_FAILED"
	CodeAnalysisTimeout   Code = "ANALYSIS_TIMEOUT"
	CodeConfiguration     Code = "CONFIGURATION_ERROR"
	CodeStreamInterrupted Code = "STREAM_INTERRUPTED"
	CodeFeedbackFailed    Code = "FEEDBACK_GENERATION_FAILED"
)

// Error carries a code alongside the human-readable message.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds a coded error with a formatted message.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches a code and message to an underlying error.
func WrapError(code Code, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// CodeOf extracts the code from err, or "" when err carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
