package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error codes carried on AppError.Code.
const (
	CodeUnsupportedFormat     = "UNSUPPORTED_FORMAT"
	CodeDecodeError           = "DECODE_ERROR"
	CodeDependencyUnavailable = "DEPENDENCY_UNAVAILABLE"
	CodeGenerationError       = "GENERATION_ERROR"
	CodeConfigError           = "CONFIG_ERROR"
)

// Sentinels matched with errors.Is through the AppError cause chain.
var (
	ErrUnsupportedFormat     = errors.New("unsupported format")
	ErrDecode                = errors.New("decode failed")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrGeneration            = errors.New("generation failed")
	ErrInvalidInput          = errors.New("invalid input")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// UnsupportedFormat reports an extension outside the accepted set.
func UnsupportedFormat(ext string) *AppError {
	return NewAppError(CodeUnsupportedFormat, fmt.Sprintf("unsupported file type %q", ext), ErrUnsupportedFormat)
}

// DecodeError keeps the underlying library message so callers can display it.
func DecodeError(op string, cause error) *AppError {
	return NewAppError(CodeDecodeError, op, joinCause(ErrDecode, cause))
}

// DependencyUnavailable marks a missing binary or an unreachable model backend.
func DependencyUnavailable(name string, cause error) *AppError {
	return NewAppError(CodeDependencyUnavailable, name, joinCause(ErrDependencyUnavailable, cause))
}

// GenerationError wraps a failed or empty chat-completion call.
func GenerationError(cause error) *AppError {
	return NewAppError(CodeGenerationError, "plan generation failed", joinCause(ErrGeneration, cause))
}

func joinCause(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %w", sentinel, cause)
}

// CodeOf returns the AppError code anywhere in err's chain, or "".
func CodeOf(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
