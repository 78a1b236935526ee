package service

import (
	"errors"
	"fmt"
)

// ErrorCode classifies service failures for callers that map them to
// transport-level responses.
type ErrorCode string

const (
	ErrCodeInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrCodeRuntimeUnavailable ErrorCode = "RUNTIME_UNAVAILABLE"
	ErrCodeDownloadFailed     ErrorCode = "DOWNLOAD_FAILED"
	ErrCodeGenerationFailed   ErrorCode = "GENERATION_FAILED"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// ServiceError is the error type returned by all service operations.
type ServiceError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// Is matches on the error code so sentinel values compare with
// errors.Is regardless of the wrapped cause.
func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func NewError(code ErrorCode, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message}
}

func WrapError(err error, code ErrorCode, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message, Cause: err}
}

// AsServiceError converts err to a *ServiceError if it is one.
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

var (
	ErrInvalidInput       = NewError(ErrCodeInvalidInput, "invalid input")
	ErrRuntimeUnavailable = NewError(ErrCodeRuntimeUnavailable, "model runtime unavailable")
	ErrGenerationFailed   = NewError(ErrCodeGenerationFailed, "generation failed")
)
