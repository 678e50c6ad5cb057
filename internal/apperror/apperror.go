// Package apperror defines the error taxonomy of the sales API and how each
// kind maps onto an HTTP status.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeInternal              Code = "INTERNAL_ERROR"
	CodeValidation            Code = "VALIDATION_ERROR"
	CodeUnauthorized          Code = "UNAUTHORIZED"
	CodeRateLimit             Code = "RATE_LIMIT_EXCEEDED"
	CodeDataSourceUnavailable Code = "DATA_SOURCE_UNAVAILABLE"
)

// Sentinel causes. Wrap them with fmt.Errorf("...: %w", ...) and test with errors.Is.
var (
	// ErrDataSourceUnavailable means the backing store or file could not be
	// reached; the request fails as a whole.
	ErrDataSourceUnavailable = errors.New("data source unavailable")

	// ErrAggregateFailed means only the summary could not be computed. It is
	// logged and never surfaced to the caller.
	ErrAggregateFailed = errors.New("aggregate computation failed")

	ErrValidation = errors.New("validation failed")
)

type AppError struct {
	Code       Code
	Message    string
	StatusCode int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message, StatusCode: statusCode(code)}
}

func Wrap(err error, code Code, message string) *AppError {
	return &AppError{Code: code, Message: message, StatusCode: statusCode(code), Cause: err}
}

// From classifies any error. Errors that are not an *AppError become either a
// DataSourceUnavailable or an Internal error with a generic message.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, ErrDataSourceUnavailable) {
		return Wrap(err, CodeDataSourceUnavailable, "Sales data is temporarily unavailable")
	}
	if errors.Is(err, ErrValidation) {
		return Wrap(err, CodeValidation, "Invalid request")
	}
	return Wrap(err, CodeInternal, "An unexpected error occurred")
}

func statusCode(code Code) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeRateLimit:
		return http.StatusTooManyRequests
	case CodeDataSourceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
