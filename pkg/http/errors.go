package http

import (
	"fmt"
	"net/http"
)

// AppError is an error that knows the HTTP status it maps to.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// WithError attaches the cause. It is logged, never serialised.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

func newAppError(code, message string, status int) *AppError {
	return &AppError{Code: code, Message: message, Status: status}
}

// BadRequestError is a 400: the caller sent inputs the engine rejects.
func BadRequestError(message string) *AppError {
	return newAppError("ERR_BAD_REQUEST", message, http.StatusBadRequest)
}

// TooManyRequestsError is a 429 from the per-client limiter.
func TooManyRequestsError(message string) *AppError {
	return newAppError("ERR_RATE_LIMITED", message, http.StatusTooManyRequests)
}

// UnavailableError is a 503, used when a quote feed is down or timed out.
func UnavailableError(message string) *AppError {
	return newAppError("ERR_UNAVAILABLE", message, http.StatusServiceUnavailable)
}

// InternalError is a 500.
func InternalError(message string) *AppError {
	return newAppError("ERR_INTERNAL", message, http.StatusInternalServerError)
}
