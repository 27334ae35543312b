package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Err     error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// Common errors
var (
	ErrBadRequest = New(http.StatusBadRequest, "Invalid request body")
	ErrValidation = New(http.StatusBadRequest, "Validation failed")

	ErrUnauthorized    = New(http.StatusUnauthorized, "Unauthorized")
	ErrInvalidToken    = New(http.StatusUnauthorized, "Invalid token")
	ErrTokenExpired    = New(http.StatusUnauthorized, "Token has expired")
	ErrInvalidPassword = New(http.StatusUnauthorized, "Invalid credentials")

	ErrNotFound     = New(http.StatusNotFound, "Resource not found")
	ErrUserNotFound = New(http.StatusNotFound, "User not found")

	ErrUsernameExists = New(http.StatusConflict, "Username already exists")
	ErrEmailExists    = New(http.StatusConflict, "Email already exists")

	ErrTooManyRequests = New(http.StatusTooManyRequests, "Too many requests, please try again later")

	ErrInternal = New(http.StatusInternalServerError, "Internal server error")
)

// GetHTTPStatus returns the HTTP status code for an error
func GetHTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// GetMessage returns the error message
func GetMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}
