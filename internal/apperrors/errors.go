package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors used across services and repositories. Handlers map these
// to HTTP status codes with errors.Is.
var (
	// ErrNotFound indicates that a requested resource could not be found.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation indicates that input data failed validation checks.
	ErrValidation = errors.New("validation error")

	// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
	ErrDuplicate = errors.New("resource already exists")

	// ErrConflict indicates the operation conflicts with the current state of the resource.
	ErrConflict = errors.New("conflict with current state")

	// ErrForbidden indicates the authenticated user is not allowed to perform the operation.
	ErrForbidden = errors.New("operation forbidden")

	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInternal indicates an unexpected internal failure.
	ErrInternal = errors.New("internal error")

	// ErrRefreshTokenExpired indicates the presented refresh token is past its expiry.
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// ErrInvalidRefreshToken indicates the presented refresh token does not match the stored one.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// AppError carries an HTTP status code alongside a human-readable message.
// It wraps an underlying sentinel when one applies.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
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

// NewAppError creates an AppError with an explicit status code.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates a 404 AppError wrapping ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NewBadRequestError creates a 400 AppError wrapping ErrValidation.
func NewBadRequestError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

// NewValidationError creates a 400 AppError wrapping ErrValidation.
func NewValidationError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

// NewValidationFailedError creates a 400 AppError naming the failing field.
func NewValidationFailedError(field, reason string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Err:     ErrValidation,
	}
}

// NewConflictError creates a 409 AppError wrapping ErrConflict.
func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Err: ErrConflict}
}

// NewUnauthorizedError creates a 401 AppError wrapping ErrUnauthorized.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Message: message, Err: ErrUnauthorized}
}

// NewInternalServerError creates a 500 AppError wrapping ErrInternal.
func NewInternalServerError(message string) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: message, Err: ErrInternal}
}

// NewGatewayTimeoutError creates a 504 AppError.
func NewGatewayTimeoutError(message string) *AppError {
	return &AppError{Code: http.StatusGatewayTimeout, Message: message, Err: ErrInternal}
}
