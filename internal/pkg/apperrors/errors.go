package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrInvalidFormat      = errors.New("invalid token format")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// User errors
	ErrUserNotFound       = fmt.Errorf("user not found: %w", ErrResourceNotFound)
	ErrEmailAlreadyExists = fmt.Errorf("email already exists: %w", ErrResourceAlreadyExists)
)

// Skill lifecycle errors
var (
	ErrSkillNotFound     = fmt.Errorf("skill not found: %w", ErrResourceNotFound)
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Review, session and notification errors
var (
	ErrReviewNotFound       = fmt.Errorf("review not found: %w", ErrResourceNotFound)
	ErrReviewAlreadyExists  = fmt.Errorf("review already submitted: %w", ErrResourceAlreadyExists)
	ErrSessionNotFound      = fmt.Errorf("session not found: %w", ErrResourceNotFound)
	ErrNotificationNotFound = fmt.Errorf("notification not found: %w", ErrResourceNotFound)
)

// Storage errors. Both are retryable by the caller.
var (
	ErrStorageTimeout     = errors.New("storage timeout")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewValidationError reports incomplete or malformed input. fields maps a field name to its problem.
func NewValidationError(message string, fields map[string]string) error {
	details := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		details[k] = v
	}
	return NewCustomError(ErrValidationFailed, message).WithDetails(details)
}

// NewInvalidTransitionError reports a lifecycle command that is not valid for the current status.
func NewInvalidTransitionError(from, command string) error {
	return NewCustomError(ErrInvalidTransition, fmt.Sprintf("cannot %s a skill in %s status", command, from)).
		WithDetails(map[string]interface{}{"status": from, "command": command})
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// IsRetryable reports whether the caller may retry the failed operation with backoff.
func IsRetryable(err error) bool {
	return Is(err, ErrStorageTimeout, ErrStorageUnavailable)
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err       error
	Message   string
	StatusMsg string
	Code      string
	Details   map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// WithStatusMsg adds a user-friendly status message
func (e *CustomError) WithStatusMsg(msg string) *CustomError {
	e.StatusMsg = msg
	return e
}

// AsCustomError extracts the outermost CustomError in the chain, if any.
func AsCustomError(err error) (*CustomError, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
