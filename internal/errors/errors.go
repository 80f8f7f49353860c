package errors

import (
	"errors"
)

// NewValidationError creates an error for input rejected before submission
func NewValidationError(field string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: cause.Error(),
		Code:    "VALIDATION_FAILED",
		Cause:   cause,
		Context: map[string]interface{}{
			"field": field,
		},
	}
}

// NewTransportError creates an error for a failed exchange with the backend.
// status is zero when no response was received.
func NewTransportError(operation string, status int, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeTransport,
		Message: "request to backend failed: " + operation,
		Code:    "TRANSPORT_ERROR",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
			"status":    status,
		},
	}
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.IsType(errorType)
	}
	return false
}

// GetUserMessage returns a user-friendly error message
func GetUserMessage(err error) string {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation:
			return appErr.Message
		case ErrorTypeTransport:
			if appErr.Cause != nil {
				return appErr.Cause.Error()
			}
			return "Tente novamente mais tarde."
		default:
			return "An unexpected error occurred. Please try again."
		}
	}
	return err.Error()
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError determines if an error should be logged based on its type
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Type != ErrorTypeValidation
	}
	return true
}
