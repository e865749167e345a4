package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidPercentage ErrorCode = "INVALID_PERCENTAGE"
	ErrCodeInvalidStatus     ErrorCode = "INVALID_STATUS"
	ErrCodeInvalidRole       ErrorCode = "INVALID_ROLE"
	ErrCodeInvalidDueDate    ErrorCode = "INVALID_DUE_DATE"

	ErrCodeDuplicateAssignment    ErrorCode = "DUPLICATE_ASSIGNMENT"
	ErrCodeCapacityExceeded       ErrorCode = "CAPACITY_EXCEEDED"
	ErrCodeAssignmentNotFound     ErrorCode = "ASSIGNMENT_NOT_FOUND"
	ErrCodeProjectNotFound        ErrorCode = "PROJECT_NOT_FOUND"
	ErrCodeMilestoneNotFound      ErrorCode = "MILESTONE_NOT_FOUND"
	ErrCodeInitiativeNotFound     ErrorCode = "INITIATIVE_NOT_FOUND"
	ErrCodeNotificationNotFound   ErrorCode = "NOTIFICATION_NOT_FOUND"
	ErrCodeUnknownEmployee        ErrorCode = "UNKNOWN_EMPLOYEE"
	ErrCodeConcurrentModification ErrorCode = "CONCURRENT_MODIFICATION"
	ErrCodeUnauthorizedAccess     ErrorCode = "UNAUTHORIZED_ACCESS"

	ErrCodeEmailExists ErrorCode = "EMAIL_ALREADY_EXISTS"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {

			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// Is matches AppErrors by code so errors.Is works against the sentinels even
// when one side carries per-call details (e.g. remaining capacity).
func (e *AppError) Is(target error) bool {
	appErr, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == appErr.Code
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// CapacityDetails rides on CAPACITY_EXCEEDED errors so callers can tell the
// user how much room the employee actually has left. Available is 0-100.
type CapacityDetails struct {
	Available int `json:"available"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewCapacityExceededError reports the employee's remaining project capacity.
func NewCapacityExceededError(available int) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       ErrCodeCapacityExceeded,
		Message:    fmt.Sprintf("employee only has %d%% available capacity", available),
		StatusCode: http.StatusConflict,
		Details:    CapacityDetails{Available: available},
	}
}

var (
	ErrDuplicateAssignment  = NewConflictError("employee is already assigned to this project", ErrCodeDuplicateAssignment)
	ErrCapacityExceeded     = NewConflictError("assignment exceeds available capacity", ErrCodeCapacityExceeded)
	ErrAssignmentNotFound   = NewNotFoundError("assignment not found", ErrCodeAssignmentNotFound)
	ErrProjectNotFound      = NewNotFoundError("project not found", ErrCodeProjectNotFound)
	ErrMilestoneNotFound    = NewNotFoundError("milestone not found", ErrCodeMilestoneNotFound)
	ErrInitiativeNotFound   = NewNotFoundError("initiative not found", ErrCodeInitiativeNotFound)
	ErrNotificationNotFound = NewNotFoundError("notification not found", ErrCodeNotificationNotFound)
	ErrUnknownEmployee      = NewNotFoundError("unknown employee", ErrCodeUnknownEmployee)
	ErrUnauthorizedAccess   = NewForbiddenError("unauthorized access", ErrCodeUnauthorizedAccess)

	// ErrConcurrentModification is never terminal at the ledger layer: the
	// caller (or the ledger's own retry loop) re-reads and reapplies.
	ErrConcurrentModification = NewConflictError("project was modified concurrently", ErrCodeConcurrentModification)

	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewForbiddenError("User account is inactive", ErrCodeUserInactive)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
