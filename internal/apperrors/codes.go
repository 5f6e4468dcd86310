// Package apperrors defines the domain error type shared by services and the
// HTTP boundary, and the fixed mapping from error codes to response status.
package apperrors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	CodeInternal           Code = "INTERNAL"
	CodeValidation         Code = "VALIDATION"
	CodeTaskNotFound       Code = "TASK_NOT_FOUND"
	CodeUserNotFound       Code = "USER_NOT_FOUND"
	CodeUserAlreadyExists  Code = "USER_ALREADY_EXISTS"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeInactiveAccount    Code = "INACTIVE_ACCOUNT"
	CodePermissionDenied   Code = "PERMISSION_DENIED"
)

// HTTPStatus maps a code to the status written at the HTTP boundary.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation:
		return http.StatusUnprocessableEntity
	case CodeTaskNotFound:
		return http.StatusNotFound
	// a missing user is an authentication failure, not a missing resource
	case CodeUserNotFound, CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeUserAlreadyExists:
		return http.StatusConflict
	case CodeInactiveAccount:
		return http.StatusBadRequest
	case CodePermissionDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Type is the error name reported in the "type" field of the error envelope.
func (c Code) Type() string {
	switch c {
	case CodeValidation:
		return "ValidationError"
	case CodeTaskNotFound:
		return "TaskNotFound"
	case CodeUserNotFound:
		return "UserNotFound"
	case CodeUserAlreadyExists:
		return "UserAlreadyExists"
	case CodeInvalidCredentials:
		return "InvalidCredentials"
	case CodeInactiveAccount:
		return "InactiveAccount"
	case CodePermissionDenied:
		return "PermissionDenied"
	default:
		return "InternalError"
	}
}
