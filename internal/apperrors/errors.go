package apperrors

import "errors"

// Error is the domain error type with a code and optional per-field details.
type Error struct {
	Code    Code     // Machine-readable error code
	Message string   // Client-facing message
	Fields  []string // Per-field validation messages
	Cause   error    // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// ValidationMessage is the message of every request validation error.
const ValidationMessage = "Schema validation error"

// Validation creates a validation error carrying per-field messages.
func Validation(message string, fields ...string) *Error {
	return &Error{Code: CodeValidation, Message: message, Fields: fields}
}

// Sentinels for errors.Is checks; matching is by code only.
var (
	ErrTaskNotFound       = New(CodeTaskNotFound, "task not found")
	ErrUserNotFound       = New(CodeUserNotFound, "user not found")
	ErrUserAlreadyExists  = New(CodeUserAlreadyExists, "user already exists")
	ErrInvalidCredentials = New(CodeInvalidCredentials, "invalid credentials")
	ErrInactiveAccount    = New(CodeInactiveAccount, "inactive user")
	ErrPermissionDenied   = New(CodePermissionDenied, "not enough permissions")
	ErrValidation         = New(CodeValidation, "schema validation error")
)

// From extracts the domain error from err's chain. Anything that is not a
// domain error is reported as an internal error wrapping err.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(CodeInternal, "Internal Server Error", err)
}
