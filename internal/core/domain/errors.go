package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure for presentation to the user.
//
// Kinds are the only thing views branch on; the underlying transport
// error is kept as the cause for logging.
type ErrorKind string

const (
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindUnreachable        ErrorKind = "unreachable"
	KindNotFound           ErrorKind = "not_found"
	KindUnauthorized       ErrorKind = "unauthorized"
	KindTimeout            ErrorKind = "timeout"
	KindMalformedResponse  ErrorKind = "malformed_response"
	KindValidation         ErrorKind = "validation"
	KindUnknown            ErrorKind = "unknown"
)

// Op names the user-level operation a failure belongs to.
type Op string

const (
	OpLogin  Op = "login"
	OpList   Op = "list"
	OpGet    Op = "get"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Error is a classified client error.
type Error struct {
	Kind    ErrorKind // Classification used by views
	Op      Op        // Operation that failed (may be empty)
	Message string    // Human-readable message, safe to show
	Details string    // Optional additional details (validation field errors)
	Cause   error     // Underlying transport or HTTP error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on Kind, and on Op when the target names one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}
	return t.Op == "" || e.Op == t.Op
}

// NewError creates a new Error with the given kind and message.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}

// WithOp returns a copy of the error bound to op, with the message
// replaced by the op-specific wording for the kind.
func (e *Error) WithOp(op Op) *Error {
	return &Error{
		Kind:    e.Kind,
		Op:      op,
		Message: Describe(e.Kind, op),
		Details: e.Details,
		Cause:   e.Cause,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *Error) WithDetails(details string) *Error {
	return &Error{
		Kind:    e.Kind,
		Op:      e.Op,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *Error) WithCause(cause error) *Error {
	return &Error{
		Kind:    e.Kind,
		Op:      e.Op,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// KindOf extracts the error kind, or KindUnknown for unclassified errors.
// A nil error has no kind.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// UserMessage returns the text to show for err. Unclassified errors
// get a generic sentence so raw transport detail never reaches a view.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		if de.Details != "" {
			return de.Message + ": " + de.Details
		}
		return de.Message
	}
	return Describe(KindUnknown, "")
}

var (
	// ErrInvalidCredentials indicates the API rejected the username/password.
	ErrInvalidCredentials = NewError(KindInvalidCredentials, Describe(KindInvalidCredentials, ""))

	// ErrUnreachable indicates no response was received.
	ErrUnreachable = NewError(KindUnreachable, Describe(KindUnreachable, ""))

	// ErrNotFound indicates the requested employee does not exist.
	ErrNotFound = NewError(KindNotFound, Describe(KindNotFound, ""))

	// ErrUnauthorized indicates the session expired or was rejected.
	ErrUnauthorized = NewError(KindUnauthorized, Describe(KindUnauthorized, ""))

	// ErrTimeout indicates the view gave up waiting for a response.
	ErrTimeout = NewError(KindTimeout, Describe(KindTimeout, ""))

	// ErrMalformedResponse indicates a 2xx response without the expected payload.
	ErrMalformedResponse = NewError(KindMalformedResponse, Describe(KindMalformedResponse, ""))

	// ErrValidation indicates input failed client-side checks before submission.
	ErrValidation = NewError(KindValidation, Describe(KindValidation, ""))

	// ErrUnknown covers every other failure.
	ErrUnknown = NewError(KindUnknown, Describe(KindUnknown, ""))
)
