package action

import (
	"errors"
	"fmt"
)

// Kind classifies action errors so callers can map them onto transport
// responses without string matching.
type Kind string

const (
	// KindValidation indicates bad or missing parameters.
	KindValidation Kind = "validation"
	// KindNotFound indicates an unknown action, session, or resource.
	KindNotFound Kind = "not_found"
	// KindExternalTool indicates an external tool failed or is missing.
	KindExternalTool Kind = "external_tool"
	// KindConfig indicates a configuration operation failed.
	KindConfig Kind = "config"
	// KindResourceExhausted indicates a capacity ceiling was hit.
	KindResourceExhausted Kind = "resource_exhausted"
)

// Error is the error type returned by action handlers and the dispatcher.
type Error struct {
	// Kind classifies the failure.
	Kind Kind
	// Message is a human-readable description.
	Message string
	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error with the given kind and message.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError creates an Error wrapping an underlying cause.
func WrapError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the Kind from an error chain. Unclassified errors
// report KindValidation for nil-safe handling at the transport edge.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindValidation
}
