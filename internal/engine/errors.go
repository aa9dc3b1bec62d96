package engine

import (
	"errors"
	"fmt"
)

// ErrorKind classifies recoverable failures so callers can render a 4xx
// (or 503 for upstream failures) without parsing messages.
type ErrorKind string

const (
	KindInvalidConfiguration ErrorKind = "invalid_configuration"
	KindNotReady             ErrorKind = "not_ready"
	KindUnsatisfiable        ErrorKind = "unsatisfiable"
	KindNotFound             ErrorKind = "not_found"
	KindInvalidURL           ErrorKind = "invalid_url"
	KindUpstreamUnavailable  ErrorKind = "upstream_unavailable"
)

// Error is a validation failure. Field and Minimum are set by readiness
// checks to report which requirement is unmet.
type Error struct {
	Kind    ErrorKind
	Message string
	Field   string
	Minimum int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrEmptyBracket is returned when a bracket is requested without participants.
// Callers must run the readiness check first, so this is not a validation error.
var ErrEmptyBracket = errors.New("bracket requires at least one participant")

// InvalidConfig reports an internally inconsistent configuration
func InvalidConfig(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidConfiguration, Message: fmt.Sprintf(format, args...)}
}

// NotReady reports an unmet minimum on field
func NotReady(field string, minimum int, format string, args ...any) *Error {
	return &Error{Kind: KindNotReady, Field: field, Minimum: minimum, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing item referenced by the caller
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies an upstream error under kind
func Wrap(kind ErrorKind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of a validation error, or "" for anything else
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsValidation reports whether err is a recoverable validation failure
func IsValidation(err error) bool {
	return KindOf(err) != ""
}
