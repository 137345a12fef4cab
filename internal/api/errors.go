package api

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Kind classifies a client error for retry and propagation decisions.
type Kind string

const (
	KindConfiguration Kind = "configuration"
	KindNetwork       Kind = "network"
	KindAuth          Kind = "auth"
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindRateLimit     Kind = "rate_limit"
	KindRemote        Kind = "remote"
)

// Error is the structured error surfaced by the YouTrack client. Status is
// zero for errors that never reached the tracker (network, validation).
type Error struct {
	Kind    Kind
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("youtrack: %s (HTTP %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("youtrack: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Retryable reports whether the error class is transient.
func (e *Error) Retryable() bool {
	return e.Kind == KindNetwork || e.Kind == KindRateLimit
}

// IsKind reports whether err carries the given classification.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// NewValidationError builds a KindValidation error for a rejected argument.
func NewValidationError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: err.Error(), cause: errors.WithStack(err)}
}

// classifyStatus maps a non-2xx response to the error taxonomy.
func classifyStatus(status int, message string) *Error {
	kind := KindRemote
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = KindAuth
	case status == http.StatusNotFound:
		kind = KindNotFound
	case status == http.StatusTooManyRequests:
		kind = KindRateLimit
	case status >= 500:
		kind = KindNetwork
	}
	return &Error{Kind: kind, Status: status, Message: message}
}
