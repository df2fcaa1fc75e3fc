package apperrors

import (
	"errors"
	"fmt"
	"time"
)

// Kind is the closed set of error categories the API surfaces. Handlers and
// callers branch on Kind, never on message text.
type Kind string

const (
	KindAuthorization    Kind = "authorization"     // actor does not own the session
	KindAuthentication   Kind = "authentication"    // wrong password / invalid credentials
	KindRateLimit        Kind = "rate_limit"        // decrypt budget exhausted
	KindDetectionInput   Kind = "detection_input"   // malformed detector spans
	KindNotFound         Kind = "not_found"         // unknown session / resource
	KindVaultUnavailable Kind = "vault_unavailable" // encryption backend failure
	KindAuditWrite       Kind = "audit_write"       // audit store failure (fail-closed)
	KindValidation       Kind = "validation"        // malformed request payload
	KindInternal         Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error

	// RetryAfter is set for KindRateLimit: time until the oldest counted
	// attempt ages out of the sliding window.
	RetryAfter time.Duration
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match two *Error values by Kind alone.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func RateLimited(message string, retryAfter time.Duration) *Error {
	return &Error{Kind: KindRateLimit, Message: message, RetryAfter: retryAfter}
}

// KindOf extracts the Kind from any error in the chain, defaulting to
// KindInternal for plain errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
