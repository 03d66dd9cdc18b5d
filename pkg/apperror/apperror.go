package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping.
type Kind string

const (
	KindValidation       Kind = "validation_error"
	KindConflict         Kind = "conflict"
	KindNotFound         Kind = "not_found"
	KindInvalidOrExpired Kind = "invalid_or_expired"
	KindTooManyAttempts  Kind = "too_many_attempts"
	KindUnauthorized     Kind = "unauthorized"
	KindDelivery         Kind = "delivery_error"
	KindStorage          Kind = "storage_error"
	KindConfiguration    Kind = "configuration_error"
)

// Error carries a Kind, a caller-safe message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Kind sentinels for errors.Is checks.
var (
	ErrValidation       = &Error{Kind: KindValidation}
	ErrConflict         = &Error{Kind: KindConflict}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrInvalidOrExpired = &Error{Kind: KindInvalidOrExpired}
	ErrTooManyAttempts  = &Error{Kind: KindTooManyAttempts}
	ErrUnauthorized     = &Error{Kind: KindUnauthorized}
	ErrDelivery         = &Error{Kind: KindDelivery}
	ErrStorage          = &Error{Kind: KindStorage}
	ErrConfiguration    = &Error{Kind: KindConfiguration}
)

func Validation(message string) *Error { return New(KindValidation, message) }

func Conflict(message string) *Error { return New(KindConflict, message) }

func NotFound(message string) *Error { return New(KindNotFound, message) }

func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }

func InvalidOrExpired() *Error { return New(KindInvalidOrExpired, "invalid or expired code") }

func TooManyAttempts() *Error {
	return New(KindTooManyAttempts, "too many attempts, please request a new code")
}

func Delivery(err error) *Error { return Wrap(KindDelivery, "failed to deliver email", err) }

func Storage(err error) *Error { return Wrap(KindStorage, "storage unavailable", err) }

func Configuration(message string) *Error { return New(KindConfiguration, message) }

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// MessageOf returns the caller-safe message of err, or fallback.
func MessageOf(err error, fallback string) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return fallback
}
