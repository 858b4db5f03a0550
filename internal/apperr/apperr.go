// Package apperr defines the error taxonomy shared by all services.
//
// Every deliberate failure the engine raises carries a Kind so the API layer
// can map it to an HTTP status without string matching. Anything without a
// Kind is treated as unexpected and must not leak internal detail to callers.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the caller.
type Kind uint8

const (
	// KindUnexpected is the zero value: an internal fault the caller can
	// only report, never handle.
	KindUnexpected Kind = iota
	KindNotFound
	KindUnauthorized
	KindValidation
	KindBusinessRule
	KindInsufficientBalance
	KindOfferLimitExceeded
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation"
	case KindBusinessRule:
		return "business_rule"
	case KindInsufficientBalance:
		return "insufficient_balance"
	case KindOfferLimitExceeded:
		return "offer_limit_exceeded"
	default:
		return "unexpected"
	}
}

// Error is a kinded error. Message is safe to surface to API callers.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a kinded error from a format string.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and safe message to an underlying error.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return New(KindUnauthorized, format, args...)
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, format, args...)
}

func BusinessRule(format string, args ...any) *Error {
	return New(KindBusinessRule, format, args...)
}

func InsufficientBalance(format string, args ...any) *Error {
	return New(KindInsufficientBalance, format, args...)
}

func OfferLimitExceeded(format string, args ...any) *Error {
	return New(KindOfferLimitExceeded, format, args...)
}

// KindOf extracts the Kind of err, or KindUnexpected if it carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsBusinessRule reports whether err is a domain-policy violation, including
// the insufficient-balance and offer-limit subtypes.
func IsBusinessRule(err error) bool {
	switch KindOf(err) {
	case KindBusinessRule, KindInsufficientBalance, KindOfferLimitExceeded:
		return true
	}
	return false
}
