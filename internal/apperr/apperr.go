// Package apperr is the typed result-sum the Design Notes call for in place
// of the source's exception-as-control-flow: every error that crosses a
// service boundary carries a stable Kind plus an advisory message.
package apperr

import "fmt"

// Kind is a stable error classification (spec.md §7). The HTTP layer (out of
// scope) maps each Kind to a status code; the Kind itself never changes
// across releases even if the message wording does.
type Kind string

const (
	InvalidArgument      Kind = "invalid_argument"
	NotFound             Kind = "not_found"
	Conflict             Kind = "conflict"
	SeatUnavailable      Kind = "seat_unavailable"
	FlightNotBookable    Kind = "flight_not_bookable"
	PriceChanged         Kind = "price_changed"
	HoldExpired          Kind = "hold_expired"
	InvalidState         Kind = "invalid_state"
	PaymentFailed        Kind = "payment_failed"
	Forbidden            Kind = "forbidden"
	Internal             Kind = "internal"
	PassengerCountExceeds Kind = "passenger_count_exceeds_limit"
	InvalidTier          Kind = "invalid_tier"
)

// Error is the concrete error type carried across the core's boundaries.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is/As to see through to the underlying cause.
func (e *Error) Unwrap() error { return e.cause }

// New builds an Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error that wraps an underlying infrastructure error.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// Is reports whether err is an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if as, ok := err.(*Error); ok {
		e = as
	} else {
		return false
	}
	return e.Kind == kind
}

// KindOf extracts the Kind from err, defaulting to Internal for anything not
// produced by this package (e.g. a raw infra error that escaped a wrap).
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return Internal
}

// Retryable reports whether a Kind represents a transient condition that the
// retry combinator (pkg/retry) may legitimately retry.
func (k Kind) Retryable() bool {
	return k == Conflict || k == Internal
}
