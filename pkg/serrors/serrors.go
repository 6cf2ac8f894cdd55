// Package serrors provides semantic error kinds for the service. A Kind is a
// comparable sentinel describing what went wrong (not found, insufficient
// credits, ...); the Error wrapper attaches a message and an optional cause
// while staying fully compatible with errors.Is/As. The API layer maps kinds
// to HTTP status codes through HTTPStatus.
package serrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a marker interface implemented by all semantic error kinds created
// with NewKind. It allows distinguishing semantic kinds from ordinary errors.
type Kind interface {
	error
	isKind()
}

// kind is an unexported implementation of Kind used as a sentinel value for a
// semantic error category.
type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

// NewKind creates a new semantic error kind (a sentinel) with the provided
// name. Kinds are comparable and work with errors.Is/As through the Error
// wrapper.
func NewKind(name string) Kind { return kind{s: name} }

// Generic kinds shared by every component.
var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = NewKind("NOT_FOUND")
	// ErrUnauthorized indicates missing or invalid authentication.
	ErrUnauthorized = NewKind("UNAUTHORIZED")
	// ErrForbidden indicates the caller is authenticated but not allowed to perform the operation.
	ErrForbidden = NewKind("FORBIDDEN")
	// ErrBadRequest indicates the client sent invalid data.
	ErrBadRequest = NewKind("BAD_REQUEST")
	// ErrConflict indicates a state conflict (e.g. an illegal scan status transition).
	ErrConflict = NewKind("CONFLICT")
	// ErrInternal indicates an internal server error.
	ErrInternal = NewKind("INTERNAL")
	// ErrUnavailable indicates a dependency is temporarily unavailable.
	ErrUnavailable = NewKind("UNAVAILABLE")
)

// Domain kinds for the credit ledger and scan lifecycle.
var (
	// ErrInvalidURL indicates a target or competitor URL failed validation.
	ErrInvalidURL = NewKind("INVALID_URL")
	// ErrTierRestricted indicates the caller's subscription tier does not
	// allow the requested operation.
	ErrTierRestricted = NewKind("TIER_RESTRICTED")
	// ErrInsufficientCredits indicates the charge exceeds the current balance.
	ErrInsufficientCredits = NewKind("INSUFFICIENT_CREDITS")
	// ErrQueueSubmissionFailed indicates a scan could not be handed to the
	// job queue after the charge succeeded; it triggers a compensating refund.
	ErrQueueSubmissionFailed = NewKind("QUEUE_SUBMISSION_FAILED")
	// ErrScannerValidationFailed indicates one scanner's payload was rejected
	// by the result validator. Non-fatal to the scan as a whole.
	ErrScannerValidationFailed = NewKind("SCANNER_VALIDATION_FAILED")
)

// HTTPStatus maps an error to the HTTP status code the API should respond
// with. Unrecognized errors are treated as internal.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrTierRestricted):
		return http.StatusForbidden
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, ErrInsufficientCredits):
		return http.StatusPaymentRequired
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnavailable), errors.Is(err, ErrQueueSubmissionFailed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf returns the kind name carried by err, or INTERNAL when err has no
// semantic kind attached.
func CodeOf(err error) string {
	var se *Error
	if errors.As(err, &se) && se.Kind() != nil {
		return se.Kind().Error()
	}
	var k kind
	if errors.As(err, &k) {
		return k.Error()
	}

	return ErrInternal.Error()
}

// Error is a semantic error carrying a kind sentinel, an optional wrapped
// cause and an optional message. errors.Is matches either the kind or the
// cause chain.
type Error struct {
	kind Kind
	err  error
	msg  string
}

// With constructs a semantic error with the given kind and a formatted
// message. Use Wrap if there is also a concrete cause to keep.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap constructs a semantic error with the given kind, wrapping cause err
// and attaching a formatted message.
func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: err, msg: fmt.Sprintf(msgFmt, args...)}
}

// KindOnly creates a semantic error carrying only the kind.
func KindOnly(k Kind) *Error { return &Error{kind: k} }

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	default:
		if e.kind != nil {
			return e.kind.Error()
		}

		return "unknown error"
	}
}

// Unwrap returns the wrapped cause, enabling errors.Unwrap/Is/As traversal.
func (e *Error) Unwrap() error { return e.err }

// Is matches against either the kind sentinel or the wrapped cause chain.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}
	if e.kind != nil && errors.Is(e.kind, target) {
		return true
	}
	if e.err != nil && errors.Is(e.err, target) {
		return true
	}

	return false
}

// As matches against either the kind sentinel or the wrapped cause chain.
func (e *Error) As(target any) bool {
	if e == nil || target == nil {
		return false
	}
	if e.kind != nil && errors.As(e.kind, target) {
		return true
	}
	if e.err != nil && errors.As(e.err, target) {
		return true
	}

	return false
}

// Kind returns the semantic kind sentinel, or nil.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the message attached to this error.
func (e *Error) Message() string { return e.msg }
