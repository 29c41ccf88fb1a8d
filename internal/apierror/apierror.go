// Package apierror provides standardized error response structures for the API
// and the error taxonomy shared by the backend client and the handlers.
// Handlers branch on Kind, never on message text.
package apierror

import (
	"context"
	"errors"
	"net/http"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Validation failed", Fields: fields}
}

// RedirectError is returned on /api routes when the guard refuses a request.
type RedirectError struct {
	Detail   string `json:"detail"`
	Redirect string `json:"redirect"`
}

// Kind classifies an Error.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindHTTP      // backend answered with a non-2xx status
	KindTransport // backend unreachable, timed out, or circuit open
	KindCancelled // caller went away; never surfaced to the user
	KindConflict
	KindUnauthenticated
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindHTTP:
		return "http"
	case KindTransport:
		return "transport"
	case KindCancelled:
		return "cancelled"
	case KindConflict:
		return "conflict"
	case KindUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Error is the tagged error used across the service layer.
type Error struct {
	Kind    Kind
	Status  int // backend status for KindHTTP, zero otherwise
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func HTTP(status int, msg string) *Error {
	return &Error{Kind: KindHTTP, Status: status, Message: msg}
}

func Transport(msg string, err error) *Error {
	return &Error{Kind: KindTransport, Message: msg, Err: err}
}

func Cancelled(err error) *Error {
	return &Error{Kind: KindCancelled, Message: "request cancelled", Err: err}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Unauthenticated(msg string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: msg}
}

// KindOf reports the Kind of err. A bare context cancellation counts as
// KindCancelled so callers can drop it silently.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, context.Canceled) {
		return KindCancelled
	}
	return KindUnknown
}

// IsCancelled is shorthand for KindOf(err) == KindCancelled.
func IsCancelled(err error) bool {
	return KindOf(err) == KindCancelled
}

// StatusFor maps an error to the status code this server answers with.
// 4xx from the backend pass through; 5xx and transport failures become 502.
func StatusFor(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		if errors.Is(err, context.Canceled) {
			return StatusClientClosed
		}
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindConflict:
		return http.StatusConflict
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindHTTP:
		if e.Status >= 400 && e.Status < 500 {
			return e.Status
		}
		return http.StatusBadGateway
	case KindTransport:
		return http.StatusBadGateway
	case KindCancelled:
		return StatusClientClosed
	default:
		return http.StatusInternalServerError
	}
}

// StatusClientClosed is logged when the client abandoned the request.
const StatusClientClosed = 499
