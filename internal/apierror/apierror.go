// Package apierror provides standardized error response structures for the API
// plus the typed domain errors that services return. All errors surfaced to
// clients go through this package to ensure consistency and to prevent leaking
// internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"net/http"
)

// Kind clasifica los errores de negocio que producen los servicios.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindForbidden
	KindConflict
	KindInvalidState
	KindUnauthorized
)

// Error es el error de dominio tipado. Los handlers lo traducen a HTTP con
// Status(); cualquier otro error se trata como 500.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string { return e.Detail }

// Status mapea el Kind al código HTTP correspondiente.
func (e *Error) Status() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindInvalidState:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func NotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Detail: msg} }
func Forbidden(msg string) *Error    { return &Error{Kind: KindForbidden, Detail: msg} }
func Conflict(msg string) *Error     { return &Error{Kind: KindConflict, Detail: msg} }
func InvalidState(msg string) *Error { return &Error{Kind: KindInvalidState, Detail: msg} }
func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Detail: msg} }

// IsKind reporta si err es un *Error del Kind dado.
func IsKind(err error, k Kind) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == k
}

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
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
