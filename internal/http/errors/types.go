// Package errors define el formato de error de la API y los errores
// predefinidos que devuelven controllers, guards y middlewares.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError es el error estándar del borde HTTP.
// Message es un código estable (ej. AUTH_PROVIDER_NOT_SPECIFIED).
type AppError struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Detail     string `json:"detail,omitempty"`
	Err        error  `json:"-"` // causa, sólo para logs
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.StatusCode, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is compara por código y status, así errors.Is funciona con las copias
// que devuelven WithDetail/WithCause.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Message == t.Message && e.StatusCode == t.StatusCode
}

// New crea un AppError.
func New(status int, message string) *AppError {
	return &AppError{Message: message, StatusCode: status}
}

// FromError convierte cualquier error en AppError. Lo que no sea AppError
// se reporta como 500 conservando la causa.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternalServerError.WithCause(err)
}

// WithDetail devuelve una COPIA con detalle.
func (e *AppError) WithDetail(detail string) *AppError {
	newErr := *e
	newErr.Detail = detail
	return &newErr
}

// WithCause devuelve una COPIA con la causa.
func (e *AppError) WithCause(err error) *AppError {
	newErr := *e
	newErr.Err = err
	return &newErr
}

// =================================================================================
// ERRORES PREDEFINIDOS
// =================================================================================

var (
	ErrBadRequest = &AppError{
		Message:    "BAD_REQUEST",
		StatusCode: http.StatusBadRequest,
	}

	ErrInvalidCallback = &AppError{
		Message:    "INVALID_CALLBACK",
		StatusCode: http.StatusBadRequest,
	}
)

var (
	ErrTokenMissing = &AppError{
		Message:    "TOKEN_MISSING",
		StatusCode: http.StatusUnauthorized,
	}

	ErrTokenInvalid = &AppError{
		Message:    "TOKEN_INVALID",
		StatusCode: http.StatusUnauthorized,
	}

	ErrTokenExpired = &AppError{
		Message:    "TOKEN_EXPIRED",
		StatusCode: http.StatusUnauthorized,
	}

	ErrAccessDenied = &AppError{
		Message:    "ACCESS_DENIED",
		StatusCode: http.StatusUnauthorized,
	}
)

var (
	// ErrAuthProviderNotSpecified: el proveedor pedido no está habilitado.
	// Se responde 404 para no revelar qué proveedores existen.
	ErrAuthProviderNotSpecified = &AppError{
		Message:    "AUTH_PROVIDER_NOT_SPECIFIED",
		StatusCode: http.StatusNotFound,
	}

	ErrNotFound = &AppError{
		Message:    "NOT_FOUND",
		StatusCode: http.StatusNotFound,
	}

	ErrMethodNotAllowed = &AppError{
		Message:    "METHOD_NOT_ALLOWED",
		StatusCode: http.StatusMethodNotAllowed,
	}

	ErrRateLimitExceeded = &AppError{
		Message:    "RATE_LIMIT_EXCEEDED",
		StatusCode: http.StatusTooManyRequests,
	}
)

var (
	ErrInternalServerError = &AppError{
		Message:    "INTERNAL_SERVER_ERROR",
		StatusCode: http.StatusInternalServerError,
	}

	ErrBadGateway = &AppError{
		Message:    "BAD_GATEWAY",
		StatusCode: http.StatusBadGateway,
	}

	ErrServiceUnavailable = &AppError{
		Message:    "SERVICE_UNAVAILABLE",
		StatusCode: http.StatusServiceUnavailable,
	}
)
