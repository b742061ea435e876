// This file implements a small builder for JSON API responses and the
// mapping from domain errors to HTTP status codes.

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"carteira/internal/core"
)

// APIResponseBuilder provides a fluent API for building JSON responses.
type APIResponseBuilder struct {
	statusCode int
	body       []byte
	headers    map[string]string
}

// NewAPIResponse creates a new response builder with default 200 status.
func NewAPIResponse() *APIResponseBuilder {
	return &APIResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *APIResponseBuilder) Status(code int) *APIResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *APIResponseBuilder) Header(name, value string) *APIResponseBuilder {
	b.headers[name] = value
	return b
}

// JSON marshals v as the response body.
func (b *APIResponseBuilder) JSON(v interface{}) *APIResponseBuilder {
	b.headers["Content-Type"] = "application/json; charset=utf-8"
	body, err := json.Marshal(v)
	if err != nil {
		b.statusCode = http.StatusInternalServerError
		b.body = []byte(`{"error":"encoding failed"}`)
		return b
	}
	b.body = body
	return b
}

// Body sets the response body as raw bytes.
func (b *APIResponseBuilder) Body(content []byte) *APIResponseBuilder {
	b.body = content
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *APIResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// ErrorResponse creates a standard JSON error response.
func ErrorResponse(statusCode int, message string) *APIResponseBuilder {
	return NewAPIResponse().
		Status(statusCode).
		JSON(map[string]string{"error": message})
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *APIResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

// UnprocessableEntityError creates a 422 Unprocessable Entity error response.
func UnprocessableEntityError(message string) *APIResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

// InternalServerError creates a 500 Internal Server Error response.
func InternalServerError(message string) *APIResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

// NotFoundError creates a 404 Not Found error response.
func NotFoundError(message string) *APIResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

// MethodNotAllowedError creates a 405 Method Not Allowed error response.
func MethodNotAllowedError(allowedMethods string) *APIResponseBuilder {
	return ErrorResponse(http.StatusMethodNotAllowed, "method not allowed").
		Header("Allow", allowedMethods)
}

// statusForError maps domain errors to HTTP status codes. Validation
// failures are 422, unknown entities 404, malformed snapshots 400.
func statusForError(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidSnapshot):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrUnknownCurrency):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// DomainError builds an error response for a domain failure, hiding
// internals behind a generic message for unexpected errors.
func DomainError(err error) *APIResponseBuilder {
	status := statusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	return ErrorResponse(status, strings.TrimSpace(message))
}
