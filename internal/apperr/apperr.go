// internal/apperr/apperr.go
package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// Re-export standard library helpers so callers only import one errors package.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)

// Code is a machine-readable error classification.
type Code string

const (
	CodeValidation    Code = "VALIDATION"
	CodeUnprocessable Code = "UNPROCESSABLE"
	CodeUnauthorized  Code = "UNAUTHORIZED"
	CodeForbidden     Code = "FORBIDDEN"
	CodeNotFound      Code = "NOT_FOUND"
	CodeConflict      Code = "CONFLICT"
	CodeUpstream      Code = "UPSTREAM"
	CodeInternal      Code = "INTERNAL"
)

// HTTPStatus maps a code to its HTTP status.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnprocessable:
		return http.StatusUnprocessableEntity
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error carrying a code, a short user-facing message, and
// an optional wrapped cause that is never exposed externally.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error with the same code, so handlers can branch with
// errors.Is against sentinel constructors.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) HTTPStatus() int { return e.Code.HTTPStatus() }

func Validation(msg string) *Error    { return &Error{Code: CodeValidation, Message: msg} }
func Unprocessable(msg string) *Error { return &Error{Code: CodeUnprocessable, Message: msg} }
func Unauthorized(msg string) *Error  { return &Error{Code: CodeUnauthorized, Message: msg} }
func Forbidden(msg string) *Error     { return &Error{Code: CodeForbidden, Message: msg} }
func NotFound(msg string) *Error      { return &Error{Code: CodeNotFound, Message: msg} }
func Conflict(msg string) *Error      { return &Error{Code: CodeConflict, Message: msg} }

// Upstream wraps a failure from an external collaborator (store, webhook).
func Upstream(msg string, cause error) *Error {
	return &Error{Code: CodeUpstream, Message: msg, cause: cause}
}

// Internal wraps an unexpected failure; the cause stays in logs only.
func Internal(msg string, cause error) *Error {
	return &Error{Code: CodeInternal, Message: msg, cause: cause}
}

type errorBody struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// Write renders err as the standard error envelope. Unclassified errors
// become 500s with a generic message; their cause is logged, not leaked.
func Write(w http.ResponseWriter, logger *slog.Logger, err error) {
	var domainErr *Error
	if !errors.As(err, &domainErr) {
		domainErr = Internal("internal error", err)
	}

	status := domainErr.HTTPStatus()
	if status >= http.StatusInternalServerError && logger != nil {
		logger.Error("request failed", "code", domainErr.Code, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]errorBody{
		"error": {Code: domainErr.Code, Message: domainErr.Message},
	})
}
