// Package apperr defines the error kinds surfaced to the HTTP boundary.
// Services return these; handlers translate them to status codes.
package apperr

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// Kind classifies an application error.
type Kind int

const (
	// KindServer is an unexpected internal failure.
	KindServer Kind = iota
	// KindInvalidRequest is a client-correctable precondition failure.
	KindInvalidRequest
	// KindAuth is a credential mismatch.
	KindAuth
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInvalidRequest:
		return "invalid_request"
	case KindAuth:
		return "auth"
	default:
		return "server"
	}
}

// Error is an application error with a client-facing message.
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

func (e *Error) Unwrap() error {
	return e.Err
}

// InvalidRequest returns a KindInvalidRequest error.
func InvalidRequest(message string) *Error {
	return &Error{Kind: KindInvalidRequest, Message: message}
}

// Auth returns a KindAuth error.
func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

// Server returns a KindServer error wrapping cause (which may be nil).
func Server(message string, cause error) *Error {
	return &Error{Kind: KindServer, Message: message, Err: cause}
}

// KindOf reports the kind of err. Errors that are not *Error are KindServer.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindServer
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// HTTPStatus maps err to a response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidRequest:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing message for err.
// Errors without a known kind get a generic message so internals do not leak.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}

// StatusName renders a status code as an upper snake-case name,
// e.g. 400 -> "BAD_REQUEST".
func StatusName(code int) string {
	text := http.StatusText(code)
	if text == "" {
		return "UNKNOWN"
	}
	text = strings.ReplaceAll(text, "-", "_")
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}

// Response is the JSON error body returned to clients.
type Response struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NewResponse builds an error body for a status code.
func NewResponse(code int, message string) Response {
	return Response{Code: code, Status: StatusName(code), Message: message}
}

// WriteJSON writes an error body with the given status code.
func WriteJSON(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(NewResponse(code, message))
}
