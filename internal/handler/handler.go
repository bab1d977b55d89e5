// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tasknest/tasknest/internal/apperr"
)

// Validator is implemented by request bodies that check their own fields.
type Validator interface {
	Validate() error
}

// NotFound handles 404 responses.
func NotFound(w http.ResponseWriter, r *http.Request) {
	apperr.WriteJSON(w, http.StatusNotFound, "resource not found")
}

// MethodNotAllowed handles 405 responses.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	apperr.WriteJSON(w, http.StatusMethodNotAllowed, "method not allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON decodes the request body into dst and validates it.
// Unknown fields are ignored; a missing or malformed body is InvalidRequest.
func decodeJSON(r *http.Request, dst Validator) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperr.InvalidRequest("request body too large")
		case errors.Is(err, io.EOF):
			return apperr.InvalidRequest("request body is required")
		default:
			return apperr.InvalidRequest("invalid request body")
		}
	}
	return dst.Validate()
}

// pathID parses a positive int64 path parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.InvalidRequest("invalid path variable: " + name)
	}
	return id, nil
}

// queryInt parses an optional int query parameter, returning 0 when absent.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.InvalidRequest("invalid query parameter: " + name)
	}
	return n, nil
}
