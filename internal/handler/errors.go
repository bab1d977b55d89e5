package handler

import (
	"log/slog"
	"net/http"

	"github.com/tasknest/tasknest/internal/apperr"
)

// ErrorWriter translates service errors into the standard error body.
type ErrorWriter struct {
	logger *slog.Logger
}

// NewErrorWriter creates an ErrorWriter.
func NewErrorWriter(logger *slog.Logger) *ErrorWriter {
	return &ErrorWriter{logger: logger.With("component", "error_translator")}
}

// Write answers with the status and message for err. Server and unknown
// errors are logged with their cause; the client sees only the message.
func (e *ErrorWriter) Write(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		e.logger.ErrorContext(r.Context(), "internal_error",
			"error", err,
			"endpoint", r.Method+" "+r.URL.Path,
		)
	}
	apperr.WriteJSON(w, status, apperr.Message(err))
}
