package middleware

import (
	"log/slog"
	"net/http"

	"github.com/tasknest/tasknest/internal/apperr"
	"github.com/tasknest/tasknest/internal/auth"
)

// RequireAdmin rejects requesters whose role is not ADMIN.
// Must be applied after JWTAuth.
func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.UserFromContext(r.Context())
			if !ok {
				apperr.WriteJSON(w, http.StatusBadRequest, "JWT token is required")
				return
			}
			if !user.IsAdmin() {
				logger.Warn("admin permission denied",
					slog.Int64("user_id", user.ID),
					slog.String("role", string(user.Role)),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				apperr.WriteJSON(w, http.StatusForbidden, "admin permission required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
