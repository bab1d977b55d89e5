package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tasknest/tasknest/internal/apperr"
	"github.com/tasknest/tasknest/internal/auth"
	"github.com/tasknest/tasknest/internal/model"
)

// TokenParser turns a raw bearer token into the requester it identifies.
type TokenParser interface {
	Parse(raw string) (model.AuthUser, error)
}

// AuthConfig holds configuration for the JWT middleware.
type AuthConfig struct {
	Logger *slog.Logger
	Tokens TokenParser
}

// JWTAuth authenticates requests by their bearer token and stores the
// requester in the request context.
func JWTAuth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := auth.ExtractBearer(r.Header.Get("Authorization"))
			if !ok {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				apperr.WriteJSON(w, http.StatusBadRequest, "JWT token is required")
				return
			}

			user, err := cfg.Tokens.Parse(raw)
			if err != nil {
				reason := "invalid_token"
				message := auth.ErrTokenInvalid.Error()
				if errors.Is(err, auth.ErrTokenExpired) {
					reason = "expired_token"
					message = auth.ErrTokenExpired.Error()
				}
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				apperr.WriteJSON(w, http.StatusUnauthorized, message)
				return
			}

			cfg.Logger.Debug("authentication successful",
				slog.Int64("user_id", user.ID),
				slog.String("role", string(user.Role)),
				slog.String("endpoint", r.Method+" "+r.URL.Path),
				slog.String("request_id", GetRequestID(r.Context())),
			)

			ctx := auth.ContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
