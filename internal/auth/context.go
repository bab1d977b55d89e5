package auth

import (
	"context"

	"github.com/tasknest/tasknest/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const authUserKey contextKey = "auth_user"

// ContextWithUser adds the authenticated requester to the context.
func ContextWithUser(ctx context.Context, user model.AuthUser) context.Context {
	return context.WithValue(ctx, authUserKey, user)
}

// UserFromContext retrieves the authenticated requester.
// The second result is false when the request is anonymous.
func UserFromContext(ctx context.Context) (model.AuthUser, bool) {
	user, ok := ctx.Value(authUserKey).(model.AuthUser)
	return user, ok
}

// MustUserFromContext retrieves the authenticated requester.
// Panics if not present (use only when auth middleware has run).
func MustUserFromContext(ctx context.Context) model.AuthUser {
	user, ok := UserFromContext(ctx)
	if !ok {
		panic("auth user not found - ensure auth middleware is applied")
	}
	return user
}
