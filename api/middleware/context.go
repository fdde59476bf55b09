package middleware

import (
	"context"

	"github.com/angelmondragon/laptopshop/pkg/enums"
	"github.com/google/uuid"
)

type contextKey string

const (
	ctxCurrentUser contextKey = "current_user"
	ctxRequestID   contextKey = "request_id"
)

// CurrentUser is the signed-in user resolved from the session token.
type CurrentUser struct {
	ID        uuid.UUID
	Email     string
	Role      enums.UserRole
	SessionID string
}

// WithCurrentUser injects the signed-in user into the context.
func WithCurrentUser(ctx context.Context, user CurrentUser) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCurrentUser, user)
}

// CurrentUserFromContext returns the signed-in user, if any.
func CurrentUserFromContext(ctx context.Context) (CurrentUser, bool) {
	if ctx == nil {
		return CurrentUser{}, false
	}
	user, ok := ctx.Value(ctxCurrentUser).(CurrentUser)
	if !ok || user.ID == uuid.Nil {
		return CurrentUser{}, false
	}
	return user, true
}

// UserIDFromContext returns uuid.Nil for anonymous requests.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	user, _ := CurrentUserFromContext(ctx)
	return user.ID
}
