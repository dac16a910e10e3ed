package auth

import (
	"context"

	"github.com/debemdeboas/the-showcase/internal/model"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const ContextKeyUserID ContextKey = "userID"

func ContextWithUserID(ctx context.Context, userID model.UserID) context.Context {
	return context.WithValue(ctx, ContextKeyUserID, userID)
}

func UserIDFromContext(ctx context.Context) (model.UserID, bool) {
	userID, ok := ctx.Value(ContextKeyUserID).(model.UserID)
	return userID, ok
}
