package middleware

import (
	"context"

	"github.com/AliCapone21/nonkabob-guliston/internal/cart"
)

type contextKey string

const (
	ctxCartToken    contextKey = "cart_token"
	ctxCartStore    contextKey = "cart_store"
	ctxAdminSession contextKey = "admin_session"
)

// WithCartSession injects the cart session token and its store.
func WithCartSession(ctx context.Context, token string, store *cart.Store) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxCartToken, token)
	return context.WithValue(ctx, ctxCartStore, store)
}

func CartTokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxCartToken).(string); ok {
		return v
	}
	return ""
}

func CartStoreFromContext(ctx context.Context) *cart.Store {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxCartStore).(*cart.Store); ok {
		return v
	}
	return nil
}

// WithAdminSession records the authenticated dashboard session id.
func WithAdminSession(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAdminSession, sessionID)
}

func AdminSessionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAdminSession).(string); ok {
		return v
	}
	return ""
}
