package middleware

import "context"

type contextKey string

const (
	ctxAdminID    contextKey = "admin_id"
	ctxAdminEmail contextKey = "admin_email"
	ctxAccessID   contextKey = "access_id"
)

func AdminIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAdminID).(string); ok {
		return v
	}
	return ""
}

func AdminEmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAdminEmail).(string); ok {
		return v
	}
	return ""
}

// AccessIDFromContext returns the session identifier of the presented
// access token, used by logout to revoke the right session.
func AccessIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessID).(string); ok {
		return v
	}
	return ""
}

// WithAdminID injects the admin identifier, primarily for tests.
func WithAdminID(ctx context.Context, adminID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAdminID, adminID)
}

// WithAccessID injects the access session identifier, primarily for tests.
func WithAccessID(ctx context.Context, accessID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAccessID, accessID)
}
