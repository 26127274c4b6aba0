package auth

import "context"

type contextKey struct{}

// WithRole returns a context carrying the caller's role.
func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, contextKey{}, role)
}

// RoleFromContext returns the caller's role, or an empty string when
// no role has been resolved.
func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(contextKey{}).(string)
	return role
}
