package apiclient

import (
	"context"
	"strings"
)

type tokenKey struct{}

// WithToken returns a child context carrying the upstream JWT.
// An empty token returns ctx unchanged.
func WithToken(ctx context.Context, token string) context.Context {
	token = strings.TrimSpace(token)
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the JWT carried by ctx, or "".
func TokenFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(tokenKey{}).(string); ok {
		return v
	}
	return ""
}
