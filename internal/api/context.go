package api

import (
	"context"

	"github.com/terra-clan/company-site/internal/auth"
)

type contextKey string

const claimsContextKey contextKey = "admin_claims"

// ClaimsFromContext extracts the admin claims set by requireAdmin
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, ok := ctx.Value(claimsContextKey).(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

// ContextWithClaims adds admin claims to context
func ContextWithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}
