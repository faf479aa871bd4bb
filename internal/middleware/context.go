package middleware

import (
	"context"

	"boty-storefront/internal/model"
)

type contextKey string

const (
	adminClaimsContextKey contextKey = "admin_claims"
	adminHolderContextKey contextKey = "admin_holder"
)

type adminHolder struct {
	email string
}

func withAdminHolder(ctx context.Context, h *adminHolder) context.Context {
	return context.WithValue(ctx, adminHolderContextKey, h)
}

// withAdmin attaches verified claims for logging. Handlers still verify
// the cookie themselves.
func withAdmin(ctx context.Context, claims model.AdminClaims) context.Context {
	if h, ok := ctx.Value(adminHolderContextKey).(*adminHolder); ok {
		h.email = claims.Email
	}
	return context.WithValue(ctx, adminClaimsContextKey, claims)
}

// adminFromContext returns the claims the guard attached, if any.
func adminFromContext(ctx context.Context) (model.AdminClaims, bool) {
	claims, ok := ctx.Value(adminClaimsContextKey).(model.AdminClaims)
	return claims, ok
}
