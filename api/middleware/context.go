package middleware

import (
	"context"

	pkgauth "github.com/angelmondragon/shopfront-backend/pkg/auth"
)

type contextKey string

const ctxIdentity contextKey = "identity"

// WithIdentity stores the authenticated caller on the context.
func WithIdentity(ctx context.Context, identity pkgauth.Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxIdentity, identity)
}

// IdentityFromContext returns the caller resolved by Authenticate.
func IdentityFromContext(ctx context.Context) (pkgauth.Identity, bool) {
	if ctx == nil {
		return pkgauth.Identity{}, false
	}
	identity, ok := ctx.Value(ctxIdentity).(pkgauth.Identity)
	return identity, ok
}

func UserIDFromContext(ctx context.Context) string {
	identity, ok := IdentityFromContext(ctx)
	if !ok {
		return ""
	}
	return identity.UserID.String()
}

func RoleFromContext(ctx context.Context) string {
	identity, ok := IdentityFromContext(ctx)
	if !ok {
		return ""
	}
	return identity.Role.String()
}
