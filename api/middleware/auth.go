package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/shopfront-backend/api/responses"
	pkgauth "github.com/angelmondragon/shopfront-backend/pkg/auth"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/logger"
)

// Authenticator resolves a raw bearer token into the caller identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (pkgauth.Identity, error)
}

var errNotLoggedIn = pkgerrors.New(pkgerrors.CodeUnauthorized, "You are not login, Please login to get access this route")

// Authenticate validates a bearer token and seeds the request context with the identity.
func Authenticate(authenticator Authenticator, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				responses.WriteError(r.Context(), logg, w, errNotLoggedIn)
				return
			}

			identity, err := authenticator.Authenticate(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithIdentity(r.Context(), identity)
			if logg != nil {
				ctx = logg.WithActor(ctx, identity.UserID.String(), identity.Role.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) string {
	raw := strings.TrimSpace(header)
	if len(raw) < 7 || !strings.EqualFold(raw[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(raw[7:])
}
