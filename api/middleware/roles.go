package middleware

import (
	"net/http"

	"github.com/angelmondragon/shopfront-backend/api/responses"
	pkgauth "github.com/angelmondragon/shopfront-backend/pkg/auth"
	"github.com/angelmondragon/shopfront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/logger"
)

var ErrRoleNotAllowed = pkgerrors.New(pkgerrors.CodeForbidden, "You are not allowed to access this route")

// RequireRoles admits callers whose role is listed. It must run after Authenticate.
func RequireRoles(logg *logger.Logger, roles ...enums.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				responses.WriteError(r.Context(), logg, w, errNotLoggedIn)
				return
			}
			if err := authorize(identity, roles); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func authorize(identity pkgauth.Identity, allowed []enums.Role) error {
	if identity.HasRole(allowed...) {
		return nil
	}
	return ErrRoleNotAllowed
}
