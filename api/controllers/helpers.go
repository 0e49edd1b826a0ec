package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/shopfront-backend/api/middleware"
	"github.com/angelmondragon/shopfront-backend/api/responses"
	pkgauth "github.com/angelmondragon/shopfront-backend/pkg/auth"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/logger"
	"github.com/angelmondragon/shopfront-backend/pkg/pagination"
	"github.com/angelmondragon/shopfront-backend/pkg/query"
)

var errMissingIdentity = pkgerrors.New(pkgerrors.CodeUnauthorized, "You are not login, Please login to get access this route")

func requireIdentity(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (pkgauth.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		responses.WriteError(r.Context(), logg, w, errMissingIdentity)
		return pkgauth.Identity{}, false
	}
	return identity, true
}

// writeProjectedList applies the fields projection before sending a page.
func writeProjectedList[T any](ctx context.Context, logg *logger.Logger, w http.ResponseWriter, items []T, meta pagination.Meta, projection query.Projection) {
	out, err := query.Project(items, projection)
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "project list"))
		return
	}
	responses.WriteList(w, out, len(items), meta)
}
