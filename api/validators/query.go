package validators

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/query"
)

// ParseUUIDParam reads a route parameter that must hold a uuid.
func ParseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, name+" is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid "+name+" format").WithDetails(map[string]any{name: "must be a valid id"})
	}
	return id, nil
}

// ParseListQuery turns the request's query string into a list spec for schema.
func ParseListQuery(r *http.Request, schema query.Schema) (query.Spec, error) {
	return query.Parse(r.URL.Query(), schema)
}
