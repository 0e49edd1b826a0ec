package auth

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/shopfront-backend/pkg/enums"
)

// Identity is the authenticated caller resolved once per request.
type Identity struct {
	UserID uuid.UUID
	Role   enums.Role
	Email  string
	Name   string
}

// HasRole reports whether the identity holds one of the roles.
func (i Identity) HasRole(roles ...enums.Role) bool {
	for _, role := range roles {
		if i.Role == role {
			return true
		}
	}
	return false
}

// IsStaff reports admin or manager access.
func (i Identity) IsStaff() bool {
	return i.HasRole(enums.RoleAdmin, enums.RoleManager)
}
