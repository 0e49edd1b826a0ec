package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/enums"
	"github.com/angelmondragon/shopfront-backend/pkg/types"
)

// UserDTO is the transport shape that omits credentials and reset state.
type UserDTO struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	Slug              string     `json:"slug"`
	Email             string     `json:"email"`
	Phone             *string    `json:"phone,omitempty"`
	ProfileImage      *string    `json:"profileImage,omitempty"`
	Role              enums.Role `json:"role"`
	Active            bool       `json:"active"`
	PasswordChangedAt *time.Time `json:"passwordChangedAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// FromModel maps a user row, resolving the profile image against baseURL.
func FromModel(u *models.User, baseURL string) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:                u.ID,
		Name:              u.Name,
		Slug:              u.Slug,
		Email:             u.Email,
		Phone:             u.Phone,
		ProfileImage:      types.OptionalImageURL(baseURL, types.ImageFolderUsers, u.ProfileImage),
		Role:              u.Role,
		Active:            u.Active,
		PasswordChangedAt: u.PasswordChangedAt,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

// CreateUserRequest is the admin payload for creating an account.
type CreateUserRequest struct {
	Name            string  `json:"name" validate:"required,min=3,max=150"`
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required,min=6"`
	PasswordConfirm string  `json:"password_confirm" validate:"required,eqfield=Password"`
	Phone           *string `json:"phone" validate:"omitempty,mobile"`
	ProfileImage    *string `json:"profileImage"`
	Role            *string `json:"role" validate:"omitempty,oneof=admin manager user"`
}

// UpdateUserRequest changes account data except the password.
type UpdateUserRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=3,max=35"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Phone        *string `json:"phone" validate:"omitempty,mobile"`
	ProfileImage *string `json:"profileImage"`
	Role         *string `json:"role" validate:"omitempty,oneof=admin manager user"`
	Active       *bool   `json:"active"`
}

// ChangePasswordRequest is the admin payload for resetting a password by id.
type ChangePasswordRequest struct {
	NewPassword          string `json:"newPassword" validate:"required,min=6"`
	PasswordConfirmation string `json:"passwordConfirmation" validate:"required,eqfield=NewPassword"`
}

// UpdateMyPasswordRequest requires the current password before rotating it.
type UpdateMyPasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required,min=6"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=NewPassword"`
}

// UpdateMeRequest lets a user edit their own profile. Role and password are excluded.
type UpdateMeRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=3,max=35"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,mobile"`
}
