package models

import (
	"time"

	"github.com/angelmondragon/shopfront-backend/pkg/enums"
	"github.com/google/uuid"
)

// User is an account. Email is stored lowercased.
type User struct {
	ID                    uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Name                  string     `gorm:"column:name;not null"`
	Slug                  string     `gorm:"column:slug;not null"`
	Email                 string     `gorm:"column:email;not null;uniqueIndex:users_email_key"`
	Phone                 *string    `gorm:"column:phone"`
	ProfileImage          *string    `gorm:"column:profile_image"`
	PasswordHash          string     `gorm:"column:password_hash;not null"`
	Role                  enums.Role `gorm:"column:role;type:text;not null"`
	Active                bool       `gorm:"column:active;not null"`
	PasswordChangedAt     *time.Time `gorm:"column:password_changed_at"`
	PasswordResetCode     *string    `gorm:"column:password_reset_code"`
	PasswordResetExpires  *time.Time `gorm:"column:password_reset_expires"`
	PasswordResetVerified *bool      `gorm:"column:password_reset_verified"`
	CreatedAt             time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// UserAddress is one entry of a user's address book; alias is unique per user.
type UserAddress struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:user_addresses_user_alias_key"`
	Alias      string    `gorm:"column:alias;not null;uniqueIndex:user_addresses_user_alias_key"`
	City       string    `gorm:"column:city"`
	Details    string    `gorm:"column:details"`
	Phone      string    `gorm:"column:phone"`
	PostalCode string    `gorm:"column:postal_code"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
