package address

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/types"
)

type AddressDTO struct {
	ID         uuid.UUID `json:"id"`
	Alias      string    `json:"alias"`
	Details    string    `json:"details,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	City       string    `json:"city,omitempty"`
	PostalCode string    `json:"postalCode,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func FromModel(a models.UserAddress) AddressDTO {
	return AddressDTO{
		ID:         a.ID,
		Alias:      a.Alias,
		Details:    a.Details,
		Phone:      a.Phone,
		City:       a.City,
		PostalCode: a.PostalCode,
		CreatedAt:  a.CreatedAt,
	}
}

// ShippingAddress converts a saved entry into the snapshot stored on orders.
func (a AddressDTO) ShippingAddress() types.ShippingAddress {
	return types.ShippingAddress{
		Details:    a.Details,
		Phone:      a.Phone,
		City:       a.City,
		PostalCode: a.PostalCode,
	}
}

type AddAddressRequest struct {
	Alias      string `json:"alias" validate:"required,max=32"`
	Details    string `json:"details" validate:"omitempty,max=200"`
	Phone      string `json:"phone" validate:"omitempty,mobile"`
	City       string `json:"city" validate:"omitempty,max=64"`
	PostalCode string `json:"postalCode" validate:"omitempty,max=16"`
}
