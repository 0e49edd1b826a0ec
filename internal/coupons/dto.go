package coupons

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
)

type CouponDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Expire    time.Time `json:"expire"`
	Discount  float64   `json:"discount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func FromModel(c *models.Coupon) *CouponDTO {
	if c == nil {
		return nil
	}
	return &CouponDTO{
		ID:        c.ID,
		Name:      c.Name,
		Expire:    c.ExpiresAt,
		Discount:  c.Discount.InexactFloat64(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type CreateCouponRequest struct {
	Name     string     `json:"name" validate:"required"`
	Expire   *time.Time `json:"expire" validate:"required"`
	Discount float64    `json:"discount" validate:"required,gt=0"`
}

type UpdateCouponRequest struct {
	Name     *string    `json:"name" validate:"omitempty,min=1"`
	Expire   *time.Time `json:"expire"`
	Discount *float64   `json:"discount" validate:"omitempty,gt=0"`
}
