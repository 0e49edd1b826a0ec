package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
)

type CartItemDTO struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product"`
	Quantity  int       `json:"quantity"`
	Color     string    `json:"color,omitempty"`
	Price     float64   `json:"price"`
}

type CartDTO struct {
	ID                      uuid.UUID     `json:"id"`
	UserID                  uuid.UUID     `json:"user"`
	CartItems               []CartItemDTO `json:"cartItems"`
	TotalCartPrice          float64       `json:"totalCartPrice"`
	TotalPriceAfterDiscount *float64      `json:"totalPriceAfterDiscount,omitempty"`
	CreatedAt               time.Time     `json:"createdAt"`
	UpdatedAt               time.Time     `json:"updatedAt"`
}

// NumOfCartItems counts lines, not units.
func (c CartDTO) NumOfCartItems() int {
	return len(c.CartItems)
}

func FromModel(c *models.Cart) *CartDTO {
	if c == nil {
		return nil
	}
	dto := &CartDTO{
		ID:             c.ID,
		UserID:         c.UserID,
		CartItems:      make([]CartItemDTO, 0, len(c.Items)),
		TotalCartPrice: c.TotalItemsPrice.InexactFloat64(),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
	for _, item := range c.Items {
		dto.CartItems = append(dto.CartItems, CartItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Color:     item.Color,
			Price:     item.Price.InexactFloat64(),
		})
	}
	if c.TotalItemsPriceAfterDiscount.Valid {
		discounted := c.TotalItemsPriceAfterDiscount.Decimal.InexactFloat64()
		dto.TotalPriceAfterDiscount = &discounted
	}
	return dto
}

type AddItemRequest struct {
	ProductID uuid.UUID `json:"product" validate:"required"`
	Quantity  *int      `json:"quantity" validate:"omitempty,gte=1"`
	Color     string    `json:"color" validate:"omitempty,max=32"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

type ApplyCouponRequest struct {
	Coupon string `json:"couponName" validate:"required"`
}
