package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/enums"
	"github.com/angelmondragon/shopfront-backend/pkg/types"
)

// ProductRef is the product projection joined onto order lines.
type ProductRef struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title,omitempty"`
	ImageCover     string    `json:"imageCover,omitempty"`
	RatingQuantity int       `json:"ratingQuantity"`
}

// UserRef is the buyer projection joined onto orders.
type UserRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name,omitempty"`
	Email string    `json:"email,omitempty"`
	Phone *string   `json:"phone,omitempty"`
}

type OrderItemDTO struct {
	ID       uuid.UUID  `json:"id"`
	Product  ProductRef `json:"product"`
	Quantity int        `json:"quantity"`
	Color    string     `json:"color,omitempty"`
	Price    float64    `json:"price"`
}

type OrderDTO struct {
	ID                uuid.UUID             `json:"id"`
	User              UserRef               `json:"user"`
	CartItems         []OrderItemDTO        `json:"cartItems"`
	TaxPrice          float64               `json:"taxPrice"`
	ShippingPrice     float64               `json:"shippingPrice"`
	TotalOrderPrice   float64               `json:"totalOrderPrice"`
	PaymentMethodType enums.PaymentMethod   `json:"paymentMethodType"`
	IsPaid            bool                  `json:"isPaid"`
	PaidAt            *time.Time            `json:"paidAt,omitempty"`
	IsDelivered       bool                  `json:"isDelivered"`
	DeliveredAt       *time.Time            `json:"deliveredAt,omitempty"`
	ShippingAddress   types.ShippingAddress `json:"shippingAddress"`
	CreatedAt         time.Time             `json:"createdAt"`
	UpdatedAt         time.Time             `json:"updatedAt"`
}

// refs carries the explicit joins resolved for a page of orders.
type refs struct {
	products map[uuid.UUID]ProductRef
	users    map[uuid.UUID]UserRef
	baseURL  string
}

func (r refs) present(o *models.Order) OrderDTO {
	user, ok := r.users[o.UserID]
	if !ok {
		user = UserRef{ID: o.UserID}
	}
	dto := OrderDTO{
		ID:                o.ID,
		User:              user,
		CartItems:         make([]OrderItemDTO, 0, len(o.Items)),
		TaxPrice:          o.TaxPrice.InexactFloat64(),
		ShippingPrice:     o.ShippingPrice.InexactFloat64(),
		TotalOrderPrice:   o.TotalOrderPrice.InexactFloat64(),
		PaymentMethodType: o.PaymentMethod,
		IsPaid:            o.IsPaid,
		PaidAt:            o.PaidAt,
		IsDelivered:       o.IsDelivered,
		DeliveredAt:       o.DeliveredAt,
		ShippingAddress:   o.ShippingAddress,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
	for _, item := range o.Items {
		product, ok := r.products[item.ProductID]
		if !ok {
			product = ProductRef{ID: item.ProductID}
		}
		product.ImageCover = types.ImageURL(r.baseURL, types.ImageFolderProducts, product.ImageCover)
		dto.CartItems = append(dto.CartItems, OrderItemDTO{
			ID:       item.ID,
			Product:  product,
			Quantity: item.Quantity,
			Color:    item.Color,
			Price:    item.Price.InexactFloat64(),
		})
	}
	return dto
}

// CreateOrderRequest is the body of POST /orders/{cartId} and the checkout session route.
type CreateOrderRequest struct {
	ShippingAddress types.ShippingAddress `json:"shippingAddress"`
}
