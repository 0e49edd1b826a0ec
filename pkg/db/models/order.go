package models

import (
	"time"

	"github.com/angelmondragon/shopfront-backend/pkg/enums"
	"github.com/angelmondragon/shopfront-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is an immutable snapshot of a cart plus payment and delivery state.
type Order struct {
	ID                uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	UserID            uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	TaxPrice          decimal.Decimal       `gorm:"column:tax_price;type:numeric(12,2);not null"`
	ShippingPrice     decimal.Decimal       `gorm:"column:shipping_price;type:numeric(12,2);not null"`
	TotalOrderPrice   decimal.Decimal       `gorm:"column:total_order_price;type:numeric(12,2);not null"`
	PaymentMethod     enums.PaymentMethod   `gorm:"column:payment_method;type:text;not null"`
	IsPaid            bool                  `gorm:"column:is_paid;not null"`
	PaidAt            *time.Time            `gorm:"column:paid_at"`
	IsDelivered       bool                  `gorm:"column:is_delivered;not null"`
	DeliveredAt       *time.Time            `gorm:"column:delivered_at"`
	ShippingAddress   types.ShippingAddress `gorm:"column:shipping_address;type:jsonb"`
	CheckoutSessionID *string               `gorm:"column:checkout_session_id;uniqueIndex:orders_checkout_session_id_key"`
	Items             []OrderItem           `gorm:"foreignKey:OrderID;references:ID"`
	CreatedAt         time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem copies a cart line by value; ProductID is kept for display joins.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	Color     string          `gorm:"column:color;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Position  int             `gorm:"column:position;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
