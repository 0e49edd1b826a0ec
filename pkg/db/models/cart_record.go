package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is the single active cart of a user.
type Cart struct {
	ID                           uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	UserID                       uuid.UUID           `gorm:"column:user_id;type:uuid;not null;uniqueIndex:carts_user_id_key"`
	TotalItemsPrice              decimal.Decimal     `gorm:"column:total_items_price;type:numeric(12,2);not null"`
	TotalItemsPriceAfterDiscount decimal.NullDecimal `gorm:"column:total_items_price_after_discount;type:numeric(12,2)"`
	Items                        []CartItem          `gorm:"foreignKey:CartID;references:ID"`
	CreatedAt                    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
