package models

import (
	"time"

	dbtypes "github.com/angelmondragon/shopfront-backend/pkg/db/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Ratings columns are written only by review aggregation.
type Product struct {
	ID                 uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Title              string              `gorm:"column:title;not null"`
	Slug               string              `gorm:"column:slug;not null;index"`
	Description        string              `gorm:"column:description;not null"`
	Quantity           int                 `gorm:"column:quantity;not null"`
	Sold               int                 `gorm:"column:sold;not null"`
	Price              decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	PriceAfterDiscount decimal.NullDecimal `gorm:"column:price_after_discount;type:numeric(12,2)"`
	Colors             dbtypes.StringArray `gorm:"column:colors"`
	ImageCover         string              `gorm:"column:image_cover;not null"`
	Images             dbtypes.StringArray `gorm:"column:images"`
	CategoryID         uuid.UUID           `gorm:"column:category_id;type:uuid;not null;index"`
	SubcategoryIDs     dbtypes.UUIDArray   `gorm:"column:subcategory_ids"`
	BrandID            *uuid.UUID          `gorm:"column:brand_id;type:uuid"`
	RatingsAverage     decimal.Decimal     `gorm:"column:ratings_average;type:numeric(3,2);not null"`
	RatingsQuantity    int                 `gorm:"column:ratings_quantity;not null"`
	CreatedAt          time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// Review is unique per (user, product).
type Review struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Title     *string   `gorm:"column:title"`
	Rating    int       `gorm:"column:rating;not null"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:reviews_user_product_key"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index;uniqueIndex:reviews_user_product_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
