package coupons

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/shopfront-backend/internal/repo"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/query"
)

// ListSchema declares the filterable fields of GET /coupons.
var ListSchema = query.Schema{
	Fields: map[string]query.Field{
		"name":     {Column: "name", Kind: query.KindString},
		"expire":   {Column: "expires_at", Kind: query.KindTime},
		"discount": {Column: "discount", Kind: query.KindNumber},
	},
	Keywords: []string{"name"},
}

type Repository struct {
	repo.Base[models.Coupon]
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase[models.Coupon](db)}
}

// FindByName looks up a coupon by its normalized name.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.DB(ctx).Where("name = ?", name).First(&coupon).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}
