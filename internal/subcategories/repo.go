package subcategories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopfront-backend/internal/repo"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/pagination"
	"github.com/angelmondragon/shopfront-backend/pkg/query"
)

// ListSchema declares the filterable fields of GET /subcategories.
var ListSchema = query.Schema{
	Fields: map[string]query.Field{
		"name":     {Column: "name", Kind: query.KindString},
		"slug":     {Column: "slug", Kind: query.KindString},
		"category": {Column: "category_id", Kind: query.KindUUID},
	},
	Keywords: []string{"name"},
}

type Repository struct {
	repo.Base[models.SubCategory]
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase[models.SubCategory](db)}
}

// ListByCategory narrows the list to one parent when categoryID is set.
func (r *Repository) ListByCategory(ctx context.Context, categoryID *uuid.UUID, spec query.Spec) ([]models.SubCategory, pagination.Meta, error) {
	if categoryID == nil {
		return r.List(ctx, spec)
	}
	id := *categoryID
	return r.List(ctx, spec, func(db *gorm.DB) *gorm.DB {
		return db.Where("category_id = ?", id)
	})
}

// CountInCategory counts how many of ids belong to categoryID.
func (r *Repository) CountInCategory(ctx context.Context, categoryID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.DB(ctx).Model(&models.SubCategory{}).
		Where("category_id = ? AND id IN ?", categoryID, ids).
		Count(&count).Error
	return count, err
}
