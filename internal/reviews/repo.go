package reviews

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopfront-backend/internal/repo"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/pagination"
	"github.com/angelmondragon/shopfront-backend/pkg/query"
)

// ListSchema declares the filterable fields of GET /reviews.
var ListSchema = query.Schema{
	Fields: map[string]query.Field{
		"ratings": {Column: "rating", Kind: query.KindNumber},
		"title":   {Column: "title", Kind: query.KindString},
		"user":    {Column: "user_id", Kind: query.KindUUID},
		"product": {Column: "product_id", Kind: query.KindUUID},
	},
	Keywords: []string{"title"},
}

type Repository struct {
	repo.Base[models.Review]
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase[models.Review](db)}
}

// ListByProduct narrows the listing to one product when productID is set.
func (r *Repository) ListByProduct(ctx context.Context, productID *uuid.UUID, spec query.Spec) ([]models.Review, pagination.Meta, error) {
	if productID == nil {
		return r.List(ctx, spec)
	}
	id := *productID
	return r.List(ctx, spec, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("product_id = ?", id)
	})
}

// Aggregate returns the rating average and review count of a product.
// average is zero when there are no reviews.
func (r *Repository) Aggregate(ctx context.Context, productID uuid.UUID) (float64, int, error) {
	var row struct {
		Average sql.NullFloat64
		Total   int64
	}
	err := r.DB(ctx).Model(&models.Review{}).
		Select("AVG(rating) AS average, COUNT(*) AS total").
		Where("product_id = ?", productID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Average.Float64, int(row.Total), nil
}

// UserNames resolves reviewer ids to display names.
func (r *Repository) UserNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.User
	if err := r.DB(ctx).Select("id", "name").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row.Name
	}
	return out, nil
}
