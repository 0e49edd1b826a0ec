package product

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopfront-backend/internal/repo"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/query"
)

// ListSchema declares the filterable fields of GET /products.
var ListSchema = query.Schema{
	Fields: map[string]query.Field{
		"title":          {Column: "title", Kind: query.KindString},
		"slug":           {Column: "slug", Kind: query.KindString},
		"price":          {Column: "price", Kind: query.KindNumber},
		"quantity":       {Column: "quantity", Kind: query.KindNumber},
		"sold":           {Column: "sold", Kind: query.KindNumber},
		"ratingAverage":  {Column: "ratings_average", Kind: query.KindNumber},
		"ratingQuantity": {Column: "ratings_quantity", Kind: query.KindNumber},
		"category":       {Column: "category_id", Kind: query.KindUUID},
		"brand":          {Column: "brand_id", Kind: query.KindUUID},
	},
	Keywords: []string{"title", "description"},
}

// Repository persists products and the derived columns other domains maintain.
type Repository struct {
	repo.Base[models.Product]
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase[models.Product](db)}
}

// FindByIDs loads the products for a set of ids, keyed by id.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	out := make(map[uuid.UUID]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Product
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// CategoryNames resolves category ids to names for the response join.
func (r *Repository) CategoryNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Category
	if err := r.DB(ctx).Select("id", "name").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row.Name
	}
	return out, nil
}

// Reviews returns the reviews of one product, oldest first.
func (r *Repository) Reviews(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	var rows []models.Review
	err := r.DB(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// AdjustInventory moves qty units from quantity to sold in one statement.
func (r *Repository) AdjustInventory(ctx context.Context, productID uuid.UUID, qty int) error {
	res := r.DB(ctx).Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"quantity": gorm.Expr("quantity - ?", qty),
			"sold":     gorm.Expr("sold + ?", qty),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetRating stores the aggregate computed from a product's reviews.
func (r *Repository) SetRating(ctx context.Context, productID uuid.UUID, average decimal.Decimal, count int) error {
	return r.DB(ctx).Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"ratings_average":  average,
			"ratings_quantity": count,
		}).Error
}
