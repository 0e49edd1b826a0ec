package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/pagination"
	"github.com/angelmondragon/shopfront-backend/pkg/query"
)

// ListSchema declares the filterable fields of GET /carts/all.
var ListSchema = query.Schema{
	Fields: map[string]query.Field{
		"user":                    {Column: "user_id", Kind: query.KindUUID},
		"totalCartPrice":          {Column: "total_items_price", Kind: query.KindNumber},
		"totalPriceAfterDiscount": {Column: "total_items_price_after_discount", Kind: query.KindNumber},
	},
}

// Repository persists carts with their ordered lines.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func preloadItems(tx *gorm.DB) *gorm.DB {
	return tx.Order("position ASC")
}

func (r *Repository) FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var row models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", preloadItems).
		Where("user_id = ?", userID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	var row models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", preloadItems).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// List pages over all carts; items are loaded for the returned page only.
func (r *Repository) List(ctx context.Context, spec query.Spec) ([]models.Cart, pagination.Meta, error) {
	rows, meta, err := query.List[models.Cart](r.db.WithContext(ctx), spec)
	if err != nil || len(rows) == 0 {
		return rows, meta, err
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	var items []models.CartItem
	err = r.db.WithContext(ctx).
		Where("cart_id IN ?", ids).
		Order("position ASC").
		Find(&items).Error
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	byCart := make(map[uuid.UUID][]models.CartItem, len(rows))
	for _, item := range items {
		byCart[item.CartID] = append(byCart[item.CartID], item)
	}
	for i := range rows {
		rows[i].Items = byCart[rows[i].ID]
	}
	return rows, meta, nil
}

// Save inserts a new cart or updates its totals, then replaces its lines.
func (r *Repository) Save(ctx context.Context, c *models.Cart) error {
	db := r.db.WithContext(ctx)
	if c.CreatedAt.IsZero() {
		if err := db.Omit("Items").Create(c).Error; err != nil {
			return err
		}
	} else {
		err := db.Model(&models.Cart{}).
			Where("id = ?", c.ID).
			Updates(map[string]any{
				"total_items_price":                c.TotalItemsPrice,
				"total_items_price_after_discount": c.TotalItemsPriceAfterDiscount,
				"updated_at":                       time.Now().UTC(),
			}).Error
		if err != nil {
			return err
		}
	}
	if err := db.Where("cart_id = ?", c.ID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	if len(c.Items) == 0 {
		return nil
	}
	for i := range c.Items {
		c.Items[i].CartID = c.ID
	}
	return db.Create(&c.Items).Error
}

// Delete removes the cart and its lines.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("cart_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	res := db.Where("id = ?", id).Delete(&models.Cart{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
