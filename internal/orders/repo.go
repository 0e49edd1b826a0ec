package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/pagination"
	"github.com/angelmondragon/shopfront-backend/pkg/query"
)

// ListSchema declares the filterable fields of the order listings.
var ListSchema = query.Schema{
	Fields: map[string]query.Field{
		"user":              {Column: "user_id", Kind: query.KindUUID},
		"isPaid":            {Column: "is_paid", Kind: query.KindBool},
		"isDelivered":       {Column: "is_delivered", Kind: query.KindBool},
		"paymentMethodType": {Column: "payment_method", Kind: query.KindString},
		"totalOrderPrice":   {Column: "total_order_price", Kind: query.KindNumber},
		"paidAt":            {Column: "paid_at", Kind: query.KindTime},
		"deliveredAt":       {Column: "delivered_at", Kind: query.KindTime},
	},
}

// Repository persists orders and resolves the joins their responses need.
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

// Insert writes the order and its lines.
func (r *Repository) Insert(ctx context.Context, order *models.Order) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("Items").Create(order).Error; err != nil {
		return err
	}
	if len(order.Items) == 0 {
		return nil
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	return db.Create(&order.Items).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var row models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// List pages over orders, optionally for one user, and loads their lines.
func (r *Repository) List(ctx context.Context, userID *uuid.UUID, spec query.Spec) ([]models.Order, pagination.Meta, error) {
	db := r.db.WithContext(ctx)
	if userID != nil {
		db = db.Where("user_id = ?", *userID)
	}
	rows, meta, err := query.List[models.Order](db, spec)
	if err != nil || len(rows) == 0 {
		return rows, meta, err
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	var items []models.OrderItem
	err = r.db.WithContext(ctx).
		Where("order_id IN ?", ids).
		Order("position ASC").
		Find(&items).Error
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	byOrder := make(map[uuid.UUID][]models.OrderItem, len(rows))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	for i := range rows {
		rows[i].Items = byOrder[rows[i].ID]
	}
	return rows, meta, nil
}

// SetFlag marks the order paid or delivered at the given time.
func (r *Repository) SetFlag(ctx context.Context, id uuid.UUID, flag, atColumn string, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]any{flag: true, atColumn: at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the order and its lines.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	res := db.Where("id = ?", id).Delete(&models.Order{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ProductRefs loads the product columns order responses show.
func (r *Repository) ProductRefs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]ProductRef, error) {
	out := make(map[uuid.UUID]ProductRef, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Select("id", "title", "image_cover", "ratings_quantity").
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = ProductRef{ID: row.ID, Title: row.Title, ImageCover: row.ImageCover, RatingQuantity: row.RatingsQuantity}
	}
	return out, nil
}

// UserRefs loads the buyer columns order responses show.
func (r *Repository) UserRefs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]UserRef, error) {
	out := make(map[uuid.UUID]UserRef, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.User
	err := r.db.WithContext(ctx).
		Select("id", "name", "email", "phone").
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = UserRef{ID: row.ID, Name: row.Name, Email: row.Email, Phone: row.Phone}
	}
	return out, nil
}
