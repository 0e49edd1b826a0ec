package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopfront-backend/pkg/pagination"
	"github.com/angelmondragon/shopfront-backend/pkg/query"
)

// Base provides id-keyed persistence shared by the catalog repositories.
type Base[T any] struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase[T any](db *gorm.DB) Base[T] {
	return Base[T]{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base[T]) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// FindByID loads one row or returns gorm.ErrRecordNotFound.
func (b Base[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var row T
	if err := b.DB(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Insert writes a new row.
func (b Base[T]) Insert(ctx context.Context, row *T) error {
	return b.DB(ctx).Create(row).Error
}

// List applies a parsed list query. scopes narrow the rows, e.g. to a parent id.
func (b Base[T]) List(ctx context.Context, spec query.Spec, scopes ...func(*gorm.DB) *gorm.DB) ([]T, pagination.Meta, error) {
	db := b.DB(ctx)
	for _, scope := range scopes {
		db = scope(db)
	}
	return query.List[T](db, spec)
}

// Update writes the provided columns and reloads the row.
func (b Base[T]) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*T, error) {
	if len(updates) > 0 {
		res := b.DB(ctx).Model(new(T)).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return b.FindByID(ctx, id)
}

// Delete removes the row, returning gorm.ErrRecordNotFound when nothing matched.
func (b Base[T]) Delete(ctx context.Context, id uuid.UUID) error {
	res := b.DB(ctx).Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Exists reports whether a row with id is present.
func (b Base[T]) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := b.DB(ctx).Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
