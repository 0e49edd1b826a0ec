package categories

import (
	"gorm.io/gorm"

	"github.com/angelmondragon/shopfront-backend/internal/repo"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/query"
)

// ListSchema declares the filterable fields of GET /categories.
var ListSchema = query.Schema{
	Fields: map[string]query.Field{
		"name": {Column: "name", Kind: query.KindString},
		"slug": {Column: "slug", Kind: query.KindString},
	},
	Keywords: []string{"name"},
}

// Repository persists categories.
type Repository struct {
	repo.Base[models.Category]
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase[models.Category](db)}
}
