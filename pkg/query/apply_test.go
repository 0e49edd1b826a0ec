package query

import (
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type listedProduct struct {
	ID          uuid.UUID `gorm:"column:id;primaryKey"`
	Title       string    `gorm:"column:title"`
	Description string    `gorm:"column:description"`
	Price       float64   `gorm:"column:price"`
	CategoryID  uuid.UUID `gorm:"column:category_id"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (listedProduct) TableName() string { return "listed_products" }

func setupListDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec(`CREATE TABLE listed_products (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		price NUMERIC NOT NULL,
		category_id TEXT NOT NULL,
		created_at DATETIME NOT NULL
	)`).Error)
	return db
}

func seedProducts(t *testing.T, db *gorm.DB, category uuid.UUID) []listedProduct {
	t.Helper()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rows := []listedProduct{
		{ID: uuid.New(), Title: "Red Shoes", Description: "leather", Price: 120, CategoryID: category, CreatedAt: base},
		{ID: uuid.New(), Title: "Blue Hat", Description: "100% wool", Price: 40, CategoryID: category, CreatedAt: base.Add(time.Minute)},
		{ID: uuid.New(), Title: "Green Scarf", Description: "soft SHOE_lace", Price: 25.5, CategoryID: uuid.New(), CreatedAt: base.Add(2 * time.Minute)},
		{ID: uuid.New(), Title: "Running shoes", Description: "mesh", Price: 300, CategoryID: category, CreatedAt: base.Add(2 * time.Minute)},
	}
	require.NoError(t, db.Create(&rows).Error)
	return rows
}

func listWith(t *testing.T, db *gorm.DB, values url.Values) ([]listedProduct, int, *int, *int) {
	t.Helper()
	spec, err := Parse(values, productTestSchema)
	require.NoError(t, err)
	items, meta, err := List[listedProduct](db, spec)
	require.NoError(t, err)
	return items, meta.NumberOfPages, meta.NextPage, meta.PreviousPage
}

func titles(items []listedProduct) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Title)
	}
	return out
}

func TestListDefaultOrderIsCreationWithTiebreak(t *testing.T) {
	db := setupListDB(t)
	rows := seedProducts(t, db, uuid.New())

	items, pages, next, prev := listWith(t, db, url.Values{})
	require.Len(t, items, 4)
	assert.Equal(t, "Red Shoes", items[0].Title)
	assert.Equal(t, "Blue Hat", items[1].Title)
	assert.Equal(t, 1, pages)
	assert.Nil(t, next)
	assert.Nil(t, prev)

	// rows 2 and 3 share created_at; id decides
	first, second := rows[2], rows[3]
	if second.ID.String() < first.ID.String() {
		first, second = second, first
	}
	assert.Equal(t, []string{first.Title, second.Title}, titles(items[2:]))
}

func TestListComparisonAndEquality(t *testing.T) {
	db := setupListDB(t)
	category := uuid.New()
	seedProducts(t, db, category)

	items, _, _, _ := listWith(t, db, url.Values{"price[gte]": {"40"}, "price[lt]": {"300"}})
	assert.ElementsMatch(t, []string{"Red Shoes", "Blue Hat"}, titles(items))

	items, _, _, _ = listWith(t, db, url.Values{"category": {category.String()}, "sort": {"-price"}})
	assert.Equal(t, []string{"Running shoes", "Red Shoes", "Blue Hat"}, titles(items))
}

func TestListKeywordsAreCaseInsensitiveLiteralSubstrings(t *testing.T) {
	db := setupListDB(t)
	seedProducts(t, db, uuid.New())

	items, _, _, _ := listWith(t, db, url.Values{"keywords": {"SHOE"}, "sort": {"title"}})
	assert.Equal(t, []string{"Green Scarf", "Red Shoes", "Running shoes"}, titles(items))

	items, _, _, _ = listWith(t, db, url.Values{"keywords": {"100%"}})
	assert.Equal(t, []string{"Blue Hat"}, titles(items))

	items, _, _, _ = listWith(t, db, url.Values{"keywords": {"e_l"}})
	assert.Empty(t, items)

	items, _, _, _ = listWith(t, db, url.Values{"keywords": {"shoe"}, "price[lte]": {"130"}})
	assert.ElementsMatch(t, []string{"Red Shoes", "Green Scarf"}, titles(items))
}

func TestListPaginationCountsMatchingRecords(t *testing.T) {
	db := setupListDB(t)
	seedProducts(t, db, uuid.New())

	items, pages, next, prev := listWith(t, db, url.Values{"limit": {"1"}, "page": {"2"}, "price[gt]": {"30"}})
	require.Len(t, items, 1)
	assert.Equal(t, "Blue Hat", items[0].Title)
	assert.Equal(t, 3, pages)
	require.NotNil(t, next)
	assert.Equal(t, 3, *next)
	require.NotNil(t, prev)
	assert.Equal(t, 1, *prev)

	items, _, next, _ = listWith(t, db, url.Values{"limit": {"2"}, "page": {"2"}})
	assert.Len(t, items, 2)
	assert.Nil(t, next)
}

func TestListRespectsCallerConditions(t *testing.T) {
	db := setupListDB(t)
	category := uuid.New()
	seedProducts(t, db, category)

	spec, err := Parse(url.Values{}, productTestSchema)
	require.NoError(t, err)
	scoped := db.Where("category_id = ?", category)

	items, meta, err := List[listedProduct](scoped, spec)
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, 1, meta.NumberOfPages)

	again, _, err := List[listedProduct](scoped, spec)
	require.NoError(t, err)
	assert.Len(t, again, 3)
}
