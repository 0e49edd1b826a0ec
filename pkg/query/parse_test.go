package query

import (
	"net/url"
	"testing"

	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productTestSchema = Schema{
	Fields: map[string]Field{
		"title":         {Column: "title", Kind: KindString},
		"price":         {Column: "price", Kind: KindNumber},
		"ratingAverage": {Column: "ratings_average", Kind: KindNumber},
		"category":      {Column: "category_id", Kind: KindUUID},
		"gte":           {Column: "gte_flag", Kind: KindBool},
		"description":   {Column: "description", Kind: KindString, NoSort: true},
	},
	Keywords: []string{"title", "description"},
}

func TestParseDefaults(t *testing.T) {
	spec, err := Parse(url.Values{}, productTestSchema)
	require.NoError(t, err)
	assert.Equal(t, 1, spec.Page.Page)
	assert.Equal(t, 50, spec.Page.Limit)
	assert.Empty(t, spec.Filters)
	assert.Empty(t, spec.Sort)
	assert.True(t, spec.Projection.IsZero())
}

func TestParseReservedKeysNeverFilter(t *testing.T) {
	values := url.Values{
		"limit": {"5"}, "skip": {"10"}, "page": {"2"},
		"sort": {"price"}, "fields": {"title"}, "keywords": {"shoe"},
	}
	spec, err := Parse(values, productTestSchema)
	require.NoError(t, err)
	assert.Empty(t, spec.Filters)
	assert.Equal(t, 2, spec.Page.Page)
	assert.Equal(t, 5, spec.Page.Limit)
	assert.Equal(t, 5, spec.Page.Skip())
	assert.Equal(t, "shoe", spec.Keywords)
	assert.Equal(t, []string{"title", "description"}, spec.KeywordColumns)
}

func TestParseComparisonOperators(t *testing.T) {
	values := url.Values{"price[gte]": {"100"}, "price[lt]": {"500.5"}, "title": {"Red Shoes"}}
	spec, err := Parse(values, productTestSchema)
	require.NoError(t, err)
	require.Len(t, spec.Filters, 3)

	byOp := map[Op]Filter{}
	for _, f := range spec.Filters {
		byOp[f.Op] = f
	}
	assert.Equal(t, 100.0, byOp[OpGte].Value)
	assert.Equal(t, "price", byOp[OpGte].Column)
	assert.Equal(t, 500.5, byOp[OpLt].Value)
	assert.Equal(t, "Red Shoes", byOp[OpEq].Value)
}

func TestParseFieldNamedLikeOperatorIsNotRewritten(t *testing.T) {
	spec, err := Parse(url.Values{"gte": {"true"}}, productTestSchema)
	require.NoError(t, err)
	require.Len(t, spec.Filters, 1)
	assert.Equal(t, OpEq, spec.Filters[0].Op)
	assert.Equal(t, "gte_flag", spec.Filters[0].Column)
	assert.Equal(t, true, spec.Filters[0].Value)
}

func TestParseTypedValues(t *testing.T) {
	id := uuid.New()
	spec, err := Parse(url.Values{"category": {id.String()}, "createdAt[gte]": {"2026-01-02"}}, productTestSchema)
	require.NoError(t, err)
	require.Len(t, spec.Filters, 2)
	for _, f := range spec.Filters {
		switch f.Field {
		case "category":
			assert.Equal(t, id, f.Value)
		case "createdAt":
			assert.Equal(t, "created_at", f.Column)
		}
	}
}

func TestParseCollectsEveryProblem(t *testing.T) {
	values := url.Values{
		"color":       {"red"},
		"price[ne]":   {"3"},
		"price[gte]":  {"cheap"},
		"title[regex": {"x"},
		"sort":        {"description"},
		"fields":      {"title,-price"},
	}
	_, err := Parse(values, productTestSchema)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	for _, key := range []string{"color", "price[ne]", "price[gte]", "title[regex", "sort", "fields"} {
		assert.Contains(t, details, key)
	}
}

func TestParsePageFallsBackOnGarbage(t *testing.T) {
	spec, err := Parse(url.Values{"page": {"abc"}, "limit": {"-4"}}, productTestSchema)
	require.NoError(t, err)
	assert.Equal(t, 1, spec.Page.Page)
	assert.Equal(t, 50, spec.Page.Limit)
}

func TestParseSortAndProjection(t *testing.T) {
	spec, err := Parse(url.Values{"sort": {"-price,title"}, "fields": {"-description,-price"}}, productTestSchema)
	require.NoError(t, err)
	assert.Equal(t, []SortTerm{{Column: "price", Desc: true}, {Column: "title"}}, spec.Sort)
	assert.Equal(t, []string{"description", "price"}, spec.Projection.Exclude)
	assert.Empty(t, spec.Projection.Include)
}

func TestParseRegexOnlyOnText(t *testing.T) {
	spec, err := Parse(url.Values{"title[regex]": {"shoe"}}, productTestSchema)
	require.NoError(t, err)
	require.Len(t, spec.Filters, 1)
	assert.Equal(t, OpRegex, spec.Filters[0].Op)

	_, err = Parse(url.Values{"price[regex]": {"1"}}, productTestSchema)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestProject(t *testing.T) {
	type row struct {
		ID    string  `json:"id"`
		Title string  `json:"title"`
		Price float64 `json:"price"`
	}
	items := []row{{ID: "a", Title: "Hat", Price: 10}}

	same, err := Project(items, Projection{})
	require.NoError(t, err)
	assert.Equal(t, items, same)

	included, err := Project(items, Projection{Include: []string{"title"}})
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"id": "a", "title": "Hat"}}, included)

	excluded, err := Project(items, Projection{Exclude: []string{"price", "id"}})
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"id": "a", "title": "Hat"}}, excluded)
}
