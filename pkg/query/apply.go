package query

import (
	"strings"

	"github.com/angelmondragon/shopfront-backend/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var tiebreak = []SortTerm{
	{Column: "created_at"},
	{Column: "id"},
}

// FilterScope adds the where clauses for filters and keywords.
func (s Spec) FilterScope(db *gorm.DB) *gorm.DB {
	for _, f := range s.Filters {
		db = db.Where(filterExpr(f))
	}
	if s.Keywords != "" && len(s.KeywordColumns) > 0 {
		matches := make([]clause.Expression, 0, len(s.KeywordColumns))
		for _, col := range s.KeywordColumns {
			matches = append(matches, containsExpr(col, s.Keywords))
		}
		db = db.Where(clause.Or(matches...))
	}
	return db
}

// OrderScope applies the requested sort followed by the created_at, id tiebreak.
func (s Spec) OrderScope(db *gorm.DB) *gorm.DB {
	seen := map[string]bool{}
	for _, term := range append(append([]SortTerm{}, s.Sort...), tiebreak...) {
		if seen[term.Column] {
			continue
		}
		seen[term.Column] = true
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: term.Column}, Desc: term.Desc})
	}
	return db
}

// PageScope applies offset and limit.
func (s Spec) PageScope(db *gorm.DB) *gorm.DB {
	page := pagination.Normalize(s.Page.Page, s.Page.Limit)
	return db.Offset(page.Skip()).Limit(page.Limit)
}

// List counts the matching rows and loads the requested page of T.
// db may carry extra conditions; it is not mutated.
func List[T any](db *gorm.DB, spec Spec) ([]T, pagination.Meta, error) {
	var total int64
	if err := db.Session(&gorm.Session{}).Model(new(T)).Scopes(spec.FilterScope).Count(&total).Error; err != nil {
		return nil, pagination.Meta{}, err
	}

	items := []T{}
	if err := db.Session(&gorm.Session{}).Scopes(spec.FilterScope, spec.OrderScope, spec.PageScope).Find(&items).Error; err != nil {
		return nil, pagination.Meta{}, err
	}
	return items, pagination.Build(spec.Page, total), nil
}

func filterExpr(f Filter) clause.Expression {
	col := clause.Column{Name: f.Column}
	switch f.Op {
	case OpGt:
		return clause.Gt{Column: col, Value: f.Value}
	case OpGte:
		return clause.Gte{Column: col, Value: f.Value}
	case OpLt:
		return clause.Lt{Column: col, Value: f.Value}
	case OpLte:
		return clause.Lte{Column: col, Value: f.Value}
	case OpRegex:
		text, _ := f.Value.(string)
		return containsExpr(f.Column, text)
	default:
		return clause.Eq{Column: col, Value: f.Value}
	}
}

// containsExpr is a case-insensitive literal substring match.
func containsExpr(column, needle string) clause.Expression {
	return clause.Expr{
		SQL:  `LOWER(?) LIKE ? ESCAPE '\'`,
		Vars: []any{clause.Column{Name: column}, "%" + escapeLike(strings.ToLower(needle)) + "%"},
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
