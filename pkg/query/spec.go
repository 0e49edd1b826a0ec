package query

import (
	"github.com/angelmondragon/shopfront-backend/pkg/pagination"
)

// Op is a typed filter operator.
type Op string

const (
	OpEq    Op = "eq"
	OpGt    Op = "gt"
	OpGte   Op = "gte"
	OpLt    Op = "lt"
	OpLte   Op = "lte"
	OpRegex Op = "regex"
)

var bracketOps = map[string]Op{
	"gt":    OpGt,
	"gte":   OpGte,
	"lt":    OpLt,
	"lte":   OpLte,
	"regex": OpRegex,
}

// Filter is one predicate over a known column.
type Filter struct {
	Field  string
	Column string
	Op     Op
	Value  any
}

// SortTerm orders by one column.
type SortTerm struct {
	Column string
	Desc   bool
}

// Projection keeps or drops serialized keys. Include and Exclude are never both set.
type Projection struct {
	Include []string
	Exclude []string
}

// IsZero reports whether the projection leaves items untouched.
func (p Projection) IsZero() bool {
	return len(p.Include) == 0 && len(p.Exclude) == 0
}

// Spec is the typed result of parsing a list request's query string.
type Spec struct {
	Filters        []Filter
	Sort           []SortTerm
	Keywords       string
	KeywordColumns []string
	Projection     Projection
	Page           pagination.Params
}
