package pagination

import "math"

const (
	// DefaultPage is used when page is absent or not a positive integer.
	DefaultPage = 1
	// DefaultLimit is the page size when a limit is not provided.
	DefaultLimit = 50
)

// Params is a normalized page window.
type Params struct {
	Page  int
	Limit int
}

// Normalize replaces non-positive values with the defaults.
func Normalize(page, limit int) Params {
	if page <= 0 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return Params{Page: page, Limit: limit}
}

// Skip is the number of matching records before the current page.
func (p Params) Skip() int {
	return (p.Page - 1) * p.Limit
}

// Meta is the paginationResult block attached to list responses.
type Meta struct {
	CurrentPage   int  `json:"currentPage"`
	Limit         int  `json:"limit"`
	NumberOfPages int  `json:"numberOfPages"`
	NextPage      *int `json:"nextPage,omitempty"`
	PreviousPage  *int `json:"previousPage,omitempty"`
}

// Build computes the page metadata for total matching records.
func Build(p Params, total int64) Meta {
	p = Normalize(p.Page, p.Limit)
	meta := Meta{
		CurrentPage:   p.Page,
		Limit:         p.Limit,
		NumberOfPages: int(math.Ceil(float64(total) / float64(p.Limit))),
	}
	if int64(p.Page)*int64(p.Limit) < total {
		next := p.Page + 1
		meta.NextPage = &next
	}
	if p.Skip() > 0 {
		prev := p.Page - 1
		meta.PreviousPage = &prev
	}
	return meta
}
