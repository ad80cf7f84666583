package shared

import "math"

const (
	// DefaultPageSize applies when a listing request omits pageSize.
	DefaultPageSize = 20
	// MaxPageSize caps how many records a single page may return.
	MaxPageSize = 100
)

// PageRequest carries the pagination half of a search input.
type PageRequest struct {
	Page     int `json:"page" validate:"omitempty,min=1"`
	PageSize int `json:"pageSize" validate:"omitempty,min=1,max=100"`
}

// Normalize clamps the request into valid bounds.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// PageReq returns the pagination itself. Search inputs embed PageRequest
// as a field, so the promoted accessor needs a distinct name for generic
// code to extract it through an interface.
func (p PageRequest) PageReq() PageRequest {
	return p
}

// Offset converts the page number to a row offset.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes pagination metadata.
func NewPagination(page, pageSize, total int) Pagination {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))
	return Pagination{Page: page, PageSize: pageSize, Total: total, TotalPages: totalPages}
}
