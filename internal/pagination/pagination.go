// Package pagination pages the standalone transaction listing. The handler,
// the service and the API client share these types, so both ends agree on
// the query names and the response envelope.
package pagination

import (
	"net/url"
	"strconv"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest is the page a caller asks for. Zero values mean the first page
// at DefaultPageSize.
type PageRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Normalize fills in defaults and clamps the size to MaxPageSize. Callers that
// skip gin binding rely on it too.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PageSize < 1:
		p.PageSize = DefaultPageSize
	case p.PageSize > MaxPageSize:
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset is the number of rows before the first row of the page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Scope limits a query to the page. Use on a normalized request.
func (p PageRequest) Scope(db *gorm.DB) *gorm.DB {
	return db.Offset(p.Offset()).Limit(p.PageSize)
}

// Encode sets page and page_size on v, leaving out zero values so the server
// defaults apply.
func (p PageRequest) Encode(v url.Values) {
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(p.PageSize))
	}
}

// PageResponse is one page of items plus the totals the UI needs for its
// pager.
type PageResponse[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// NewPageResponse builds the envelope for data served for req. An empty
// result still encodes as [] and reports zero pages.
func NewPageResponse[T any](data []T, req PageRequest, totalItems int64) PageResponse[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := 0
	if req.PageSize > 0 {
		totalPages = int((totalItems + int64(req.PageSize) - 1) / int64(req.PageSize))
	}
	return PageResponse[T]{
		Data:       data,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

// HasNext reports whether another page follows this one.
func (r PageResponse[T]) HasNext() bool {
	return r.Page < r.TotalPages
}

// Next is the request for the following page at the same size.
func (r PageResponse[T]) Next() PageRequest {
	return PageRequest{Page: r.Page + 1, PageSize: r.PageSize}
}
