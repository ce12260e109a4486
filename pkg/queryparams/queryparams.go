// Package queryparams holds the list-endpoint paging/sorting contract shared
// by services and handlers.
package queryparams

import "strings"

const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// ListParams is parsed from the query string of list endpoints.
type ListParams struct {
	Page    int    `query:"page"`
	PerPage int    `query:"per_page"`
	SortBy  string `query:"sort_by"`
	OrderBy string `query:"order_by"` // asc | desc
	Search  string `query:"search"`
}

// Normalize clamps paging values into their allowed ranges.
func (p *ListParams) Normalize() {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.PerPage <= 0 || p.PerPage > MaxPerPage {
		p.PerPage = DefaultPerPage
	}
	if strings.ToLower(p.OrderBy) != "asc" {
		p.OrderBy = "desc"
	} else {
		p.OrderBy = "asc"
	}
}

// Offset returns the row offset for the current page.
func (p ListParams) Offset() int { return (p.Page - 1) * p.PerPage }

// PaginationMeta describes one page of a paginated result.
type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
}

// PaginatedResult wraps a page of rows with its meta block.
type PaginatedResult struct {
	Data interface{}    `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// CalculateTotalPages returns the page count for a row total.
func CalculateTotalPages(totalItems int64, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	pages := int(totalItems) / perPage
	if int(totalItems)%perPage != 0 {
		pages++
	}
	return pages
}
