package pagination

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
	MinPageSize     = 1
)

// Params holds validated pagination parameters
type Params struct {
	Page     int
	PageSize int
}

// Parse extracts page/pageSize from query parameters. Values that are missing,
// unparseable or below the minimum fall back to the defaults rather than
// failing the request; pageSize is capped at maxPageSize.
func Parse(c *gin.Context, defaultPageSize, maxPageSize int) Params {
	if defaultPageSize < MinPageSize {
		defaultPageSize = DefaultPageSize
	}
	if maxPageSize < MinPageSize {
		maxPageSize = MaxPageSize
	}

	page := atoiOr(c.Query("page"), DefaultPage)
	pageSize := atoiOr(c.Query("pageSize"), defaultPageSize)

	if page < 1 {
		page = DefaultPage
	}
	if pageSize < MinPageSize {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return Params{Page: page, PageSize: pageSize}
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return n
}

// Meta describes where a page sits in a result set of TotalItems items.
type Meta struct {
	CurrentPage     int   `json:"currentPage"`
	PageSize        int   `json:"pageSize"`
	TotalItems      int64 `json:"totalItems"`
	TotalPages      int   `json:"totalPages"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// Offset is the index of the first item of the current page.
func (m Meta) Offset() int64 {
	if m.CurrentPage < 1 {
		return 0
	}
	return int64(m.CurrentPage-1) * int64(m.PageSize)
}

// Empty reports whether the page holds no items.
func (m Meta) Empty() bool {
	return m.TotalPages == 0
}

// Compute clamps the requested page into [1, max(totalPages, 1)] and derives
// the remaining metadata. A zero page size or an empty result set yields zero
// pages with both navigation flags false.
func Compute(totalItems int64, page, pageSize int) Meta {
	if page < 1 {
		page = 1
	}
	m := Meta{PageSize: pageSize, TotalItems: totalItems, CurrentPage: page}
	if pageSize <= 0 || totalItems <= 0 {
		m.CurrentPage = 1
		return m
	}

	m.TotalPages = int((totalItems + int64(pageSize) - 1) / int64(pageSize))
	if m.CurrentPage > m.TotalPages {
		m.CurrentPage = m.TotalPages
	}
	m.HasNextPage = m.CurrentPage < m.TotalPages
	m.HasPreviousPage = m.CurrentPage > 1
	return m
}

// LastPageLen is the number of items on the final page.
func (m Meta) LastPageLen() int {
	if m.Empty() {
		return 0
	}
	return int(m.TotalItems - int64(m.TotalPages-1)*int64(m.PageSize))
}
