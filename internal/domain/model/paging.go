// Package model holds the console's domain types: the paging primitives shared
// by every list view and the network-server entities decoded from the upstream API.
package model

import (
	"math"
	"strings"

	errorsx "github.com/mxc-foundation/lpwan-console/internal/errors"
)

const (
	// DefaultPageSize is the page size a list view starts with.
	DefaultPageSize = 10

	// MaxPageSize bounds page sizes accepted from the browser.
	MaxPageSize = 100

	// MaxDataLimit is the single "fetch everything in one page" bound used by
	// views that are not incrementally paged (gateway map, FUOTA for a device,
	// multicast groups for a device).
	MaxDataLimit = 999

	// MaxOffset bounds the row offset a paging position may reach.
	MaxOffset = math.MaxInt32
)

// Page is one fetched page of rows. TotalCount is the server-reported count
// of all matching rows, not len(Rows).
type Page[T any] struct {
	Rows       []T
	TotalCount int
}

// Len returns the number of rows in the page.
func (p Page[T]) Len() int { return len(p.Rows) }

// PagingState is the paging position of a list view.
// Offset always equals (Page-1)*PageSize; construct values with NewPagingState.
type PagingState struct {
	Page       int
	PageSize   int
	Offset     int
	SearchText string
}

// DefaultPagingState returns the state a list view mounts with.
func DefaultPagingState() PagingState {
	return PagingState{Page: 1, PageSize: DefaultPageSize}
}

// NewPagingState validates page and pageSize and derives the offset.
func NewPagingState(page, pageSize int, search string) (PagingState, error) {
	if page < 1 {
		return PagingState{}, errorsx.ValidationField("page", "page must be at least 1")
	}
	if pageSize <= 0 {
		return PagingState{}, errorsx.ValidationField("page_size", "page size must be positive")
	}
	if page-1 > MaxOffset/pageSize {
		return PagingState{}, errorsx.ValidationField("page", "page is out of range")
	}
	return PagingState{
		Page:       page,
		PageSize:   pageSize,
		Offset:     (page - 1) * pageSize,
		SearchText: strings.TrimSpace(search),
	}, nil
}

// Limit returns the number of rows to request for this state.
func (p PagingState) Limit() int { return p.PageSize }

// WithSearch returns a copy positioned on the first page with the given search text.
func (p PagingState) WithSearch(search string) PagingState {
	p.SearchText = strings.TrimSpace(search)
	p.Page = 1
	p.Offset = 0
	return p
}

// TotalPages returns ceil(total/pageSize), or 0 when either is non-positive.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
