package table

import "github.com/mxc-foundation/lpwan-console/internal/domain/model"

const pagerWindow = 7

// Pager is the paging footer of a view.
type Pager struct {
	Page       int
	PageSize   int
	TotalCount int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	// Start and End are the 1-based row range shown; both zero when empty.
	Start int
	End   int
	// Pages is the window of page numbers offered as links.
	Pages []int
}

// PrevPage returns the previous page number.
func (p Pager) PrevPage() int { return p.Page - 1 }

// NextPage returns the next page number.
func (p Pager) NextPage() int { return p.Page + 1 }

// NewPager builds the pager for a page of shown rows out of total.
func NewPager(paging model.PagingState, total, shown int) Pager {
	if total < 0 {
		total = 0
	}
	pages := model.TotalPages(total, paging.PageSize)

	p := Pager{
		Page:       paging.Page,
		PageSize:   paging.PageSize,
		TotalCount: total,
		TotalPages: pages,
		HasPrev:    paging.Page > 1,
		HasNext:    paging.Page < pages,
	}
	if shown > 0 {
		p.Start = paging.Offset + 1
		p.End = paging.Offset + shown
	}
	p.Pages = window(paging.Page, pages)
	return p
}

func window(current, pages int) []int {
	if pages <= 0 {
		return nil
	}
	first := current - pagerWindow/2
	if first < 1 {
		first = 1
	}
	last := first + pagerWindow - 1
	if last > pages {
		last = pages
		first = max(1, last-pagerWindow+1)
	}
	out := make([]int, 0, last-first+1)
	for i := first; i <= last; i++ {
		out = append(out, i)
	}
	return out
}
