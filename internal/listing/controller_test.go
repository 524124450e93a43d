package listing

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mxc-foundation/lpwan-console/internal/domain/model"
	errorsx "github.com/mxc-foundation/lpwan-console/internal/errors"
	"github.com/mxc-foundation/lpwan-console/internal/store"
)

type row struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func rows(n int) []row {
	out := make([]row, n)
	for i := range out {
		out[i] = row{ID: i + 1, Name: fmt.Sprintf("row-%d", i+1)}
	}
	return out
}

// recordingList returns a fixed page and records every query it receives.
type recordingList struct {
	mu      sync.Mutex
	queries []store.ListQuery
	page    model.Page[row]
	err     error
}

func (r *recordingList) List(_ context.Context, q store.ListQuery) (model.Page[row], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, q)
	return r.page, r.err
}

func (r *recordingList) last() store.ListQuery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.queries[len(r.queries)-1]
}

func (r *recordingList) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queries)
}

func TestOnTableChange_OffsetMath(t *testing.T) {
	tests := []struct {
		page, pageSize int
		wantOffset     int
	}{
		{page: 1, pageSize: 10, wantOffset: 0},
		{page: 2, pageSize: 10, wantOffset: 10},
		{page: 3, pageSize: 25, wantOffset: 50},
		{page: 7, pageSize: 1, wantOffset: 6},
		{page: 100, pageSize: 100, wantOffset: 9900},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("page=%d/size=%d", tt.page, tt.pageSize), func(t *testing.T) {
			list := &recordingList{page: model.Page[row]{Rows: []row{}}}
			c := New(list.List, Options{Name: "test"})

			out := c.OnTableChange(context.Background(), ChangePagination, TableChange{Page: tt.page, PageSize: tt.pageSize})
			require.True(t, out.OK())

			q := list.last()
			assert.Equal(t, tt.pageSize, q.Limit)
			assert.Equal(t, tt.wantOffset, q.Offset)

			snap := c.Snapshot()
			assert.Equal(t, tt.wantOffset, snap.Paging.Offset)
			assert.Equal(t, (snap.Paging.Page-1)*snap.Paging.PageSize, snap.Paging.Offset)
		})
	}
}

func TestOnTableChange_ThirdPageScenario(t *testing.T) {
	list := &recordingList{page: model.Page[row]{Rows: rows(10), TotalCount: 45}}
	c := New(list.List, Options{Name: "gateways", OwnerID: "7"})

	out := c.OnTableChange(context.Background(), ChangePagination, TableChange{Page: 3, PageSize: 10})
	require.True(t, out.OK())

	assert.Equal(t, store.ListQuery{OwnerID: "7", Limit: 10, Offset: 20}, list.last())

	snap := c.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Len(t, snap.Page.Rows, 10)
	assert.Equal(t, 45, snap.Page.TotalCount)
	assert.Equal(t, 5, snap.TotalPages)
	assert.NoError(t, snap.Err)
}

func TestOnTableChange_InvalidPositionDoesNotFetch(t *testing.T) {
	tests := []struct {
		name   string
		change TableChange
		field  string
	}{
		{name: "page zero", change: TableChange{Page: 0, PageSize: 10}, field: "page"},
		{name: "negative page", change: TableChange{Page: -2, PageSize: 10}, field: "page"},
		{name: "zero page size", change: TableChange{Page: 1, PageSize: 0}, field: "page_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := &recordingList{}
			c := New(list.List, Options{})

			out := c.OnTableChange(context.Background(), ChangePagination, tt.change)
			require.Error(t, out.Err)
			assert.Equal(t, errorsx.ErrCodeValidation, out.ErrorKind())
			assert.Equal(t, tt.field, errorsx.GetField(out.Err))
			assert.Zero(t, list.count())
			assert.Equal(t, model.DefaultPagingState(), c.Snapshot().Paging)
		})
	}
}

func TestOnTableChange_Search(t *testing.T) {
	list := &recordingList{page: model.Page[row]{Rows: rows(1), TotalCount: 1}}
	c := New(list.List, Options{})
	ctx := context.Background()

	c.OnTableChange(ctx, ChangeSearch, TableChange{Page: 4, PageSize: 10, SearchText: "  gw-1 "})
	assert.Equal(t, store.ListQuery{Search: "gw-1", Limit: 10, Offset: 0}, list.last(), "search resets to the first page")

	c.OnTableChange(ctx, ChangePagination, TableChange{Page: 2, PageSize: 10})
	assert.Equal(t, "gw-1", list.last().Search, "search survives paging")
	assert.Equal(t, 10, list.last().Offset)

	c.OnTableChange(ctx, ChangeSearch, TableChange{Page: 2, PageSize: 10, SearchText: ""})
	assert.Empty(t, list.last().Search, "empty search clears the filter")
}

func TestFetchPage_FailureClearsLoading(t *testing.T) {
	list := &recordingList{
		page: model.Page[row]{Rows: rows(3), TotalCount: 3},
	}
	c := New(list.List, Options{})
	ctx := context.Background()

	require.True(t, c.Mount(ctx).OK())

	list.err = errorsx.New(errorsx.ErrCodeUnavailable, "network server unavailable")
	out := c.FetchPage(ctx, 10, 10)
	require.Error(t, out.Err)
	assert.False(t, out.Stale)
	assert.Equal(t, errorsx.ErrCodeUnavailable, out.ErrorKind())

	snap := c.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Equal(t, out.Err, snap.Err)
	assert.Len(t, snap.Page.Rows, 3, "failed fetch keeps the last page")

	list.err = nil
	require.True(t, c.FetchPage(ctx, 10, 0).OK())
	assert.NoError(t, c.Snapshot().Err)
}

func TestMount_UsesInitialLimit(t *testing.T) {
	list := &recordingList{}
	c := New(list.List, Options{InitialLimit: model.MaxDataLimit})

	out := c.Mount(context.Background())
	require.True(t, out.OK())
	assert.Equal(t, store.ListQuery{Limit: model.MaxDataLimit}, list.last())
	assert.NotNil(t, c.Snapshot().Page.Rows)

	list2 := &recordingList{}
	New(list2.List, Options{PageSize: 25}).Mount(context.Background())
	assert.Equal(t, 25, list2.last().Limit)
}

func TestInitialLimit_IsThePageSize(t *testing.T) {
	list := &recordingList{page: model.Page[row]{Rows: rows(45), TotalCount: 45}}
	c := New(list.List, Options{PageSize: 10, InitialLimit: model.MaxDataLimit})
	ctx := context.Background()

	require.True(t, c.Mount(ctx).OK())
	snap := c.Snapshot()
	assert.Equal(t, model.MaxDataLimit, snap.Paging.PageSize)
	assert.Equal(t, 1, snap.TotalPages)
	assert.Len(t, snap.Page.Rows, 45)

	out := c.OnTableChange(ctx, ChangePagination, TableChange{Page: snap.Paging.Page, PageSize: snap.Paging.PageSize})
	require.True(t, out.OK())
	assert.Equal(t, model.MaxDataLimit, list.last().Limit)
	assert.Equal(t, 0, list.last().Offset)
}

func TestOnTableChange_RejectsOutOfRangePage(t *testing.T) {
	list := &recordingList{}
	c := New(list.List, Options{})

	out := c.OnTableChange(context.Background(), ChangePagination, TableChange{Page: math.MaxInt / 50, PageSize: 100})
	require.Error(t, out.Err)
	assert.True(t, errorsx.IsValidation(out.Err))
	assert.Equal(t, 0, list.count())
	assert.Equal(t, model.DefaultPagingState(), c.Snapshot().Paging)
}

func TestConcurrentChanges_SearchStaysWithItsPosition(t *testing.T) {
	list := &recordingList{}
	c := New(list.List, Options{})
	ctx := context.Background()

	const n = 64
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.OnTableChange(ctx, ChangePagination, TableChange{
				Page:       i + 1,
				PageSize:   10,
				SearchText: fmt.Sprintf("q-%d", i),
			})
		}(i)
	}
	wg.Wait()

	require.Equal(t, n, list.count())
	for _, q := range list.queries {
		assert.Equal(t, fmt.Sprintf("q-%d", q.Offset/10), q.Search, "offset=%d", q.Offset)
	}
	snap := c.Snapshot()
	assert.Equal(t, fmt.Sprintf("q-%d", snap.Paging.Page-1), snap.Paging.SearchText)
	assert.Equal(t, StateIdle, snap.State)
}

// gatedList blocks each call until the test releases it.
type gatedList struct {
	calls chan *gatedCall
}

type gatedCall struct {
	q       store.ListQuery
	release chan model.Page[row]
}

func newGatedList() *gatedList {
	return &gatedList{calls: make(chan *gatedCall)}
}

func (g *gatedList) List(ctx context.Context, q store.ListQuery) (model.Page[row], error) {
	call := &gatedCall{q: q, release: make(chan model.Page[row])}
	g.calls <- call
	select {
	case p := <-call.release:
		return p, nil
	case <-ctx.Done():
		return model.Page[row]{}, ctx.Err()
	}
}

func (g *gatedList) next(t *testing.T) *gatedCall {
	t.Helper()
	select {
	case c := <-g.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for fetch")
		return nil
	}
}

func TestOverlappingFetches_LatestIssuedWins(t *testing.T) {
	for _, order := range []string{"older resolves last", "older resolves first"} {
		t.Run(order, func(t *testing.T) {
			g := newGatedList()
			c := New(g.List, Options{})
			ctx := context.Background()

			outcomes := make(chan Outcome[row], 2)
			go func() { outcomes <- c.OnTableChange(ctx, ChangePagination, TableChange{Page: 1, PageSize: 10}) }()
			older := g.next(t)
			go func() { outcomes <- c.OnTableChange(ctx, ChangePagination, TableChange{Page: 2, PageSize: 10}) }()
			newer := g.next(t)

			olderPage := model.Page[row]{Rows: rows(10), TotalCount: 100}
			newerPage := model.Page[row]{Rows: rows(4), TotalCount: 14}

			if order == "older resolves last" {
				newer.release <- newerPage
				first := <-outcomes
				assert.True(t, first.OK())
				assert.Equal(t, StateIdle, c.Snapshot().State)

				older.release <- olderPage
				second := <-outcomes
				assert.True(t, second.Stale)
			} else {
				older.release <- olderPage
				first := <-outcomes
				assert.True(t, first.Stale)
				assert.Equal(t, StateLoading, c.Snapshot().State, "still waiting on the latest fetch")

				newer.release <- newerPage
				second := <-outcomes
				assert.True(t, second.OK())
			}

			snap := c.Snapshot()
			assert.Equal(t, StateIdle, snap.State)
			assert.Equal(t, 14, snap.Page.TotalCount)
			assert.Len(t, snap.Page.Rows, 4)
			assert.Equal(t, 2, snap.Paging.Page)
			assert.Equal(t, 10, newer.q.Offset)
			assert.Equal(t, 0, older.q.Offset)
		})
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	list := &recordingList{page: model.Page[row]{Rows: rows(2), TotalCount: 2}}
	c := New(list.List, Options{})
	c.Mount(context.Background())

	snap := c.Snapshot()
	snap.Page.Rows[0].Name = "mutated"
	assert.Equal(t, "row-1", c.Snapshot().Page.Rows[0].Name)
}

func TestParseChangeType(t *testing.T) {
	assert.Equal(t, ChangeSearch, ParseChangeType("search"))
	assert.Equal(t, ChangePageSize, ParseChangeType("page_size"))
	assert.Equal(t, ChangePagination, ParseChangeType(""))
	assert.Equal(t, ChangePagination, ParseChangeType("sort"))
}
