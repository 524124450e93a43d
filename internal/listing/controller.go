// Package listing holds the paging controller behind every remote list view.
//
// A Controller owns the paging position of one view, issues fetches through a
// store.ListFunc and applies only the response of the latest issued request.
// Every fetch resolves to an Outcome; the loading state is cleared on both
// success and failure.
package listing

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mxc-foundation/lpwan-console/internal/domain/model"
	errorsx "github.com/mxc-foundation/lpwan-console/internal/errors"
	"github.com/mxc-foundation/lpwan-console/internal/observability/metrics"
	"github.com/mxc-foundation/lpwan-console/internal/observability/statsd"
	"github.com/mxc-foundation/lpwan-console/internal/store"
)

// State is the fetch state of a controller.
type State int

const (
	StateIdle State = iota
	StateLoading
)

func (s State) String() string {
	if s == StateLoading {
		return "loading"
	}
	return "idle"
}

// ChangeType names the user action behind a table change.
type ChangeType string

const (
	ChangePagination ChangeType = "pagination"
	ChangePageSize   ChangeType = "page_size"
	ChangeSearch     ChangeType = "search"
)

// ParseChangeType maps a request parameter to a ChangeType, defaulting to pagination.
func ParseChangeType(s string) ChangeType {
	switch ChangeType(s) {
	case ChangeSearch:
		return ChangeSearch
	case ChangePageSize:
		return ChangePageSize
	default:
		return ChangePagination
	}
}

// TableChange is the paging position a table asks for.
type TableChange struct {
	Page       int
	PageSize   int
	SearchText string
}

// Outcome is the result of one fetch: a page, a failure, or a stale
// response that was discarded because a newer request was issued.
type Outcome[T any] struct {
	Page  model.Page[T]
	Err   error
	Stale bool
	Seq   uint64
}

// OK reports whether the fetch succeeded and was applied.
func (o Outcome[T]) OK() bool { return o.Err == nil && !o.Stale }

// ErrorKind returns the error code of a failed fetch.
func (o Outcome[T]) ErrorKind() errorsx.ErrorCode {
	if o.Err == nil {
		return ""
	}
	if code := errorsx.GetCode(o.Err); code != "" {
		return code
	}
	return errorsx.ErrCodeInternal
}

// Snapshot is an immutable copy of controller state.
type Snapshot[T any] struct {
	State      State
	Paging     model.PagingState
	Page       model.Page[T]
	TotalPages int
	Err        error
	Seq        uint64
}

// Options configures a Controller.
type Options struct {
	// Name tags logs and metrics, e.g. "gateways".
	Name string
	// OwnerID scopes every fetch (organization, application, device...).
	OwnerID  string
	PageSize int
	// InitialLimit, when positive, replaces PageSize for views that show
	// every row on a single page.
	InitialLimit int
	Metrics      statsd.Sink
	Logger       *slog.Logger
	Now          func() time.Time
}

// Controller drives one remote list view. It is safe for concurrent use.
type Controller[T any] struct {
	list    store.ListFunc[T]
	name    string
	ownerID string
	metrics statsd.Sink
	logger  *slog.Logger
	now     func() time.Time

	mu     sync.Mutex
	seq    uint64
	state  State
	paging model.PagingState
	page   model.Page[T]
	err    error
}

// New constructs a Controller over list.
func New[T any](list store.ListFunc[T], opts Options) *Controller[T] {
	paging := model.DefaultPagingState()
	if opts.PageSize > 0 {
		paging.PageSize = opts.PageSize
	}
	if opts.InitialLimit > 0 {
		paging.PageSize = opts.InitialLimit
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Controller[T]{
		list:    list,
		name:    opts.Name,
		ownerID: opts.OwnerID,
		metrics: opts.Metrics,
		logger:  logger,
		now:     now,
		paging:  paging,
		page:    model.Page[T]{Rows: []T{}},
	}
}

// Mount performs the initial fetch.
func (c *Controller[T]) Mount(ctx context.Context) Outcome[T] {
	c.mu.Lock()
	limit := c.paging.PageSize
	c.mu.Unlock()
	return c.FetchPage(ctx, limit, 0)
}

// OnTableChange moves the controller to the requested position and fetches it.
// Invalid positions fail with a validation error without fetching.
func (c *Controller[T]) OnTableChange(ctx context.Context, kind ChangeType, change TableChange) Outcome[T] {
	c.mu.Lock()
	search := c.paging.SearchText
	page := change.Page
	switch {
	case kind == ChangeSearch:
		search = change.SearchText
		page = 1
	case change.SearchText != "":
		search = change.SearchText
	}

	next, err := model.NewPagingState(page, change.PageSize, search)
	if err != nil {
		c.mu.Unlock()
		return Outcome[T]{Err: err}
	}
	c.paging = next
	seq, q := c.issueLocked(next.Limit(), next.Offset, next.SearchText)
	c.mu.Unlock()
	return c.fetch(ctx, seq, q)
}

// FetchPage fetches limit rows at offset with the current search text.
// The response is applied only if no newer fetch was issued meanwhile.
func (c *Controller[T]) FetchPage(ctx context.Context, limit, offset int) Outcome[T] {
	c.mu.Lock()
	seq, q := c.issueLocked(limit, offset, c.paging.SearchText)
	c.mu.Unlock()
	return c.fetch(ctx, seq, q)
}

// issueLocked claims the next sequence number for q. c.mu must be held.
func (c *Controller[T]) issueLocked(limit, offset int, search string) (uint64, store.ListQuery) {
	c.seq++
	c.state = StateLoading
	return c.seq, store.ListQuery{
		Search:  search,
		OwnerID: c.ownerID,
		Limit:   limit,
		Offset:  offset,
	}
}

func (c *Controller[T]) fetch(ctx context.Context, seq uint64, q store.ListQuery) Outcome[T] {
	started := c.now()
	page, err := c.list(ctx, q)
	elapsed := c.now().Sub(started)

	out := c.apply(seq, page, err)
	switch {
	case out.Stale:
		c.emit(metrics.ResultStale, 0, elapsed, nil)
		c.logger.DebugContext(ctx, "discarded stale list response",
			slog.String("view", c.name),
			slog.Uint64("seq", seq),
		)
	case out.Err != nil:
		c.emit(metrics.ResultError, 0, elapsed, out.Err)
	default:
		c.emit(metrics.ResultSuccess, len(out.Page.Rows), elapsed, nil)
	}
	return out
}

func (c *Controller[T]) apply(seq uint64, page model.Page[T], err error) Outcome[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		return Outcome[T]{Page: page, Err: err, Stale: true, Seq: seq}
	}

	c.state = StateIdle
	if err != nil {
		c.err = err
		return Outcome[T]{Err: err, Seq: seq}
	}
	if page.Rows == nil {
		page.Rows = []T{}
	}
	c.page = page
	c.err = nil
	return Outcome[T]{Page: page, Seq: seq}
}

// Snapshot returns a copy of the current state.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows := make([]T, len(c.page.Rows))
	copy(rows, c.page.Rows)
	return Snapshot[T]{
		State:      c.state,
		Paging:     c.paging,
		Page:       model.Page[T]{Rows: rows, TotalCount: c.page.TotalCount},
		TotalPages: model.TotalPages(c.page.TotalCount, c.paging.PageSize),
		Err:        c.err,
		Seq:        c.seq,
	}
}

func (c *Controller[T]) emit(result string, rows int, elapsed time.Duration, err error) {
	metrics.EmitListFetch(c.metrics, metrics.ListFetch{
		View:     c.name,
		Result:   result,
		Rows:     rows,
		Duration: elapsed,
		Err:      err,
	})
}
