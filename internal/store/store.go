// Package store adapts the upstream REST API into typed, paged results.
// Each store is a stateless service over a shared Backend; every call issues
// exactly one upstream request and resolves to a value or a typed error.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/mxc-foundation/lpwan-console/internal/domain/model"
	errorsx "github.com/mxc-foundation/lpwan-console/internal/errors"
)

// Backend is the upstream transport used by stores. *apiclient.Client satisfies it.
type Backend interface {
	GetJSON(ctx context.Context, path string, query url.Values, out any) error
	PostJSON(ctx context.Context, path string, body, out any) error
	PutJSON(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

// ListQuery carries the paging window and scope of one list fetch.
type ListQuery struct {
	// Search is forwarded to endpoints that accept a search term and ignored elsewhere.
	Search string
	// OwnerID scopes the list (organization, application, device EUI or deployment ID, per endpoint).
	OwnerID string
	Limit   int
	Offset  int
}

// ListFunc fetches one page.
type ListFunc[T any] func(ctx context.Context, q ListQuery) (model.Page[T], error)

// Source pairs a list operation with the capabilities of its endpoint.
type Source[T any] struct {
	List ListFunc[T]
	// Search reports whether the endpoint filters by ListQuery.Search.
	Search bool
}

// Options holds dependencies shared by all stores.
type Options struct {
	Backend  Backend
	Notifier Notifier
	Logger   *slog.Logger
}

var errMissingBackend = errors.New("store backend is required")

type base struct {
	api    Backend
	notify Notifier
	logger *slog.Logger
}

func newBase(opts Options) (base, error) {
	if opts.Backend == nil {
		return base{}, errMissingBackend
	}
	b := base{api: opts.Backend, notify: opts.Notifier, logger: opts.Logger}
	if b.notify == nil {
		b.notify = NopNotifier{}
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b, nil
}

// fail toasts the server message and wraps err with op.
// Canceled requests are not toasted; nobody is waiting for them.
func (b base) fail(ctx context.Context, op string, err error) error {
	if !errorsx.IsCanceled(err) {
		b.notify.Notify(ctx, Toast{Kind: ToastError, Message: errorsx.Message(err)})
	}
	b.logger.WarnContext(ctx, "upstream request failed",
		slog.String("op", op),
		slog.String("code", string(errorsx.GetCode(err))),
		slog.Any("error", err),
	)
	return fmt.Errorf("%s: %w", op, err)
}

func (b base) ok(ctx context.Context, message string) {
	b.notify.Notify(ctx, Toast{Kind: ToastSuccess, Message: message})
}

// listEnvelope is the upstream list response shape.
type listEnvelope[T any] struct {
	TotalCount model.Int64String `json:"totalCount"`
	Result     []T               `json:"result"`
}

type listCall struct {
	op     string
	path   string
	query  url.Values
	search bool
}

func pageQuery(q ListQuery, search bool) url.Values {
	v := url.Values{}
	v.Set("limit", strconv.Itoa(q.Limit))
	v.Set("offset", strconv.Itoa(q.Offset))
	if search && q.Search != "" {
		v.Set("search", q.Search)
	}
	return v
}

func fetchList[T any](ctx context.Context, b base, q ListQuery, call listCall) (model.Page[T], error) {
	query := pageQuery(q, call.search)
	for k, vs := range call.query {
		for _, v := range vs {
			if v != "" {
				query.Add(k, v)
			}
		}
	}

	var env listEnvelope[T]
	if err := b.api.GetJSON(ctx, call.path, query, &env); err != nil {
		return model.Page[T]{}, b.fail(ctx, call.op, err)
	}
	rows := env.Result
	if rows == nil {
		rows = []T{}
	}
	return model.Page[T]{Rows: rows, TotalCount: env.TotalCount.Int()}, nil
}

// fetchUncounted pages endpoints that return rows without a total. It asks for
// one row more than the window and derives a total that keeps "next" enabled
// exactly when another row exists.
func fetchUncounted[T any](
	ctx context.Context,
	b base,
	q ListQuery,
	call listCall,
	extract func(*uncountedEnvelope) []T,
) (model.Page[T], error) {
	ahead := q
	ahead.Limit = q.Limit + 1
	query := pageQuery(ahead, false)
	for k, vs := range call.query {
		for _, v := range vs {
			if v != "" {
				query.Add(k, v)
			}
		}
	}

	var env uncountedEnvelope
	if err := b.api.GetJSON(ctx, call.path, query, &env); err != nil {
		return model.Page[T]{}, b.fail(ctx, call.op, err)
	}
	rows := extract(&env)
	if rows == nil {
		rows = []T{}
	}
	return derivePage(rows, q), nil
}

func derivePage[T any](rows []T, q ListQuery) model.Page[T] {
	if len(rows) > q.Limit {
		return model.Page[T]{Rows: rows[:q.Limit], TotalCount: q.Offset + q.Limit + 1}
	}
	return model.Page[T]{Rows: rows, TotalCount: q.Offset + len(rows)}
}

func ownerPath(prefix, id, suffix string) string {
	return prefix + "/" + url.PathEscape(id) + suffix
}

func requireOwner(op, id string) error {
	if id == "" {
		return errorsx.ValidationField("owner", op+": owner id is required")
	}
	return nil
}
