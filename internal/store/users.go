package store

import (
	"context"

	"github.com/mxc-foundation/lpwan-console/internal/domain/model"
)

// Users lists console accounts.
type Users struct{ base }

// NewUsers constructs a Users store.
func NewUsers(opts Options) (*Users, error) {
	b, err := newBase(opts)
	if err != nil {
		return nil, err
	}
	return &Users{base: b}, nil
}

// Source returns the user list source.
func (s *Users) Source() Source[model.User] {
	return Source[model.User]{List: s.List, Search: true}
}

// List pages users matching q.Search.
func (s *Users) List(ctx context.Context, q ListQuery) (model.Page[model.User], error) {
	return fetchList[model.User](ctx, s.base, q, listCall{
		op:     "list users",
		path:   "/api/users",
		search: true,
	})
}
