package store

import (
	"context"

	"github.com/mxc-foundation/lpwan-console/internal/domain/model"
)

const applicationsPath = "/api/applications"

// Applications manages applications.
type Applications struct{ base }

// NewApplications constructs an Applications store.
func NewApplications(opts Options) (*Applications, error) {
	b, err := newBase(opts)
	if err != nil {
		return nil, err
	}
	return &Applications{base: b}, nil
}

// Source returns the application list source.
func (s *Applications) Source() Source[model.Application] {
	return Source[model.Application]{List: s.List, Search: true}
}

// List pages applications, scoped to organization q.OwnerID when set.
func (s *Applications) List(ctx context.Context, q ListQuery) (model.Page[model.Application], error) {
	return fetchList[model.Application](ctx, s.base, q, listCall{
		op:     "list applications",
		path:   applicationsPath,
		query:  map[string][]string{"organizationID": {q.OwnerID}},
		search: true,
	})
}

// Get fetches one application.
func (s *Applications) Get(ctx context.Context, id string) (model.Application, error) {
	var env struct {
		Application model.Application `json:"application"`
	}
	if err := s.api.GetJSON(ctx, ownerPath(applicationsPath, id, ""), nil, &env); err != nil {
		return model.Application{}, s.fail(ctx, "get application", err)
	}
	return env.Application, nil
}

// Delete removes application id.
func (s *Applications) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, ownerPath(applicationsPath, id, "")); err != nil {
		return s.fail(ctx, "delete application", err)
	}
	s.ok(ctx, "Application has been deleted")
	return nil
}
