package store

import (
	"context"
	"time"

	"github.com/mxc-foundation/lpwan-console/internal/domain/model"
)

const gatewaysPath = "/api/gateways"

// Gateways manages LoRaWAN gateways.
type Gateways struct{ base }

// NewGateways constructs a Gateways store.
func NewGateways(opts Options) (*Gateways, error) {
	b, err := newBase(opts)
	if err != nil {
		return nil, err
	}
	return &Gateways{base: b}, nil
}

// Source returns the gateway list source. OwnerID optionally scopes it to an organization.
func (s *Gateways) Source() Source[model.Gateway] {
	return Source[model.Gateway]{List: s.List, Search: true}
}

// List pages gateways, scoped to organization q.OwnerID when set.
func (s *Gateways) List(ctx context.Context, q ListQuery) (model.Page[model.Gateway], error) {
	return fetchList[model.Gateway](ctx, s.base, q, listCall{
		op:     "list gateways",
		path:   gatewaysPath,
		query:  map[string][]string{"organizationID": {q.OwnerID}},
		search: true,
	})
}

type gatewayEnvelope struct {
	Gateway     model.Gateway `json:"gateway"`
	FirstSeenAt *time.Time    `json:"firstSeenAt,omitempty"`
	LastSeenAt  *time.Time    `json:"lastSeenAt,omitempty"`
	CreatedAt   *time.Time    `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time    `json:"updatedAt,omitempty"`
}

// Get fetches one gateway by its MAC.
func (s *Gateways) Get(ctx context.Context, id string) (model.Gateway, error) {
	var env gatewayEnvelope
	if err := s.api.GetJSON(ctx, ownerPath(gatewaysPath, id, ""), nil, &env); err != nil {
		return model.Gateway{}, s.fail(ctx, "get gateway", err)
	}
	gw := env.Gateway
	gw.FirstSeenAt = env.FirstSeenAt
	gw.LastSeenAt = env.LastSeenAt
	gw.CreatedAt = env.CreatedAt
	gw.UpdatedAt = env.UpdatedAt
	return gw, nil
}

// Delete removes gateway id.
func (s *Gateways) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, ownerPath(gatewaysPath, id, "")); err != nil {
		return s.fail(ctx, "delete gateway", err)
	}
	s.ok(ctx, "Gateway has been deleted")
	return nil
}
