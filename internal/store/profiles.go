package store

import (
	"context"
	"time"

	"github.com/mxc-foundation/lpwan-console/internal/domain/model"
)

const (
	deviceProfilesPath  = "/api/device-profiles"
	serviceProfilesPath = "/api/service-profiles"
	networkServersPath  = "/api/network-servers"
)

// DeviceProfiles manages device profiles.
type DeviceProfiles struct{ base }

// NewDeviceProfiles constructs a DeviceProfiles store.
func NewDeviceProfiles(opts Options) (*DeviceProfiles, error) {
	b, err := newBase(opts)
	if err != nil {
		return nil, err
	}
	return &DeviceProfiles{base: b}, nil
}

// Source returns the device profile list source.
func (s *DeviceProfiles) Source() Source[model.DeviceProfile] {
	return Source[model.DeviceProfile]{List: s.List}
}

// List pages device profiles, scoped to organization q.OwnerID when set.
func (s *DeviceProfiles) List(ctx context.Context, q ListQuery) (model.Page[model.DeviceProfile], error) {
	return fetchList[model.DeviceProfile](ctx, s.base, q, listCall{
		op:    "list device profiles",
		path:  deviceProfilesPath,
		query: map[string][]string{"organizationID": {q.OwnerID}},
	})
}

// Get fetches one device profile.
func (s *DeviceProfiles) Get(ctx context.Context, id string) (model.DeviceProfile, error) {
	var env struct {
		DeviceProfile model.DeviceProfile `json:"deviceProfile"`
		CreatedAt     *time.Time          `json:"createdAt,omitempty"`
		UpdatedAt     *time.Time          `json:"updatedAt,omitempty"`
	}
	if err := s.api.GetJSON(ctx, ownerPath(deviceProfilesPath, id, ""), nil, &env); err != nil {
		return model.DeviceProfile{}, s.fail(ctx, "get device profile", err)
	}
	dp := env.DeviceProfile
	dp.CreatedAt = env.CreatedAt
	dp.UpdatedAt = env.UpdatedAt
	return dp, nil
}

// Delete removes device profile id.
func (s *DeviceProfiles) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, ownerPath(deviceProfilesPath, id, "")); err != nil {
		return s.fail(ctx, "delete device profile", err)
	}
	s.ok(ctx, "Device profile has been deleted")
	return nil
}

// ServiceProfiles lists service profiles.
type ServiceProfiles struct{ base }

// NewServiceProfiles constructs a ServiceProfiles store.
func NewServiceProfiles(opts Options) (*ServiceProfiles, error) {
	b, err := newBase(opts)
	if err != nil {
		return nil, err
	}
	return &ServiceProfiles{base: b}, nil
}

// Source returns the service profile list source.
func (s *ServiceProfiles) Source() Source[model.ServiceProfile] {
	return Source[model.ServiceProfile]{List: s.List}
}

// List pages service profiles, scoped to organization q.OwnerID when set.
func (s *ServiceProfiles) List(ctx context.Context, q ListQuery) (model.Page[model.ServiceProfile], error) {
	return fetchList[model.ServiceProfile](ctx, s.base, q, listCall{
		op:    "list service profiles",
		path:  serviceProfilesPath,
		query: map[string][]string{"organizationID": {q.OwnerID}},
	})
}

// NetworkServers lists network servers.
type NetworkServers struct{ base }

// NewNetworkServers constructs a NetworkServers store.
func NewNetworkServers(opts Options) (*NetworkServers, error) {
	b, err := newBase(opts)
	if err != nil {
		return nil, err
	}
	return &NetworkServers{base: b}, nil
}

// Source returns the network server list source.
func (s *NetworkServers) Source() Source[model.NetworkServer] {
	return Source[model.NetworkServer]{List: s.List}
}

// List pages network servers, scoped to organization q.OwnerID when set.
func (s *NetworkServers) List(ctx context.Context, q ListQuery) (model.Page[model.NetworkServer], error) {
	return fetchList[model.NetworkServer](ctx, s.base, q, listCall{
		op:    "list network servers",
		path:  networkServersPath,
		query: map[string][]string{"organizationID": {q.OwnerID}},
	})
}
