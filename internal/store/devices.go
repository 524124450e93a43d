package store

import (
	"context"
	"time"

	"github.com/mxc-foundation/lpwan-console/internal/domain/model"
)

const (
	devicesPath         = "/api/devices"
	multicastGroupsPath = "/api/multicast-groups"
)

// Devices reads end devices.
type Devices struct{ base }

// NewDevices constructs a Devices store.
func NewDevices(opts Options) (*Devices, error) {
	b, err := newBase(opts)
	if err != nil {
		return nil, err
	}
	return &Devices{base: b}, nil
}

// Source returns the device list source for application ListQuery.OwnerID.
func (s *Devices) Source() Source[model.Device] {
	return Source[model.Device]{List: s.List, Search: true}
}

// List pages the devices of application q.OwnerID.
func (s *Devices) List(ctx context.Context, q ListQuery) (model.Page[model.Device], error) {
	if err := requireOwner("list devices", q.OwnerID); err != nil {
		return model.Page[model.Device]{}, err
	}
	return fetchList[model.Device](ctx, s.base, q, listCall{
		op:     "list devices",
		path:   devicesPath,
		query:  map[string][]string{"applicationID": {q.OwnerID}},
		search: true,
	})
}

// Get fetches one device by DevEUI.
func (s *Devices) Get(ctx context.Context, devEUI string) (model.Device, error) {
	var env struct {
		Device              model.Device `json:"device"`
		LastSeenAt          *time.Time   `json:"lastSeenAt,omitempty"`
		DeviceStatusBattery int          `json:"deviceStatusBattery"`
		DeviceStatusMargin  int          `json:"deviceStatusMargin"`
	}
	if err := s.api.GetJSON(ctx, ownerPath(devicesPath, devEUI, ""), nil, &env); err != nil {
		return model.Device{}, s.fail(ctx, "get device", err)
	}
	d := env.Device
	d.LastSeenAt = env.LastSeenAt
	d.DeviceStatusBattery = env.DeviceStatusBattery
	d.DeviceStatusMargin = env.DeviceStatusMargin
	return d, nil
}

// MulticastGroups lists multicast groups.
type MulticastGroups struct{ base }

// NewMulticastGroups constructs a MulticastGroups store.
func NewMulticastGroups(opts Options) (*MulticastGroups, error) {
	b, err := newBase(opts)
	if err != nil {
		return nil, err
	}
	return &MulticastGroups{base: b}, nil
}

// Source returns the multicast group list source for organization ListQuery.OwnerID.
func (s *MulticastGroups) Source() Source[model.MulticastGroup] {
	return Source[model.MulticastGroup]{List: s.List, Search: true}
}

// List pages multicast groups, scoped to organization q.OwnerID when set.
func (s *MulticastGroups) List(ctx context.Context, q ListQuery) (model.Page[model.MulticastGroup], error) {
	return fetchList[model.MulticastGroup](ctx, s.base, q, listCall{
		op:     "list multicast groups",
		path:   multicastGroupsPath,
		query:  map[string][]string{"organizationID": {q.OwnerID}},
		search: true,
	})
}

// DeviceSource returns the multicast groups of device ListQuery.OwnerID.
func (s *MulticastGroups) DeviceSource() Source[model.MulticastGroup] {
	return Source[model.MulticastGroup]{List: s.ListForDevice}
}

// ListForDevice pages the multicast groups device q.OwnerID belongs to.
func (s *MulticastGroups) ListForDevice(ctx context.Context, q ListQuery) (model.Page[model.MulticastGroup], error) {
	if err := requireOwner("list device multicast groups", q.OwnerID); err != nil {
		return model.Page[model.MulticastGroup]{}, err
	}
	return fetchList[model.MulticastGroup](ctx, s.base, q, listCall{
		op:    "list device multicast groups",
		path:  multicastGroupsPath,
		query: map[string][]string{"devEUI": {q.OwnerID}},
	})
}
