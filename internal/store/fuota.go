package store

import (
	"context"
	"time"

	"github.com/mxc-foundation/lpwan-console/internal/domain/model"
)

const fuotaDeploymentsPath = "/api/fuota-deployments"

// FUOTA reads firmware-update deployments.
type FUOTA struct{ base }

// NewFUOTA constructs a FUOTA store.
func NewFUOTA(opts Options) (*FUOTA, error) {
	b, err := newBase(opts)
	if err != nil {
		return nil, err
	}
	return &FUOTA{base: b}, nil
}

// ApplicationSource lists the deployments of application ListQuery.OwnerID.
func (s *FUOTA) ApplicationSource() Source[model.FUOTADeployment] {
	return Source[model.FUOTADeployment]{List: s.ListForApplication}
}

// DeviceSource lists the deployments targeting device ListQuery.OwnerID.
func (s *FUOTA) DeviceSource() Source[model.FUOTADeployment] {
	return Source[model.FUOTADeployment]{List: s.ListForDevice}
}

// DeploymentDevicesSource lists the devices of deployment ListQuery.OwnerID.
func (s *FUOTA) DeploymentDevicesSource() Source[model.FUOTADeploymentDevice] {
	return Source[model.FUOTADeploymentDevice]{List: s.ListDeploymentDevices}
}

// ListForApplication pages the deployments of application q.OwnerID.
func (s *FUOTA) ListForApplication(ctx context.Context, q ListQuery) (model.Page[model.FUOTADeployment], error) {
	if err := requireOwner("list application fuota deployments", q.OwnerID); err != nil {
		return model.Page[model.FUOTADeployment]{}, err
	}
	return fetchList[model.FUOTADeployment](ctx, s.base, q, listCall{
		op:    "list application fuota deployments",
		path:  fuotaDeploymentsPath,
		query: map[string][]string{"applicationID": {q.OwnerID}},
	})
}

// ListForDevice pages the deployments targeting device q.OwnerID.
func (s *FUOTA) ListForDevice(ctx context.Context, q ListQuery) (model.Page[model.FUOTADeployment], error) {
	if err := requireOwner("list device fuota deployments", q.OwnerID); err != nil {
		return model.Page[model.FUOTADeployment]{}, err
	}
	return fetchList[model.FUOTADeployment](ctx, s.base, q, listCall{
		op:    "list device fuota deployments",
		path:  fuotaDeploymentsPath,
		query: map[string][]string{"devEUI": {q.OwnerID}},
	})
}

// ListDeploymentDevices pages the per-device state of deployment q.OwnerID.
func (s *FUOTA) ListDeploymentDevices(ctx context.Context, q ListQuery) (model.Page[model.FUOTADeploymentDevice], error) {
	if err := requireOwner("list fuota deployment devices", q.OwnerID); err != nil {
		return model.Page[model.FUOTADeploymentDevice]{}, err
	}
	return fetchList[model.FUOTADeploymentDevice](ctx, s.base, q, listCall{
		op:   "list fuota deployment devices",
		path: ownerPath(fuotaDeploymentsPath, q.OwnerID, "/devices"),
	})
}

// Get fetches one deployment.
func (s *FUOTA) Get(ctx context.Context, id string) (model.FUOTADeployment, error) {
	var env struct {
		Deployment model.FUOTADeployment `json:"fuotaDeployment"`
		CreatedAt  *time.Time            `json:"createdAt,omitempty"`
		UpdatedAt  *time.Time            `json:"updatedAt,omitempty"`
	}
	if err := s.api.GetJSON(ctx, ownerPath(fuotaDeploymentsPath, id, ""), nil, &env); err != nil {
		return model.FUOTADeployment{}, s.fail(ctx, "get fuota deployment", err)
	}
	d := env.Deployment
	d.CreatedAt = env.CreatedAt
	d.UpdatedAt = env.UpdatedAt
	return d, nil
}
