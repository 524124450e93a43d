package httpx

import (
	"context"
	"net/http"

	"github.com/mxc-foundation/lpwan-console/internal/http/ui/viewmodel"
	"github.com/mxc-foundation/lpwan-console/internal/util"
	"github.com/mxc-foundation/lpwan-console/internal/views"
)

// FUOTADeployment renders a firmware deployment with its per-device progress.
func (h *UIHandlers) FUOTADeployment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("deploymentID")
	if !validUUID(id) || h.FUOTA == nil {
		h.NotFound(w, r)
		return
	}

	h.detailPage(w, r, detailSpec{
		Meta: PageMeta{Title: "Firmware update - LPWAN Console", PageTitle: "Firmware update", CurrentPage: PageFUOTADeployment},
		Load: func(ctx context.Context) (viewmodel.Detail, error) {
			dep, err := h.FUOTA.Get(ctx, id)
			if err != nil {
				return viewmodel.Detail{}, err
			}
			return viewmodel.Detail{
				Heading: dep.Name,
				Fields: []viewmodel.DetailField{
					{Label: "ID", Value: dep.ID},
					{Label: "State", Value: dep.State},
					{Label: "Next step after", Value: util.FormatTimePtr(dep.NextStepAfter, "")},
					{Label: "Created", Value: util.FormatTimePtr(dep.CreatedAt, "")},
					{Label: "Updated", Value: util.FormatTimePtr(dep.UpdatedAt, "")},
				},
				Tables: []viewmodel.Table{
					lazyTable(views.FUOTADevices.Name, views.FUOTADevices.Title, views.FUOTADevicesPath(id)),
				},
			}, nil
		},
	})
}
