package httpx

import (
	"context"
	"net/http"

	"github.com/mxc-foundation/lpwan-console/internal/http/ui/viewmodel"
	"github.com/mxc-foundation/lpwan-console/internal/util"
	"github.com/mxc-foundation/lpwan-console/internal/views"
)

// DeviceProfile renders a device profile's detail page.
func (h *UIHandlers) DeviceProfile(w http.ResponseWriter, r *http.Request) {
	orgID, id := r.PathValue("orgID"), r.PathValue("id")
	if !validNumericID(orgID) || !validUUID(id) || h.DeviceProfiles == nil {
		h.NotFound(w, r)
		return
	}

	canManage := CanManageOrganization(r.Context(), orgID)
	h.detailPage(w, r, detailSpec{
		Meta: PageMeta{Title: "Device profile - LPWAN Console", PageTitle: "Device profile", CurrentPage: PageDeviceProfile},
		Load: func(ctx context.Context) (viewmodel.Detail, error) {
			dp, err := h.DeviceProfiles.Get(ctx, id)
			if err != nil {
				return viewmodel.Detail{}, err
			}
			d := viewmodel.Detail{
				Heading: dp.Name,
				Fields: []viewmodel.DetailField{
					{Label: "ID", Value: dp.ID},
					{Label: "Network server", Value: dp.NetworkServerName},
					{Label: "Created", Value: util.FormatTimePtr(dp.CreatedAt, "")},
					{Label: "Updated", Value: util.FormatTimePtr(dp.UpdatedAt, "")},
				},
			}
			if canManage {
				d.DeleteURL = deletePath(views.DeviceProfilePath(orgID, id))
				d.DeleteConfirm = "Delete device profile " + dp.Name + "?"
			}
			return d, nil
		},
	})
}

// DeviceProfileDelete removes a device profile after confirmation.
func (h *UIHandlers) DeviceProfileDelete(w http.ResponseWriter, r *http.Request) {
	orgID := r.PathValue("orgID")
	if !validNumericID(orgID) || !validUUID(r.PathValue("id")) || h.DeviceProfiles == nil {
		h.NotFound(w, r)
		return
	}
	h.handleDelete(w, r, deleteHandlerOpts{
		Delete:       h.DeviceProfiles.Delete,
		RedirectPath: views.OrganizationPath(orgID) + "/device-profiles",
		Noun:         "device profile",
	})
}
