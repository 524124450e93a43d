package httpx

import (
	"context"
	"net/http"
	"strconv"

	"github.com/mxc-foundation/lpwan-console/internal/domain/model"
	"github.com/mxc-foundation/lpwan-console/internal/http/ui/viewmodel"
	"github.com/mxc-foundation/lpwan-console/internal/util"
	"github.com/mxc-foundation/lpwan-console/internal/views"
)

// Gateway renders a gateway's detail page.
func (h *UIHandlers) Gateway(w http.ResponseWriter, r *http.Request) {
	orgID, id := r.PathValue("orgID"), r.PathValue("id")
	if !validNumericID(orgID) || !validDevEUI(id) || h.Gateways == nil {
		h.NotFound(w, r)
		return
	}

	canManage := CanManageOrganization(r.Context(), orgID)
	h.detailPage(w, r, detailSpec{
		Meta: PageMeta{Title: "Gateway - LPWAN Console", PageTitle: "Gateway", CurrentPage: PageGateway},
		Load: func(ctx context.Context) (viewmodel.Detail, error) {
			gw, err := h.Gateways.Get(ctx, id)
			if err != nil {
				return viewmodel.Detail{}, err
			}
			d := gatewayDetail(gw)
			if canManage {
				d.DeleteURL = deletePath(views.GatewayPath(orgID, id))
				d.DeleteConfirm = "Delete gateway " + gw.Name + "?"
			}
			return d, nil
		},
	})
}

func gatewayDetail(gw model.Gateway) viewmodel.Detail {
	return viewmodel.Detail{
		Heading: gw.Name,
		Fields: []viewmodel.DetailField{
			{Label: "Gateway ID", Value: gw.ID},
			{Label: "Description", Value: gw.Description},
			{Label: "Network server", Value: gw.NetworkServerName},
			{Label: "Latitude", Value: formatCoordinate(gw.Location.Latitude)},
			{Label: "Longitude", Value: formatCoordinate(gw.Location.Longitude)},
			{Label: "Altitude", Value: strconv.FormatFloat(gw.Location.Altitude, 'f', 0, 64) + " m"},
			{Label: "First seen", Value: util.FormatTimePtr(gw.FirstSeenAt, "Never")},
			{Label: "Last seen", Value: util.FormatTimePtr(gw.LastSeenAt, "Never")},
		},
	}
}

func formatCoordinate(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

// GatewayDelete removes a gateway after confirmation.
func (h *UIHandlers) GatewayDelete(w http.ResponseWriter, r *http.Request) {
	orgID := r.PathValue("orgID")
	if !validNumericID(orgID) || !validDevEUI(r.PathValue("id")) || h.Gateways == nil {
		h.NotFound(w, r)
		return
	}
	h.handleDelete(w, r, deleteHandlerOpts{
		Delete:       h.Gateways.Delete,
		RedirectPath: views.OrganizationPath(orgID) + "/gateways",
		Noun:         "gateway",
	})
}
