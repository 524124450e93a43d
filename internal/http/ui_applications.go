package httpx

import (
	"context"
	"net/http"

	"github.com/mxc-foundation/lpwan-console/internal/http/ui/viewmodel"
	"github.com/mxc-foundation/lpwan-console/internal/util"
	"github.com/mxc-foundation/lpwan-console/internal/views"
)

// Application renders an application with its devices and firmware updates.
func (h *UIHandlers) Application(w http.ResponseWriter, r *http.Request) {
	orgID, appID := r.PathValue("orgID"), r.PathValue("appID")
	if !validNumericID(orgID) || !validNumericID(appID) || h.Applications == nil {
		h.NotFound(w, r)
		return
	}

	canManage := CanManageOrganization(r.Context(), orgID)
	path := views.ApplicationPath(orgID, appID)
	h.detailPage(w, r, detailSpec{
		Meta: PageMeta{Title: "Application - LPWAN Console", PageTitle: "Application", CurrentPage: PageApplication},
		Load: func(ctx context.Context) (viewmodel.Detail, error) {
			app, err := h.Applications.Get(ctx, appID)
			if err != nil {
				return viewmodel.Detail{}, err
			}
			d := viewmodel.Detail{
				Heading: app.Name,
				Fields: []viewmodel.DetailField{
					{Label: "ID", Value: app.ID.String()},
					{Label: "Description", Value: app.Description},
					{Label: "Service profile", Value: app.ServiceProfileName},
				},
				Tables: []viewmodel.Table{
					lazyTable(views.Devices.Name, views.Devices.Title, path+"/devices"),
					lazyTable(views.ApplicationFUOTA.Name, views.ApplicationFUOTA.Title, path+"/fuota-deployments"),
				},
			}
			if canManage {
				d.DeleteURL = deletePath(path)
				d.DeleteConfirm = "Delete application " + app.Name + " and all of its devices?"
			}
			return d, nil
		},
	})
}

// ApplicationDelete removes an application after confirmation.
func (h *UIHandlers) ApplicationDelete(w http.ResponseWriter, r *http.Request) {
	orgID := r.PathValue("orgID")
	if !validNumericID(orgID) || !validNumericID(r.PathValue("appID")) || h.Applications == nil {
		h.NotFound(w, r)
		return
	}
	h.handleDelete(w, r, deleteHandlerOpts{
		IDParam:      "appID",
		Delete:       h.Applications.Delete,
		RedirectPath: views.OrganizationPath(orgID) + "/applications",
		Noun:         "application",
	})
}

// Device renders an end device with its multicast groups and firmware updates.
func (h *UIHandlers) Device(w http.ResponseWriter, r *http.Request) {
	orgID, appID, devEUI := r.PathValue("orgID"), r.PathValue("appID"), r.PathValue("devEUI")
	if !validNumericID(orgID) || !validNumericID(appID) || !validDevEUI(devEUI) || h.Devices == nil {
		h.NotFound(w, r)
		return
	}

	path := views.DevicePath(orgID, appID, devEUI)
	h.detailPage(w, r, detailSpec{
		Meta: PageMeta{Title: "Device - LPWAN Console", PageTitle: "Device", CurrentPage: PageDevice},
		Load: func(ctx context.Context) (viewmodel.Detail, error) {
			dev, err := h.Devices.Get(ctx, devEUI)
			if err != nil {
				return viewmodel.Detail{}, err
			}
			return viewmodel.Detail{
				Heading: dev.Name,
				Fields: []viewmodel.DetailField{
					{Label: "DevEUI", Value: dev.DevEUI},
					{Label: "Description", Value: dev.Description},
					{
						Label: "Device profile",
						Value: dev.DeviceProfileName,
						Href:  views.DeviceProfilePath(orgID, dev.DeviceProfileID),
					},
					{Label: "Last seen", Value: util.FormatTimePtr(dev.LastSeenAt, "Never")},
					{Label: "Link margin", Value: util.FormatMargin(dev.DeviceStatusMargin)},
					{Label: "Battery", Value: util.FormatBattery(dev.DeviceStatusBattery)},
				},
				Tables: []viewmodel.Table{
					lazyTable(views.DeviceMulticastGroups.Name, views.DeviceMulticastGroups.Title, path+"/multicast-groups"),
					lazyTable(views.DeviceFUOTA.Name, views.DeviceFUOTA.Title, path+"/fuota-deployments"),
				},
			}, nil
		},
	})
}
