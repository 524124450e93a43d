package httpx

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/mxc-foundation/lpwan-console/internal/http/ui/viewmodel"
	"github.com/mxc-foundation/lpwan-console/internal/http/validation"
	"github.com/mxc-foundation/lpwan-console/internal/store"
	"github.com/mxc-foundation/lpwan-console/internal/util"
	"github.com/mxc-foundation/lpwan-console/internal/views"
)

const (
	maxOrganizationName        = 100
	maxOrganizationDisplayName = 200
)

// Organization renders the organization page with its members loaded lazily.
func (h *UIHandlers) Organization(w http.ResponseWriter, r *http.Request) {
	orgID := r.PathValue("orgID")
	if !validNumericID(orgID) {
		h.NotFound(w, r)
		return
	}
	if h.Organizations == nil {
		h.NotFound(w, r)
		return
	}

	canEdit, canDelete := CanManageOrganization(r.Context(), orgID), false
	if s := GetSessionFromContext(r.Context()); s != nil {
		canDelete = s.IsAdmin()
	}
	path := views.OrganizationPath(orgID)
	spec := detailSpec{
		Meta: PageMeta{Title: "Organization - LPWAN Console", PageTitle: "Organization", CurrentPage: PageOrganization},
		Load: func(ctx context.Context) (viewmodel.Detail, error) {
			org, err := h.Organizations.Get(ctx, orgID)
			if err != nil {
				return viewmodel.Detail{}, err
			}
			d := viewmodel.Detail{
				Heading: org.DisplayName,
				Fields: []viewmodel.DetailField{
					{Label: "ID", Value: org.ID.String()},
					{Label: "Name", Value: org.Name},
					{Label: "Display name", Value: org.DisplayName},
					{Label: "Can have gateways", Value: strconv.FormatBool(org.CanHaveGateways)},
					{Label: "Created", Value: util.FormatTimePtr(org.CreatedAt, "")},
				},
				Links: []viewmodel.DetailField{
					{Label: "Gateways", Href: path + "/gateways"},
					{Label: "Applications", Href: path + "/applications"},
					{Label: "Device profiles", Href: path + "/device-profiles"},
					{Label: "Service profiles", Href: path + "/service-profiles"},
					{Label: "Multicast groups", Href: path + "/multicast-groups"},
					{Label: "Staking", Href: path + "/wallet/staking"},
					{Label: "Withdrawals", Href: path + "/wallet/withdrawals"},
					{Label: "Top-ups", Href: path + "/wallet/topups"},
				},
				Tables: []viewmodel.Table{
					lazyTable(views.OrganizationUsers.Name, views.OrganizationUsers.Title, path+"/users"),
				},
			}
			if d.Heading == "" {
				d.Heading = org.Name
			}
			if canEdit {
				d.Links = append(d.Links, viewmodel.DetailField{Label: "Edit", Href: path + "/edit"})
			}
			if canDelete {
				d.DeleteURL = deletePath(path)
				d.DeleteConfirm = "Delete organization " + org.Name + "? This removes all of its gateways and applications."
			}
			return d, nil
		},
	}
	h.detailPage(w, r, spec)
}

// OrganizationNew renders the empty organization form.
func (h *UIHandlers) OrganizationNew(w http.ResponseWriter, r *http.Request) {
	h.renderOrganizationForm(w, r, map[string]any{
		"Mode":     FormModeCreate,
		"FormData": store.OrganizationInput{CanHaveGateways: true},
	})
}

// OrganizationEdit renders the form prefilled with the stored organization.
func (h *UIHandlers) OrganizationEdit(w http.ResponseWriter, r *http.Request) {
	orgID := r.PathValue("orgID")
	if !validNumericID(orgID) || h.Organizations == nil {
		h.NotFound(w, r)
		return
	}
	org, err := h.Organizations.Get(r.Context(), orgID)
	if err != nil {
		h.detailPage(w, r, detailSpec{
			Meta: organizationFormMeta(FormModeEdit),
			Load: func(context.Context) (viewmodel.Detail, error) { return viewmodel.Detail{}, err },
		})
		return
	}
	h.renderOrganizationForm(w, r, map[string]any{
		"Mode":           FormModeEdit,
		"OrganizationID": orgID,
		"FormData": store.OrganizationInput{
			Name:            org.Name,
			DisplayName:     org.DisplayName,
			CanHaveGateways: org.CanHaveGateways,
		},
	})
}

// OrganizationCreate handles the organization form submission.
func (h *UIHandlers) OrganizationCreate(w http.ResponseWriter, r *http.Request) {
	h.saveOrganization(w, r, FormModeCreate)
}

// OrganizationUpdate handles the edit form submission.
func (h *UIHandlers) OrganizationUpdate(w http.ResponseWriter, r *http.Request) {
	orgID := r.PathValue("orgID")
	if !validNumericID(orgID) {
		h.NotFound(w, r)
		return
	}
	h.saveOrganization(w, r, FormModeEdit)
}

func (h *UIHandlers) saveOrganization(w http.ResponseWriter, r *http.Request, mode FormMode) {
	if h.Organizations == nil {
		h.NotFound(w, r)
		return
	}
	HandleForm(FormHandlerOpts[store.OrganizationInput]{
		W:          w,
		R:          r,
		Mode:       mode,
		Parser:     parseOrganizationForm,
		Service:    h.Organizations,
		Renderer:   h.renderOrganizationForm,
		SuccessURL: views.OrganizationPath,
		PageMeta:   organizationFormMeta(mode),
		ExtraData:  map[string]any{"OrganizationID": r.PathValue("orgID")},
		GetID:      func(r *http.Request) string { return r.PathValue("orgID") },
		Logger:     h.logger(),
	})
}

// OrganizationDelete removes an organization after confirmation.
func (h *UIHandlers) OrganizationDelete(w http.ResponseWriter, r *http.Request) {
	if !validNumericID(r.PathValue("orgID")) || h.Organizations == nil {
		h.NotFound(w, r)
		return
	}
	h.handleDelete(w, r, deleteHandlerOpts{
		IDParam:      "orgID",
		Delete:       h.Organizations.Delete,
		RedirectPath: "/organizations",
		Noun:         "organization",
	})
}

func parseOrganizationForm(r *http.Request) (store.OrganizationInput, map[string]string) {
	if err := r.ParseForm(); err != nil {
		return store.OrganizationInput{}, map[string]string{"name": "Unable to read the form."}
	}
	in := store.OrganizationInput{
		Name:            strings.TrimSpace(r.PostFormValue("name")),
		DisplayName:     strings.TrimSpace(r.PostFormValue("displayName")),
		CanHaveGateways: r.PostFormValue("canHaveGateways") == "on" || r.PostFormValue("canHaveGateways") == "true",
	}
	errs := validation.New().
		Validate("name", in.Name, validation.Required("Name", maxOrganizationName), validation.Slug("Name")).
		Validate("displayName", in.DisplayName, validation.Required("Display name", maxOrganizationDisplayName)).
		Errors()
	return in, errs
}

func organizationFormMeta(mode FormMode) PageMeta {
	if mode == FormModeEdit {
		return PageMeta{Title: "Edit organization - LPWAN Console", PageTitle: "Edit organization", CurrentPage: PageOrganizationForm}
	}
	return PageMeta{Title: "New organization - LPWAN Console", PageTitle: "New organization", CurrentPage: PageOrganizationForm}
}

func (h *UIHandlers) renderOrganizationForm(w http.ResponseWriter, r *http.Request, data map[string]any) {
	data, _ = prepareFormFrame(FormFrameOpts{
		R:           r,
		Data:        data,
		DefaultMode: FormModeCreate,
		MetaForMode: organizationFormMeta,
	})
	h.renderDashboardPage(w, r, data)
}
