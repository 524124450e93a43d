package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/mxc-foundation/lpwan-console/internal/domain/auth"
	"github.com/mxc-foundation/lpwan-console/internal/http/ui/viewmodel"
)

var gatewaysMeta = PageMeta{Title: "Gateways - LPWAN Console", PageTitle: "Gateways", CurrentPage: PageGateways}

func TestNewTemplateData_SignedOut(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/organizations/1/gateways", nil)

	data := NewTemplateData(r, gatewaysMeta).Build()

	assert.Equal(t, "Gateways", data["PageTitle"])
	assert.Equal(t, PageGateways, data["CurrentPage"])
	assert.Equal(t, false, data["IsAuthenticated"])
	assert.Equal(t, false, data["IsAdmin"])
	assert.NotContains(t, data, "User")
	assert.NotContains(t, data, "Errors")
}

func TestNewTemplateData_OrganizationNavigation(t *testing.T) {
	session := testSession()
	session.Role = domainauth.RoleUser
	session.Organizations = append(session.Organizations,
		domainauth.Membership{OrganizationID: "2", OrganizationName: "globex"})

	tests := []struct {
		name    string
		orgPath string
		wantOrg string
	}{
		{name: "path organization selected", orgPath: "2", wantOrg: "2"},
		{name: "falls back to first membership", wantOrg: "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := withTestRequestContext(httptest.NewRequest(http.MethodGet, "/", nil), session)
			if tt.orgPath != "" {
				r.SetPathValue("orgID", tt.orgPath)
			}

			data := NewTemplateData(r, gatewaysMeta).Build()

			assert.Equal(t, true, data["IsAuthenticated"])
			assert.Equal(t, false, data["IsAdmin"])
			assert.Equal(t, tt.wantOrg, data["OrganizationID"])
			user, ok := data["User"].(*viewmodel.User)
			require.True(t, ok)
			assert.Equal(t, "admin", user.Username)

			orgs, ok := data["Organizations"].([]viewmodel.NavOrganization)
			require.True(t, ok)
			require.Len(t, orgs, 2)
			for _, o := range orgs {
				assert.Equal(t, o.ID == tt.wantOrg, o.Selected, o.ID)
			}
		})
	}
}

func TestPageData(t *testing.T) {
	r := withTestRequestContext(httptest.NewRequest(http.MethodGet, "/organizations/1/gateways/0102030405060708", nil), testSession())
	detail := viewmodel.Detail{
		Heading:   "roof-gw",
		Fields:    []viewmodel.DetailField{{Label: "Gateway ID", Value: "0102030405060708"}},
		DeleteURL: "/organizations/1/gateways/0102030405060708/delete",
	}

	data := NewTemplateData(r, gatewaysMeta).
		WithDetail(detail).
		WithError("Gateway could not be loaded.").
		WithFieldErrors(map[string]string{"name": "Name is required."}).
		With("Form", map[string]string{"name": ""}).
		Build()

	assert.Equal(t, detail, data["Detail"])
	assert.Equal(t, true, data["Error"])
	assert.Equal(t, "Gateway could not be loaded.", data["ErrorMessage"])
	assert.Equal(t, map[string]string{"name": "Name is required."}, data["Errors"])
	assert.Equal(t, map[string]string{"name": ""}, data["Form"])
	assert.Equal(t, true, data["IsAdmin"])
}

func TestPageData_EmptyFieldErrorsOmitted(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/organizations/new", nil)

	data := NewTemplateData(r, PageMeta{CurrentPage: PageOrganizations}).
		WithFieldErrors(map[string]string{}).
		Build()

	assert.NotContains(t, data, "Errors")
}

func TestPageData_WithFailure(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/organizations/new", nil)
	meta := PageMeta{CurrentPage: PageOrganizationForm}
	fields := map[string]string{"name": "Name is required."}

	general := NewTemplateData(r, meta).WithFailure("name already exists", fields).Build()
	assert.Equal(t, "name already exists", general["ErrorMessage"])
	assert.Equal(t, fields, general["Errors"])

	prompt := NewTemplateData(r, meta).WithFailure("", fields).Build()
	assert.Equal(t, errMsgFixBelow, prompt["ErrorMessage"])

	clean := NewTemplateData(r, meta).WithFailure("", nil).WithAll(map[string]any{"Mode": "create"}).Build()
	assert.NotContains(t, clean, "Error")
	assert.Equal(t, "create", clean["Mode"])
}
