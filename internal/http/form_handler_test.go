package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errorsx "github.com/mxc-foundation/lpwan-console/internal/errors"
)

type testFormData struct {
	Name string
}

type fakeFormService struct {
	createErr error
	updateErr error
	updatedID string
}

func (f *fakeFormService) Create(_ context.Context, _ testFormData) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	return "42", nil
}

func (f *fakeFormService) Update(_ context.Context, id string, _ testFormData) error {
	f.updatedID = id
	return f.updateErr
}

type capturedForm struct {
	data map[string]any
}

func (c *capturedForm) render(w http.ResponseWriter, _ *http.Request, data map[string]any) {
	c.data = data
	w.WriteHeader(http.StatusOK)
}

func formOpts(w http.ResponseWriter, r *http.Request, svc FormService[testFormData], c *capturedForm) FormHandlerOpts[testFormData] {
	return FormHandlerOpts[testFormData]{
		W:    w,
		R:    r,
		Mode: FormModeCreate,
		Parser: func(r *http.Request) (testFormData, map[string]string) {
			name := r.FormValue("name")
			if name == "" {
				return testFormData{}, map[string]string{"name": "Name is required."}
			}
			return testFormData{Name: name}, nil
		},
		Service:    svc,
		Renderer:   c.render,
		SuccessURL: func(id string) string { return "/organizations/" + id },
		PageMeta:   PageMeta{Title: "New organization", CurrentPage: PageOrganizationForm},
	}
}

func TestHandleForm_CreateRedirects(t *testing.T) {
	t.Run("htmx", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/organizations/new?name=acme", nil)
		r.Header.Set("Hx-Request", "true")
		HandleForm(formOpts(w, r, &fakeFormService{}, &capturedForm{}))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "/organizations/42", w.Header().Get("Hx-Redirect"))
	})
	t.Run("browser", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/organizations/new?name=acme", nil)
		HandleForm(formOpts(w, r, &fakeFormService{}, &capturedForm{}))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/organizations/42", w.Header().Get("Location"))
	})
}

func TestHandleForm_ValidationSkipsService(t *testing.T) {
	svc := &fakeFormService{createErr: errorsx.Internal("must not be called")}
	c := &capturedForm{}
	w := httptest.NewRecorder()
	HandleForm(formOpts(w, httptest.NewRequest(http.MethodPost, "/organizations/new", nil), svc, c))

	require.NotNil(t, c.data)
	assert.Equal(t, map[string]string{"name": "Name is required."}, c.data["Errors"])
	assert.Equal(t, errMsgFixBelow, c.data["ErrorMessage"])
	assert.Equal(t, FormModeCreate, c.data["Mode"])
}

func TestHandleForm_UpdateUsesPathID(t *testing.T) {
	svc := &fakeFormService{}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/organizations/9/edit?name=acme", nil)
	r.SetPathValue("id", "9")
	opts := formOpts(w, r, svc, &capturedForm{})
	opts.Mode = FormModeEdit
	HandleForm(opts)

	assert.Equal(t, "9", svc.updatedID)
	assert.Equal(t, "/organizations/9", w.Header().Get("Location"))
}

func TestHandleForm_EditWithoutID(t *testing.T) {
	w := httptest.NewRecorder()
	opts := formOpts(w, httptest.NewRequest(http.MethodPost, "/organizations//edit", nil), &fakeFormService{}, &capturedForm{})
	opts.Mode = FormModeEdit
	HandleForm(opts)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleForm_ServiceErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantField map[string]string
		wantMsg   string
	}{
		{
			name:      "field validation",
			err:       errorsx.ValidationField("name", "name already exists"),
			wantField: map[string]string{"name": "name already exists"},
			wantMsg:   errMsgFixBelow,
		},
		{
			name:    "conflict",
			err:     errorsx.Conflict("object already exists"),
			wantMsg: "object already exists",
		},
		{
			name:    "unavailable",
			err:     errorsx.New(errorsx.ErrCodeUnavailable, "connection refused"),
			wantMsg: "The network server is not responding. Please try again.",
		},
		{
			name:    "internal",
			err:     errorsx.Internal("boom"),
			wantMsg: "Unable to save. Please try again.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &capturedForm{}
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/organizations/new?name=acme", nil)
			HandleForm(formOpts(w, r, &fakeFormService{createErr: tt.err}, c))

			require.NotNil(t, c.data)
			assert.Equal(t, tt.wantMsg, c.data["ErrorMessage"])
			if tt.wantField != nil {
				assert.Equal(t, tt.wantField, c.data["Errors"])
			}
			assert.Equal(t, testFormData{Name: "acme"}, c.data["FormData"])
		})
	}
}

func TestHandleForm_UnauthenticatedRedirectsToLogin(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/organizations/new?name=acme", nil)
	HandleForm(formOpts(w, r, &fakeFormService{createErr: errorsx.Unauthenticated("expired")}, &capturedForm{}))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/login?redirect_uri=")
}

func TestHandleForm_Misconfigured(t *testing.T) {
	w := httptest.NewRecorder()
	HandleForm(FormHandlerOpts[testFormData]{W: w, R: httptest.NewRequest(http.MethodPost, "/", nil)})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
