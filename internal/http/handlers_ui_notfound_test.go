package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/mxc-foundation/lpwan-console/internal/domain/auth"
)

func notFoundRequest(path string, browser bool, session *domainauth.Session) *http.Request {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	if browser {
		r.Header.Set("Accept", "text/html")
	} else {
		r.Header.Set("Accept", "application/json")
	}
	ctx := context.WithValue(r.Context(), browserRequestKey{}, browser)
	if session != nil {
		ctx = SetSessionInContext(ctx, session)
	}
	return r.WithContext(ctx)
}

func TestUIHandlers_NotFound(t *testing.T) {
	tr := RequireTemplateRenderer(t)
	if tr == nil {
		return
	}

	tests := []struct {
		name          string
		path          string
		browser       bool
		session       *domainauth.Session
		wantType      string
		wantContains  []string
		wantLoginLink bool
	}{
		{
			name:          "signed out operator",
			path:          "/organizations/1/towers",
			browser:       true,
			wantType:      "text/html",
			wantContains:  []string{"404", "Page Not Found"},
			wantLoginLink: true,
		},
		{
			name:         "signed in operator",
			path:         "/organizations/1/towers",
			browser:      true,
			session:      testSession(),
			wantType:     "text/html",
			wantContains: []string{"404", "Page Not Found"},
		},
		{
			name:         "api client",
			path:         "/organizations/1/towers",
			wantType:     "application/json",
			wantContains: []string{"not_found"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &UIHandlers{T: tr}
			rec := httptest.NewRecorder()
			h.NotFound(rec, notFoundRequest(tt.path, tt.browser, tt.session))

			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), tt.wantType)
			for _, s := range tt.wantContains {
				assert.Contains(t, rec.Body.String(), s)
			}
			assert.Equal(t, tt.wantLoginLink, ContainsAll(rec.Body.String(), []string{"/login?redirect_uri="}))
		})
	}
}

func TestUIHandlers_NotFound_WithoutTemplates(t *testing.T) {
	h := &UIHandlers{}
	rec := httptest.NewRecorder()
	h.NotFound(rec, notFoundRequest("/gateways/nope", true, nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")
}

func TestNotFoundHandler_OnlyWrapsUnmatchedRoutes(t *testing.T) {
	tr := RequireTemplateRenderer(t)
	if tr == nil {
		return
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /organizations/{orgID}/gateways", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("orgID") != "1" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("gateways"))
	})
	handler := BrowserDetection()(&notFoundHandler{mux: mux, uiHandlers: &UIHandlers{T: tr}})

	tests := []struct {
		name       string
		path       string
		accept     string
		wantStatus int
		wantBody   string
	}{
		{"matched", "/organizations/1/gateways", "text/html", http.StatusOK, "gateways"},
		{"matched route answering 404 passes through", "/organizations/2/gateways", "text/html", http.StatusNotFound, "404 page not found"},
		{"unmatched browser", "/organisations", "text/html", http.StatusNotFound, "404"},
		{"unmatched api", "/organisations", "application/json", http.StatusNotFound, "not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.path, nil)
			r.Header.Set("Accept", tt.accept)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, r)

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestCaptureWriter_HoldsStatusUntilFlush(t *testing.T) {
	cw := newCaptureWriter()
	assert.Equal(t, http.StatusOK, cw.status)

	cw.WriteHeader(http.StatusNotFound)
	_, _ = cw.Write([]byte("missing"))

	rec := httptest.NewRecorder()
	cw.flushTo(rec)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "missing", rec.Body.String())
}
