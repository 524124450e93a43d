package httpx

import (
	"errors"
	"net/http"
	"net/url"
)

const (
	signedOutTitle = "Signed out - LPWAN Console"
	notFoundTitle  = "Page Not Found - LPWAN Console"
)

func loginURLFor(redirect string) string {
	return "/login?redirect_uri=" + url.QueryEscape(redirect)
}

// SignedOut shows the signed-out page whose sign-in button returns to
// redirect_uri. Without templates it goes straight to the login page.
func (h *UIHandlers) SignedOut(w http.ResponseWriter, r *http.Request) {
	redirect := safeRedirectPath(r.URL.Query().Get("redirect_uri"))
	login := loginURLFor(redirect)
	if h.T == nil {
		http.Redirect(w, r, login, http.StatusSeeOther)
		return
	}

	err := h.T.Render(w, http.StatusOK, tmplSignedOut, map[string]any{
		"Title":       signedOutTitle,
		"RedirectURI": redirect,
		"LoginURL":    login,
	})
	if err != nil {
		http.Redirect(w, r, login, http.StatusSeeOther)
	}
}

// NotFound answers browsers with the error page and everyone else with a
// JSON error body.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     errors.New("not found"),
		})
		return
	}
	if h.T == nil {
		http.Error(w, "Page not found", http.StatusNotFound)
		return
	}

	signedIn := GetSessionFromContext(r.Context()) != nil
	err := h.T.Render(w, http.StatusNotFound, tmplErrorPage, map[string]any{
		"Title":           notFoundTitle,
		"Code":            "404",
		"Message":         "The page you're looking for doesn't exist.",
		"IsAuthenticated": signedIn,
		"ShowLogin":       !signedIn,
		"RedirectURI":     safeRedirectPath(r.URL.RequestURI()),
	})
	if err != nil {
		http.Error(w, "Page not found", http.StatusNotFound)
	}
}
