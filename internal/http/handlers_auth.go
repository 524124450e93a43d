package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/mxc-foundation/lpwan-console/internal/domain/auth"
	errorsx "github.com/mxc-foundation/lpwan-console/internal/errors"
	"github.com/mxc-foundation/lpwan-console/internal/service"
)

// AuthServiceInterface defines the auth operations the console needs.
type AuthServiceInterface interface {
	Login(ctx context.Context, in service.LoginInput) (*domainauth.Session, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

var _ AuthServiceInterface = (*service.AuthService)(nil)

// SessionDropper forgets per-session state held outside the session store.
type SessionDropper interface {
	DropSession(sessionID string)
}

// AuthHandlers serves the login and logout endpoints.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	T            *TemplateRenderer
	CookieDomain string
	// SecureCookies forces the Secure attribute even behind plain-HTTP proxies.
	SecureCookies bool
	// Controllers, when set, drops the operator's list controllers on logout.
	Controllers SessionDropper
	Logger      *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// LoginPage renders the sign-in form.
// GET /login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if getSessionFromRequest(r, h.Svc) != nil {
		http.Redirect(w, r, safeRedirectPath(r.URL.Query().Get("redirect_uri")), http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, loginView{
		RedirectURI: safeRedirectPath(r.URL.Query().Get("redirect_uri")),
	}, http.StatusOK)
}

// loginView is the data of the sign-in page.
type loginView struct {
	Title       string
	Username    string
	RedirectURI string
	Error       string
	CSRFToken   string
}

// Login relays the credentials to the upstream and starts a session.
// POST /login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, loginView{Error: "Invalid form submission."}, http.StatusBadRequest)
		return
	}
	view := loginView{
		Username:    strings.TrimSpace(r.PostFormValue("username")),
		RedirectURI: safeRedirectPath(r.PostFormValue("redirect_uri")),
	}

	session, err := h.Svc.Login(r.Context(), service.LoginInput{
		Username: view.Username,
		Password: r.PostFormValue("password"),
	})
	if err != nil {
		status := StatusForError(err)
		switch {
		case errorsx.IsValidation(err):
			view.Error = errorsx.Message(err)
		case errorsx.IsUnauthenticated(err), errorsx.IsForbidden(err):
			view.Error = "Invalid username or password."
			status = http.StatusUnauthorized
		default:
			h.logger().ErrorContext(r.Context(), "login failed", "error", err)
			view.Error = "Sign in is unavailable. Please try again."
		}
		h.renderLogin(w, r, view, status)
		return
	}

	h.setSessionCookie(w, r, *session)
	h.logger().InfoContext(r.Context(), "operator signed in",
		slog.String("user_id", session.UserID),
		slog.String("role", string(session.Role)),
	)

	if IsHTMX(r) {
		HTMX(w).Redirect(view.RedirectURI)
		return
	}
	http.Redirect(w, r, view.RedirectURI, http.StatusSeeOther)
}

func (h *AuthHandlers) renderLogin(w http.ResponseWriter, r *http.Request, view loginView, status int) {
	view.Title = "Sign in"
	view.CSRFToken = GetCSRFToken(r)
	if view.RedirectURI == "" {
		view.RedirectURI = "/"
	}
	if h.T == nil {
		http.Error(w, "login page unavailable", http.StatusInternalServerError)
		return
	}
	if err := h.T.Render(w, status, tmplLogin, view); err != nil {
		h.logger().ErrorContext(r.Context(), "login page render failed", "error", err)
		http.Error(w, "login page unavailable", http.StatusInternalServerError)
	}
}

// Logout ends the session.
// POST /logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionCookie, err := r.Cookie(sessionCookieName); err == nil && sessionCookie.Value != "" {
		if logoutErr := h.Svc.Logout(r.Context(), sessionCookie.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
		if h.Controllers != nil {
			h.Controllers.DropSession(sessionCookie.Value)
		}
	}
	h.clearCookie(w, r, sessionCookieName)

	u := url.URL{Path: "/signed-out"}
	q := url.Values{}
	q.Set("redirect_uri", safeRedirectPath(r.FormValue("redirect_uri")))
	u.RawQuery = q.Encode()

	if IsHTMX(r) {
		HTMX(w).Redirect(u.String())
		return
	}
	http.Redirect(w, r, u.String(), http.StatusSeeOther)
}

// Status reports whether the request carries a live session.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromRequest(r, h.Svc)
	if session == nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	orgs := make([]string, 0, len(session.Organizations))
	for _, m := range session.Organizations {
		orgs = append(orgs, m.OrganizationID)
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":            session.UserID,
			"username":      session.Username,
			"role":          session.Role,
			"organizations": orgs,
		},
		"expires_at": session.ExpiresAt,
	})
}

func (h *AuthHandlers) secure(r *http.Request) bool {
	return h.SecureCookies || r.TLS != nil || isForwardedHTTPS(r)
}

func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    s.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   h.secure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}

func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   h.secure(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}
