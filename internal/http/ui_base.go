package httpx

import (
	"context"
	"html"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mxc-foundation/lpwan-console/internal/domain/model"
	"github.com/mxc-foundation/lpwan-console/internal/http/ui/viewmodel"
	"github.com/mxc-foundation/lpwan-console/internal/observability/statsd"
	"github.com/mxc-foundation/lpwan-console/internal/store"
)

const errMsgFixBelow = "Please fix the errors below."

// OrganizationsService is the organization surface the UI needs beyond listing.
type OrganizationsService interface {
	Get(ctx context.Context, id string) (model.Organization, error)
	Create(ctx context.Context, in store.OrganizationInput) (string, error)
	Update(ctx context.Context, id string, in store.OrganizationInput) error
	Delete(ctx context.Context, id string) error
}

// GatewaysService is a minimal interface for gateway pages.
type GatewaysService interface {
	Get(ctx context.Context, id string) (model.Gateway, error)
	Delete(ctx context.Context, id string) error
}

// ApplicationsService is a minimal interface for application pages.
type ApplicationsService interface {
	Get(ctx context.Context, id string) (model.Application, error)
	Delete(ctx context.Context, id string) error
}

// DevicesService is a minimal interface for device pages.
type DevicesService interface {
	Get(ctx context.Context, devEUI string) (model.Device, error)
}

// DeviceProfilesService is a minimal interface for device profile pages.
type DeviceProfilesService interface {
	Get(ctx context.Context, id string) (model.DeviceProfile, error)
	Delete(ctx context.Context, id string) error
}

// FUOTAService is a minimal interface for FUOTA deployment pages.
type FUOTAService interface {
	Get(ctx context.Context, id string) (model.FUOTADeployment, error)
}

// Compile-time interface assertions to ensure the stores satisfy their UI interfaces.
var (
	_ OrganizationsService  = (*store.Organizations)(nil)
	_ GatewaysService       = (*store.Gateways)(nil)
	_ ApplicationsService   = (*store.Applications)(nil)
	_ DevicesService        = (*store.Devices)(nil)
	_ DeviceProfilesService = (*store.DeviceProfiles)(nil)
	_ FUOTAService          = (*store.FUOTA)(nil)
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T *TemplateRenderer
	// Stores feeds the list views.
	Stores *store.Set
	// Lists holds the per-session list controllers.
	Lists *ControllerRegistry

	Organizations  OrganizationsService
	Gateways       GatewaysService
	Applications   ApplicationsService
	Devices        DevicesService
	DeviceProfiles DeviceProfilesService
	FUOTA          FUOTAService

	// PageSize is the default rows per page of new list controllers.
	PageSize int
	Metrics  statsd.Sink
	IsDev    bool // Development mode flag for enhanced error reporting
	Logger   *slog.Logger
}

// NewUIHandlers wires the UI services from set.
func NewUIHandlers(set *store.Set, lists *ControllerRegistry) *UIHandlers {
	return &UIHandlers{
		Stores:         set,
		Lists:          lists,
		Organizations:  set.Organizations,
		Gateways:       set.Gateways,
		Applications:   set.Applications,
		Devices:        set.Devices,
		DeviceProfiles: set.DeviceProfiles,
		FUOTA:          set.FUOTA,
	}
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// deleteHandlerOpts encapsulates common delete-handling behavior for UI endpoints.
type deleteHandlerOpts struct {
	// IDParam is the path value naming the entity; defaults to "id".
	IDParam string
	Delete  func(ctx context.Context, id string) error
	// RedirectPath is where the browser goes after a successful delete.
	RedirectPath string
	// Noun names the entity in the success toast, e.g. "Gateway".
	Noun string
}

// handleDelete runs a confirmed delete. Unconfirmed requests are rejected with
// 400 so a stray POST never removes anything.
func (h *UIHandlers) handleDelete(w http.ResponseWriter, r *http.Request, opts deleteHandlerOpts) {
	param := opts.IDParam
	if param == "" {
		param = "id"
	}
	id := r.PathValue(param)
	if id == "" || opts.Delete == nil {
		h.NotFound(w, r)
		return
	}
	if !deleteConfirmed(r) {
		triggerToast(w, "Delete was not confirmed.", string(store.ToastError))
		http.Error(w, "delete requires confirm=yes", http.StatusBadRequest)
		return
	}

	if err := opts.Delete(r.Context(), id); err != nil {
		h.emitToasts(w, r, nil)
		h.logger().WarnContext(r.Context(), "delete failed",
			slog.String("entity", opts.Noun),
			slog.String("id", id),
			slog.Any("error", err),
		)
		w.WriteHeader(StatusForError(err))
		return
	}

	h.logger().InfoContext(r.Context(), "deleted",
		slog.String("entity", opts.Noun),
		slog.String("id", id),
	)
	h.emitToasts(w, r, nil)
	if IsHTMX(r) {
		HTMX(w).Redirect(opts.RedirectPath)
		return
	}
	http.Redirect(w, r, opts.RedirectPath, http.StatusSeeOther)
}

func deleteConfirmed(r *http.Request) bool {
	if strings.EqualFold(r.Header.Get("Hx-Prompt"), "yes") {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(r.FormValue("confirm")), "yes")
}

// triggerToast sends a standardized HX-Trigger payload for toast notifications.
func triggerToast(w http.ResponseWriter, message, toastType string) {
	if w == nil || strings.TrimSpace(message) == "" {
		return
	}
	HTMX(w).Trigger("showToast", map[string]any{
		"message": message,
		"type":    strings.TrimSpace(toastType),
	})
}

// emitToasts drains the request's toast buffer. htmx requests get them as a
// showToast event (the last toast wins); full pages render them from data.
// Must run before the response header is written.
func (h *UIHandlers) emitToasts(w http.ResponseWriter, r *http.Request, data map[string]any) {
	toasts := store.ToastsFromContext(r.Context()).Drain()
	if len(toasts) == 0 {
		return
	}
	if IsHTMX(r) || data == nil {
		for _, t := range toasts {
			triggerToast(w, t.Message, string(t.Kind))
		}
		return
	}
	vm := make([]viewmodel.Toast, 0, len(toasts))
	for _, t := range toasts {
		vm = append(vm, viewmodel.Toast{Type: string(t.Kind), Message: t.Message})
	}
	data["Toasts"] = vm
}

// FormFrameOpts captures the parameters required to normalize common form data.
type FormFrameOpts struct {
	R           *http.Request
	Data        map[string]any
	DefaultMode FormMode
	MetaForMode func(FormMode) PageMeta
}

// prepareFormFrame normalizes common form rendering fields (Errors, Mode, base layout).
func prepareFormFrame(opts FormFrameOpts) (map[string]any, FormMode) {
	data := opts.Data
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Errors"]; !ok || data["Errors"] == nil {
		data["Errors"] = map[string]string{}
	}

	mode := resolveFormMode(data["Mode"], opts.DefaultMode)
	data["Mode"] = string(mode)

	if opts.MetaForMode != nil && opts.R != nil {
		maps.Copy(data, basePageData(opts.R, opts.MetaForMode(mode)))
	}
	return data, mode
}

// resolveFormMode coerces assorted Mode representations to a FormMode value.
func resolveFormMode(raw any, fallback FormMode) FormMode {
	switch v := raw.(type) {
	case FormMode:
		if v != "" {
			return v
		}
	case string:
		if candidate := FormMode(strings.TrimSpace(v)); candidate != "" {
			return candidate
		}
	}
	return fallback
}

// pageOpts is a position in a paged list.
type pageOpts struct {
	Page     int
	PageSize int
}

// buildPageURL returns basePath with page and page_size set, keeping the
// other non-empty query params and dropping htmx transients and the change kind.
func buildPageURL(basePath string, q url.Values, p pageOpts) string {
	qq := make(url.Values, len(q))
	for k, v := range q {
		if strings.HasPrefix(k, "hx-") || strings.HasPrefix(k, "hx_") || k == "change" || k == "format" {
			continue
		}
		tmp := make([]string, 0, len(v))
		for _, s := range v {
			if strings.TrimSpace(s) != "" {
				tmp = append(tmp, s)
			}
		}
		if len(tmp) > 0 {
			qq[k] = tmp
		}
	}
	qq.Set("page", strconv.Itoa(p.Page))
	qq.Set("page_size", strconv.Itoa(p.PageSize))
	return basePath + "?" + qq.Encode()
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// buildLayout constructs shared layout metadata from the request/session context.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	layout := viewmodel.Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
		CSRFToken:   GetCSRFToken(r),
	}

	session := GetSessionFromContext(r.Context())
	if session == nil {
		return layout
	}
	layout.IsAuthenticated = true
	layout.IsAdmin = session.IsAdmin()
	layout.User = &viewmodel.User{Username: session.Username, Role: string(session.Role)}

	layout.OrganizationID = r.PathValue("orgID")
	if layout.OrganizationID == "" {
		layout.OrganizationID = session.DefaultOrganizationID()
	}
	for _, m := range session.Organizations {
		layout.Organizations = append(layout.Organizations, viewmodel.NavOrganization{
			ID:       m.OrganizationID,
			Name:     m.OrganizationName,
			Selected: m.OrganizationID == layout.OrganizationID,
		})
	}
	return layout
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"IsAuthenticated": layout.IsAuthenticated,
		"IsAdmin":         layout.IsAdmin,
		"OrganizationID":  layout.OrganizationID,
		"Organizations":   layout.Organizations,
	}
	if layout.CSRFToken != "" {
		data["CSRFToken"] = layout.CSRFToken
	}
	if layout.User != nil {
		data["User"] = layout.User
	}
	return data
}

// PageSpec defines metadata and an optional fetch for page-specific data.
type PageSpec struct {
	Meta  PageMeta
	Fetch func(ctx context.Context, data map[string]any) error
}

// Page builds base data, optionally fetches content data, and renders.
func (h *UIHandlers) Page(w http.ResponseWriter, r *http.Request, spec PageSpec) {
	data := basePageData(r, spec.Meta)
	if spec.Fetch != nil {
		if err := spec.Fetch(r.Context(), data); err != nil {
			h.logger().WarnContext(r.Context(), "page fetch failed",
				slog.String("page", spec.Meta.CurrentPage),
				slog.Any("error", err),
			)
			markPageError(data)
		}
	}
	h.renderDashboardPage(w, r, data)
}

// renderDashboardPage renders a page inside the layout, or for htmx
// navigation only its content plus out-of-band title updates.
func (h *UIHandlers) renderDashboardPage(w http.ResponseWriter, r *http.Request, data any) {
	if m, ok := data.(map[string]any); ok {
		h.emitToasts(w, r, m)
	}

	if !WantsPartial(r) {
		if err := h.T.Render(w, http.StatusOK, tmplLayout, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	SetHXTrigger(w, "nav:activate", map[string]string{"path": r.URL.Path})

	layout := extractLayoutInfo(data)

	// htmx updates document.title from a <title> in the swapped content.
	if _, err := w.Write([]byte(`<title>` + html.EscapeString(layout.Title) + `</title>`)); err != nil {
		h.logger().Error("failed to write partial document title", "error", err)
		return
	}
	if _, err := w.Write([]byte(`<h1 id="header-title" class="header-title" hx-swap-oob="outerHTML">` +
		html.EscapeString(layout.PageTitle) + `</h1>`)); err != nil {
		h.logger().Error("failed to write partial header title", "error", err)
		return
	}

	if err := h.T.Stream(w, ContentTemplateFor(layout.CurrentPage), data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
	}
}

func markPageError(data map[string]any) {
	data["Error"] = true
	if _, ok := data["ErrorMessage"]; ok {
		return
	}
	data["ErrorMessage"] = "An unexpected error occurred. Please try again."
}

func extractLayoutInfo(data any) viewmodel.Layout {
	switch v := data.(type) {
	case viewmodel.LayoutProvider:
		if l := v.LayoutData(); l != nil {
			return *l
		}
	case viewmodel.Layout:
		return v
	case *viewmodel.Layout:
		if v != nil {
			return *v
		}
	case map[string]any:
		layout := viewmodel.Layout{}
		layout.Title, _ = v["Title"].(string)
		layout.PageTitle, _ = v["PageTitle"].(string)
		layout.CurrentPage, _ = v["CurrentPage"].(string)
		return layout
	}
	return viewmodel.Layout{}
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if !h.IsDev {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	if _, writeErr := w.Write([]byte(`<div class="dev-error"><h2>Template Rendering Error</h2>` +
		`<p><strong>Context:</strong> ` + html.EscapeString(context) + `</p>` +
		`<p><strong>Path:</strong> ` + html.EscapeString(r.URL.Path) + `</p>` +
		`<pre>` + html.EscapeString(err.Error()) + `</pre></div>`)); writeErr != nil {
		h.logger().Error("failed to write template error response", "error", writeErr)
	}
}
