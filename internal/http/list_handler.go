package httpx

import (
	"log/slog"
	"net/http"

	errorsx "github.com/mxc-foundation/lpwan-console/internal/errors"
	"github.com/mxc-foundation/lpwan-console/internal/http/ui/viewmodel"
	"github.com/mxc-foundation/lpwan-console/internal/listing"
	"github.com/mxc-foundation/lpwan-console/internal/table"
	"github.com/mxc-foundation/lpwan-console/internal/views"
)

const anonymousSession = "anonymous"

// ListOpts configures one remote table page.
type ListOpts struct {
	// View is the catalog name of the list, e.g. "gateways".
	View string
	Meta PageMeta
	// CreateURL shows a create button when the viewer may manage the owner.
	CreateURL func(r *http.Request) string
}

// HandleList serves a remote table: it resolves the session's controller for
// the view, applies the requested position and renders the outcome as a full
// page, a content partial, a table partial or CSV.
func (h *UIHandlers) HandleList(opts ListOpts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		def, ok := views.Lookup(opts.View)
		if !ok {
			h.logger().ErrorContext(r.Context(), "unknown list view", slog.String("view", opts.View))
			h.NotFound(w, r)
			return
		}
		scope := scopeFromRequest(r)
		if !validScope(scope) {
			h.NotFound(w, r)
			return
		}
		session := GetSessionFromContext(r.Context())
		if scope.OrganizationID != "" && session != nil && !session.CanViewOrganization(scope.OrganizationID) {
			showAccessDenied(w, r)
			return
		}

		bound, created, err := h.acquireList(r, def, scope)
		if err != nil {
			h.logger().WarnContext(r.Context(), "list scope rejected",
				slog.String("view", opts.View),
				slog.Any("error", err),
			)
			h.NotFound(w, r)
			return
		}

		change, err := parseTableChange(r.URL.Query(), bound.Paging())
		if err != nil {
			h.writeListError(w, r, err)
			return
		}

		var res views.Result
		switch {
		case change.Present:
			res = bound.Change(r.Context(), change.Kind, change.Change)
		case created:
			res = bound.Mount(r.Context())
		default:
			cur := bound.Paging()
			res = bound.Change(r.Context(), listing.ChangePagination, listing.TableChange{
				Page:     cur.Page,
				PageSize: cur.PageSize,
			})
		}
		h.respondList(w, r, respondListOpts{bound: bound, res: res, opts: opts})
	}
}

func (h *UIHandlers) acquireList(r *http.Request, def views.Definition, scope views.Scope) (views.Bound, bool, error) {
	sessionID := anonymousSession
	if s := GetSessionFromContext(r.Context()); s != nil {
		sessionID = s.ID
	}
	meta := def.Describe()
	key := ControllerKey{SessionID: sessionID, View: meta.Name, OwnerID: scope.OwnerID(meta.Owner)}
	bind := func() (views.Bound, error) {
		return def.Bind(h.Stores, scope, listing.Options{
			PageSize: h.PageSize,
			Metrics:  h.Metrics,
			Logger:   h.logger(),
		})
	}
	if h.Lists == nil {
		b, err := bind()
		return b, true, err
	}
	return h.Lists.Acquire(key, bind)
}

type respondListOpts struct {
	bound views.Bound
	res   views.Result
	opts  ListOpts
}

func (h *UIHandlers) respondList(w http.ResponseWriter, r *http.Request, p respondListOpts) {
	res := p.res
	if res.Stale {
		// A newer fetch for this table was issued; its response owns the region.
		if IsHTMX(r) {
			h.emitToasts(w, r, nil)
			HTMX(w).NoSwap()
			return
		}
		res = p.bound.Current()
	}

	if res.Err != nil {
		switch {
		case errorsx.IsCanceled(res.Err) || r.Context().Err() != nil:
			return
		case errorsx.IsUnauthenticated(res.Err):
			redirectToLogin(w, r)
			return
		case errorsx.IsValidation(res.Err):
			h.writeListError(w, r, res.Err)
			return
		}
	}

	if r.URL.Query().Get("format") == "csv" {
		h.writeListCSV(w, r, p.bound.Meta().Name, res)
		return
	}

	tbl := buildTable(r, p.bound, res)
	if p.opts.CreateURL != nil {
		tbl.CreateURL = p.opts.CreateURL(r)
	}

	if WantsTableOnly(r) {
		h.emitToasts(w, r, nil)
		if err := h.T.Render(w, http.StatusOK, tmplTableFrame, tbl); err != nil {
			h.logAndRenderTemplateError(w, r, err, "table render")
		}
		return
	}

	meta := p.opts.Meta
	if meta.Title == "" {
		meta.Title = tbl.Title
	}
	if meta.PageTitle == "" {
		meta.PageTitle = tbl.Title
	}
	data := basePageData(r, meta)
	data["Table"] = tbl
	h.renderDashboardPage(w, r, data)
}

// writeListError answers a rejected table request. htmx gets the message as a
// toast and no swap; other clients get a JSON error.
func (h *UIHandlers) writeListError(w http.ResponseWriter, r *http.Request, err error) {
	if IsHTMX(r) {
		triggerToast(w, errorsx.Message(err), "error")
		SetHXReswap(w, "none")
		w.WriteHeader(StatusForError(err))
		return
	}
	WriteAppError(w, err)
}

func (h *UIHandlers) writeListCSV(w http.ResponseWriter, r *http.Request, name string, res views.Result) {
	if res.Err != nil {
		WriteAppError(w, res.Err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`.csv"`)
	if err := table.WriteCSV(w, res.View); err != nil {
		h.logger().WarnContext(r.Context(), "csv export failed",
			slog.String("view", name),
			slog.Any("error", err),
		)
	}
}

// buildTable assembles the template model of a remote table region.
func buildTable(r *http.Request, bound views.Bound, res views.Result) viewmodel.Table {
	meta := bound.Meta()
	paging := bound.Paging()
	pager := res.View.Pager
	q := r.URL.Query()
	if paging.SearchText != "" {
		q.Set("search", paging.SearchText)
	} else {
		q.Del("search")
	}
	base := r.URL.Path

	tbl := viewmodel.Table{
		ID:         "table-" + meta.Name,
		View:       meta.Name,
		Title:      meta.Title,
		BasePath:   base,
		Searchable: bound.Searchable(),
		SearchText: paging.SearchText,
		Rows:       res.View,
		PageSizes:  pageSizeOptions,
	}
	if pager.HasPrev {
		tbl.PrevURL = buildPageURL(base, q, pageOpts{Page: pager.PrevPage(), PageSize: pager.PageSize})
	}
	if pager.HasNext {
		tbl.NextURL = buildPageURL(base, q, pageOpts{Page: pager.NextPage(), PageSize: pager.PageSize})
	}
	for _, n := range pager.Pages {
		tbl.Pages = append(tbl.Pages, viewmodel.PageLink{
			Page:    n,
			URL:     buildPageURL(base, q, pageOpts{Page: n, PageSize: pager.PageSize}),
			Current: n == pager.Page,
		})
	}
	csv := buildPageURL(base, q, pageOpts{Page: max(pager.Page, 1), PageSize: max(pager.PageSize, 1)})
	tbl.CSVURL = csv + "&format=csv"
	if res.Err != nil {
		tbl.Error = errorsx.Message(res.Err)
	}
	return tbl
}

