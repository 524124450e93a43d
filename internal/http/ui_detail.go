package httpx

import (
	"context"
	"net/http"

	errorsx "github.com/mxc-foundation/lpwan-console/internal/errors"
	"github.com/mxc-foundation/lpwan-console/internal/http/ui/viewmodel"
)

// detailSpec describes a read-only entity page.
type detailSpec struct {
	Meta PageMeta
	Load func(ctx context.Context) (viewmodel.Detail, error)
}

// detailPage loads and renders an entity page. A missing entity renders the
// not-found page; an expired upstream token sends the browser to sign in.
func (h *UIHandlers) detailPage(w http.ResponseWriter, r *http.Request, spec detailSpec) {
	d, err := spec.Load(r.Context())
	switch {
	case err == nil:
		data := NewTemplateData(r, spec.Meta).WithDetail(d).Build()
		h.renderDashboardPage(w, r, data)
	case errorsx.IsNotFound(err):
		h.NotFound(w, r)
	case errorsx.IsUnauthenticated(err):
		redirectToLogin(w, r)
	case errorsx.IsCanceled(err):
		return
	default:
		h.logger().WarnContext(r.Context(), "detail load failed",
			"page", spec.Meta.CurrentPage,
			"error", err,
		)
		RenderError(ErrorOpts{
			W:          w,
			R:          r,
			Err:        err,
			Renderer:   h.renderDashboardPage,
			PageMeta:   spec.Meta,
			StatusCode: DetermineErrorStatus(err),
		})
	}
}

// lazyTable is a related list loaded into a detail page after it renders.
func lazyTable(view, title, path string) viewmodel.Table {
	return viewmodel.Table{
		ID:       "table-" + view,
		View:     view,
		Title:    title,
		BasePath: path,
	}
}

// deletePath is the confirmed-delete endpoint of an entity page.
func deletePath(entityPath string) string { return entityPath + "/delete" }

