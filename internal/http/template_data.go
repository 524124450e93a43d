package httpx

import (
	"maps"
	"net/http"

	"github.com/mxc-foundation/lpwan-console/internal/http/ui/viewmodel"
)

// PageData accumulates the map a page template executes against, starting
// from the layout fields every page needs.
type PageData struct {
	data map[string]any
}

// NewTemplateData starts page data for r with the layout fields of meta.
func NewTemplateData(r *http.Request, meta PageMeta) *PageData {
	return &PageData{data: basePageData(r, meta)}
}

// WithDetail sets the read-only entity panel of a detail page.
func (b *PageData) WithDetail(d viewmodel.Detail) *PageData {
	b.data["Detail"] = d
	return b
}

// WithError sets the banner message shown above the content.
func (b *PageData) WithError(msg string) *PageData {
	b.data["Error"] = true
	b.data["ErrorMessage"] = msg
	return b
}

// WithFieldErrors records per-field messages; an empty map is ignored.
func (b *PageData) WithFieldErrors(errs map[string]string) *PageData {
	if len(errs) > 0 {
		b.data["Errors"] = errs
	}
	return b
}

// WithFailure sets field errors and a banner. The banner is general when
// given, otherwise the generic prompt to fix the highlighted fields.
func (b *PageData) WithFailure(general string, fields map[string]string) *PageData {
	b.WithFieldErrors(fields)
	switch {
	case general != "":
		b.WithError(general)
	case len(fields) > 0:
		b.WithError(errMsgFixBelow)
	}
	return b
}

// With sets a single key.
func (b *PageData) With(key string, value any) *PageData {
	b.data[key] = value
	return b
}

// WithAll copies every key of values, overwriting existing ones.
func (b *PageData) WithAll(values map[string]any) *PageData {
	maps.Copy(b.data, values)
	return b
}

// Build returns the accumulated map.
func (b *PageData) Build() map[string]any {
	return b.data
}
