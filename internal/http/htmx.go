package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

// IsHTMX reports whether the request was initiated by htmx (Hx-Request: true).
func IsHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Hx-Request"), "true")
}

// IsHistoryRestore reports true when htmx is restoring history.
func IsHistoryRestore(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Hx-History-Restore-Request"), "true")
}

// WantsPartial returns true when the handler should return only the main fragment.
// History restores need the whole page since htmx swaps the body.
func WantsPartial(r *http.Request) bool {
	return IsHTMX(r) && !IsHistoryRestore(r)
}

// HXTarget returns the id of the element being updated.
func HXTarget(r *http.Request) string { return r.Header.Get("Hx-Target") }

// WantsTableOnly reports whether an htmx request targets a single table region
// rather than the page content.
func WantsTableOnly(r *http.Request) bool {
	return IsHTMX(r) && strings.HasPrefix(HXTarget(r), "table-")
}

// SetHXRedirect instructs htmx to redirect the browser to url.
func SetHXRedirect(w http.ResponseWriter, url string) { w.Header().Set("Hx-Redirect", url) }

// SetHXPushURL pushes url into the browser history for the new content.
func SetHXPushURL(w http.ResponseWriter, url string) { w.Header().Set("Hx-Push-Url", url) }

// SetHXReswap overrides the swap strategy of the triggering element.
func SetHXReswap(w http.ResponseWriter, strategy string) { w.Header().Set("Hx-Reswap", strategy) }

// SetHXTrigger sets Hx-Trigger to {"<event>": payload}; a nil payload sends true.
// Events already set on the response are kept.
func SetHXTrigger(w http.ResponseWriter, event string, payload any) {
	var value any = true
	if payload != nil {
		value = payload
	}

	events := map[string]any{}
	if existing := w.Header().Get("Hx-Trigger"); existing != "" {
		if err := json.Unmarshal([]byte(existing), &events); err != nil {
			events = map[string]any{}
		}
	}
	events[event] = value

	b, err := json.Marshal(events)
	if err != nil {
		w.Header().Set("Hx-Trigger", `{"`+event+`":true}`)
		return
	}
	w.Header().Set("Hx-Trigger", string(b))
}

// HTMXResponse provides a fluent API for building htmx responses.
type HTMXResponse struct {
	w http.ResponseWriter
}

// HTMX creates an HTMXResponse for w.
func HTMX(w http.ResponseWriter) *HTMXResponse {
	return &HTMXResponse{w: w}
}

// Trigger raises a client-side event after the swap.
func (h *HTMXResponse) Trigger(event string, payload any) *HTMXResponse {
	SetHXTrigger(h.w, event, payload)
	return h
}

// PushURL pushes url into the browser history.
func (h *HTMXResponse) PushURL(url string) *HTMXResponse {
	SetHXPushURL(h.w, url)
	return h
}

// Redirect sends the browser to url and answers 204.
// The handler must return immediately afterwards.
func (h *HTMXResponse) Redirect(url string) {
	SetHXRedirect(h.w, url)
	h.w.WriteHeader(http.StatusNoContent)
}

// NoSwap answers 204 with Hx-Reswap: none so the page keeps its current content.
// The handler must return immediately afterwards.
func (h *HTMXResponse) NoSwap() {
	SetHXReswap(h.w, "none")
	h.w.WriteHeader(http.StatusNoContent)
}
