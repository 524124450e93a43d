// Package metrics emits the console's StatsD metrics.
package metrics

import (
	"time"

	obserrors "github.com/mxc-foundation/lpwan-console/internal/observability/errors"
	"github.com/mxc-foundation/lpwan-console/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultStale   = "stale"
)

// ListFetch captures one list fetch for metric emission.
type ListFetch struct {
	View     string
	Result   string
	Rows     int
	Duration time.Duration
	Err      error
}

// EmitListFetch emits list fetch counters and timings.
func EmitListFetch(sink statsd.Sink, in ListFetch) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"view":   in.View,
		"result": in.Result,
	}
	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("listing.fetch", 1, tags)
	if in.Duration > 0 {
		sink.Timing("listing.fetch.duration", in.Duration, CloneTags(tags))
	}
	if in.Result == ResultSuccess {
		sink.Gauge("listing.fetch.rows", float64(in.Rows), map[string]string{"view": in.View})
	}
}

// HTTPRequest captures one served console request.
type HTTPRequest struct {
	Route    string
	Status   int
	Duration time.Duration
}

// EmitHTTPRequest emits a request counter and latency.
func EmitHTTPRequest(sink statsd.Sink, in HTTPRequest) {
	if sink == nil {
		return
	}
	tags := map[string]string{
		"route":  in.Route,
		"status": statusClass(in.Status),
	}
	sink.Count("http.request", 1, tags)
	sink.Timing("http.request.duration", in.Duration, CloneTags(tags))
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
