package httpx

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/mxc-foundation/lpwan-console/internal/apiclient"
)

// APIProxyConfig configures NewAPIProxy.
type APIProxyConfig struct {
	// Target is the upstream base URL; its path is prefixed to every request.
	Target    *url.URL
	Transport http.RoundTripper
	Logger    *slog.Logger
}

// NewAPIProxy forwards requests to the upstream API. A signed-in operator's
// token is attached unless the caller sent its own authorization header.
func NewAPIProxy(cfg APIProxyConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	target := cfg.Target

	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
			// Session cookies and CSRF tokens stay with the console.
			pr.Out.Header.Del("Cookie")
			if pr.Out.Header.Get(apiclient.AuthHeader) != "" {
				return
			}
			if token := apiclient.TokenFromContext(pr.In.Context()); token != "" {
				pr.Out.Header.Set(apiclient.AuthHeader, "Bearer "+token)
			}
		},
		Transport: cfg.Transport,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.WarnContext(r.Context(), "upstream proxy failed",
				slog.String("path", r.URL.Path),
				slog.Any("error", err),
			)
			WriteJSON(w, http.StatusBadGateway, map[string]string{
				"error":   "bad_gateway",
				"message": "upstream API unavailable",
			})
		},
	}
}
