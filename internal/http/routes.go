package httpx

import (
	"bytes"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"

	console "github.com/mxc-foundation/lpwan-console"
	domainauth "github.com/mxc-foundation/lpwan-console/internal/domain/auth"
	httpassets "github.com/mxc-foundation/lpwan-console/internal/http/assets"
	"github.com/mxc-foundation/lpwan-console/internal/observability/statsd"
	"github.com/mxc-foundation/lpwan-console/internal/store"
	"github.com/mxc-foundation/lpwan-console/internal/views"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Stores *store.Set
	// Auth is optional; without it every page is served anonymously.
	Auth          AuthServiceInterface
	CookieDomain  string
	SecureCookies bool
	// Lists holds the per-session list controllers. A nil registry binds a
	// fresh controller per request.
	Lists *ControllerRegistry
	// PageSize is the default rows per page of new tables.
	PageSize int
	Metrics  statsd.Sink
	// APITarget, when set, is proxied under /api/ with the session's token.
	APITarget       *url.URL
	ReadinessChecks map[string]ReadinessCheck
	IsDev           bool         // Development mode flag for hot reloading, etc.
	Logger          *slog.Logger // Logger for template and HTTP errors (optional)
}

// NewRouter creates and configures a new HTTP router with browser middleware.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("GET /readyz", readyHandler(services.ReadinessChecks, services.Logger))

	// Static assets at /static
	// Dev mode: serve from disk for hot reloading
	// Prod mode: serve from embedded FS
	mux.Handle("GET /static/", staticWithFallback(services.IsDev))

	if services.APITarget != nil {
		proxy := NewAPIProxy(APIProxyConfig{Target: services.APITarget, Logger: services.Logger})
		proxied := OptionalAuth(services.Auth)(proxy)
		mux.Handle("/api/", proxied)
		mux.Handle("/swagger/", proxied)
	}

	tr := setupTemplates(services)

	if services.Auth != nil {
		var dropper SessionDropper
		if services.Lists != nil {
			dropper = services.Lists
		}
		registerAuthRoutes(mux, &AuthHandlers{
			Svc:           services.Auth,
			T:             tr,
			CookieDomain:  services.CookieDomain,
			SecureCookies: services.SecureCookies,
			Controllers:   dropper,
			Logger:        services.Logger,
		})
	}

	var uiHandlers *UIHandlers
	if tr != nil && services.Stores != nil {
		uiHandlers = NewUIHandlers(services.Stores, services.Lists)
		uiHandlers.T = tr
		uiHandlers.PageSize = services.PageSize
		uiHandlers.Metrics = services.Metrics
		uiHandlers.IsDev = services.IsDev
		uiHandlers.Logger = services.Logger
		registerUIRoutes(mux, uiHandlers, uiRouteConfig{Auth: services.Auth})
	}

	// Wrap with NotFound handler and browser detection middleware
	var handler http.Handler = &notFoundHandler{
		mux:        mux,
		uiHandlers: uiHandlers,
	}
	handler = Toasts()(handler)
	handler = CSRFProtection(CSRFConfig{
		CookieDomain: services.CookieDomain,
		Skip:         skipCSRF,
	})(handler)

	return BrowserDetection()(handler)
}

// skipCSRF exempts the proxied API, which authenticates with bearer tokens,
// along with static files and probes.
func skipCSRF(r *http.Request) bool {
	p := r.URL.Path
	for _, prefix := range []string{"/api/", "/swagger/", "/static/"} {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return p == "/healthz" || p == "/readyz"
}

// setupTemplates loads templates from disk in dev mode and from the embedded
// FS otherwise. A nil renderer disables the UI routes.
func setupTemplates(services RouterServices) *TemplateRenderer {
	var (
		templateFS fs.FS
		staticFS   fs.FS
	)
	if services.IsDev {
		templateFS = os.DirFS(TemplatePathFromRoot)
		staticFS = os.DirFS("frontend/static")
	} else {
		var err error
		templateFS, err = fs.Sub(console.TemplateFS, "frontend/templates")
		if err != nil {
			log.Printf("failed to create sub-filesystem for templates: %v; falling back to disk", err)
			templateFS = os.DirFS(TemplatePathFromRoot)
		}
		staticFS, err = fs.Sub(console.StaticFS, "frontend/static")
		if err != nil {
			log.Printf("failed to create sub-filesystem for static assets: %v", err)
			staticFS = nil
		}
	}

	resolver, err := httpassets.NewAssetResolver(httpassets.Options{
		FS:           staticFS,
		ManifestPath: "manifest.json",
		Reload:       services.IsDev,
		Logger:       services.Logger,
	})
	if err != nil {
		log.Printf("failed to load asset manifest: %v; falling back to logical asset names", err)
		resolver = nil
	}

	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS,
		Resolver:   resolver,
		Logger:     services.Logger,
	})
	if err != nil {
		if services.Logger != nil {
			services.Logger.Error("failed to create template renderer", slog.Any("error", err))
		} else {
			log.Printf("ERROR: failed to create template renderer: %v", err)
		}
		return nil
	}
	return tr
}

// staticWithFallback serves /static/* assets.
// In dev mode (isDev=true), serves from disk for hot reloading.
// In production mode (isDev=false), serves from embedded FS.
func staticWithFallback(isDev bool) http.Handler {
	if isDev {
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))))
	}

	staticSub, err := fs.Sub(console.StaticFS, "frontend/static")
	if err != nil {
		log.Printf("failed to create sub-filesystem for static assets: %v", err)
		// Fallback to disk serving if embed fails
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))))
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))
}

// hashedFilePattern matches content-hashed names such as app.abc12345.js or
// console.def45678.css.map.
var hashedFilePattern = regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

// staticWithCacheHeaders wraps a static file handler to add appropriate cache headers.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hashedFilePattern.MatchString(r.URL.Path) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")
		}
		handler.ServeHTTP(w, r)
	})
}

// notFoundHandler wraps a ServeMux and provides custom 404 handling.
type notFoundHandler struct {
	mux        *http.ServeMux
	uiHandlers *UIHandlers
}

// ServeHTTP implements http.Handler and provides custom 404 handling.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Only unmatched requests are buffered; everything else streams.
	if _, pattern := h.mux.Handler(r); pattern == "" {
		cw := newCaptureWriter()
		h.mux.ServeHTTP(cw, r)
		if cw.status != http.StatusNotFound || h.uiHandlers == nil {
			cw.flushTo(w)
			return
		}
		h.uiHandlers.NotFound(w, r)
		return
	}
	h.mux.ServeHTTP(w, r)
}

// captureWriter buffers headers, status and body so we can decide post-dispatch.
type captureWriter struct {
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter() *captureWriter {
	return &captureWriter{header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	if _, err := w.Write(c.buf.Bytes()); err != nil {
		log.Printf("failed to write captured response: %v", err)
	}
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /login", h.LoginPage)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("POST /logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}

// uiRouteConfig holds configuration for UI route registration.
type uiRouteConfig struct {
	Auth AuthServiceInterface
}

// authWrap returns a no-op wrapper when auth is nil, otherwise applies RequireAuthBrowser.
func (cfg uiRouteConfig) authWrap() func(http.Handler) http.Handler {
	if cfg.Auth == nil {
		return func(h http.Handler) http.Handler { return h }
	}
	return RequireAuthBrowser(cfg.Auth)
}

// adminWrap requires a global administrator.
func (cfg uiRouteConfig) adminWrap() func(http.Handler) http.Handler {
	if cfg.Auth == nil {
		return func(h http.Handler) http.Handler { return h }
	}
	return RequireRoleBrowser(cfg.Auth, domainauth.RoleAdmin)
}

// orgWrap requires membership of the organization in the {orgID} path value.
func (cfg uiRouteConfig) orgWrap() func(http.Handler) http.Handler {
	auth := cfg.authWrap()
	if cfg.Auth == nil {
		return auth
	}
	return func(h http.Handler) http.Handler { return auth(requireOrganization(false)(h)) }
}

// orgAdminWrap requires the right to manage the organization in {orgID}.
func (cfg uiRouteConfig) orgAdminWrap() func(http.Handler) http.Handler {
	auth := cfg.authWrap()
	if cfg.Auth == nil {
		return auth
	}
	return func(h http.Handler) http.Handler { return auth(requireOrganization(true)(h)) }
}

// requireOrganization checks the session against the {orgID} path value.
// It runs after the mux matched, so path values are populated.
func requireOrganization(manage bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			orgID := r.PathValue("orgID")
			session := GetSessionFromContext(r.Context())
			allowed := session != nil && session.CanViewOrganization(orgID)
			if manage {
				allowed = session != nil && session.CanManageOrganization(orgID)
			}
			if !allowed {
				showAccessDenied(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// registerUIRoutes delegates to per-domain UI route registration functions.
func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	registerUIDashboardRoutes(mux, h, cfg)
	registerUIOrganizationRoutes(mux, h, cfg)
	registerUIGatewayRoutes(mux, h, cfg)
	registerUIApplicationRoutes(mux, h, cfg)
	registerUIProfileRoutes(mux, h, cfg)
	registerUIFUOTARoutes(mux, h, cfg)
	registerUIWalletRoutes(mux, h, cfg)
	// Public auth-related UI routes (no auth wrapper)
	mux.Handle("GET /signed-out", http.HandlerFunc(h.SignedOut))
}

// listView registers a remote table page.
func listView(h *UIHandlers, view, page string) http.Handler {
	return h.HandleList(ListOpts{View: view, Meta: PageMeta{CurrentPage: page}})
}

// listWithCreate registers a remote table with a create button for managers.
func listWithCreate(h *UIHandlers, view, page string, create func(*http.Request) string) http.Handler {
	return h.HandleList(ListOpts{View: view, Meta: PageMeta{CurrentPage: page}, CreateURL: create})
}

func registerUIDashboardRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap()
	mux.Handle("GET /{$}", wrap(http.HandlerFunc(h.Index)))
	mux.Handle("GET /dashboard", wrap(http.HandlerFunc(h.Index)))
}

func registerUIOrganizationRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrapAdmin := cfg.adminWrap()
	wrapOrg := cfg.orgWrap()
	wrapOrgAdmin := cfg.orgAdminWrap()

	mux.Handle("GET /organizations", wrapAdmin(listWithCreate(h, views.Organizations.Name, PageOrganizations,
		func(*http.Request) string { return "/organizations/new" })))
	mux.Handle("GET /organizations/new", wrapAdmin(http.HandlerFunc(h.OrganizationNew)))
	mux.Handle("POST /organizations", wrapAdmin(http.HandlerFunc(h.OrganizationCreate)))
	mux.Handle("GET /users", wrapAdmin(listView(h, views.Users.Name, PageUsers)))
	mux.Handle("GET /network-servers", wrapAdmin(listView(h, views.NetworkServers.Name, PageNetworkServers)))

	mux.Handle("GET /organizations/{orgID}", wrapOrg(http.HandlerFunc(h.Organization)))
	mux.Handle("GET /organizations/{orgID}/users", wrapOrg(listView(h, views.OrganizationUsers.Name, PageOrganizationUsers)))
	mux.Handle("GET /organizations/{orgID}/edit", wrapOrgAdmin(http.HandlerFunc(h.OrganizationEdit)))
	mux.Handle("POST /organizations/{orgID}", wrapOrgAdmin(http.HandlerFunc(h.OrganizationUpdate)))
	mux.Handle("POST /organizations/{orgID}/delete", wrapAdmin(http.HandlerFunc(h.OrganizationDelete)))
}

func registerUIGatewayRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrapOrg := cfg.orgWrap()
	wrapOrgAdmin := cfg.orgAdminWrap()
	mux.Handle("GET /organizations/{orgID}/gateways", wrapOrg(listView(h, views.Gateways.Name, PageGateways)))
	mux.Handle("GET /organizations/{orgID}/gateway-map", wrapOrg(listView(h, views.GatewayMap.Name, PageGatewayMap)))
	mux.Handle("GET /organizations/{orgID}/gateways/{id}", wrapOrg(http.HandlerFunc(h.Gateway)))
	mux.Handle("POST /organizations/{orgID}/gateways/{id}/delete", wrapOrgAdmin(http.HandlerFunc(h.GatewayDelete)))
}

func registerUIApplicationRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrapOrg := cfg.orgWrap()
	wrapOrgAdmin := cfg.orgAdminWrap()
	const app = "/organizations/{orgID}/applications/{appID}"
	const dev = app + "/devices/{devEUI}"

	mux.Handle("GET /organizations/{orgID}/applications", wrapOrg(listView(h, views.Applications.Name, PageApplications)))
	mux.Handle("GET "+app, wrapOrg(http.HandlerFunc(h.Application)))
	mux.Handle("POST "+app+"/delete", wrapOrgAdmin(http.HandlerFunc(h.ApplicationDelete)))
	mux.Handle("GET "+app+"/devices", wrapOrg(listView(h, views.Devices.Name, PageDevices)))
	mux.Handle("GET "+app+"/fuota-deployments", wrapOrg(listView(h, views.ApplicationFUOTA.Name, PageFUOTA)))

	mux.Handle("GET "+dev, wrapOrg(http.HandlerFunc(h.Device)))
	mux.Handle("GET "+dev+"/multicast-groups", wrapOrg(listView(h, views.DeviceMulticastGroups.Name, PageMulticastGroups)))
	mux.Handle("GET "+dev+"/fuota-deployments", wrapOrg(listView(h, views.DeviceFUOTA.Name, PageFUOTA)))
}

func registerUIProfileRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrapOrg := cfg.orgWrap()
	wrapOrgAdmin := cfg.orgAdminWrap()
	mux.Handle("GET /organizations/{orgID}/device-profiles", wrapOrg(listView(h, views.DeviceProfiles.Name, PageDeviceProfiles)))
	mux.Handle("GET /organizations/{orgID}/device-profiles/{id}", wrapOrg(http.HandlerFunc(h.DeviceProfile)))
	mux.Handle("POST /organizations/{orgID}/device-profiles/{id}/delete", wrapOrgAdmin(http.HandlerFunc(h.DeviceProfileDelete)))
	mux.Handle("GET /organizations/{orgID}/service-profiles", wrapOrg(listView(h, views.ServiceProfiles.Name, PageServiceProfile)))
	mux.Handle("GET /organizations/{orgID}/multicast-groups", wrapOrg(listView(h, views.MulticastGroups.Name, PageMulticastGroups)))
}

// registerUIFUOTARoutes wires deployment pages. Deployments are addressed by
// id alone; the network server checks access to them.
func registerUIFUOTARoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap()
	mux.Handle("GET /fuota-deployments/{deploymentID}", wrap(http.HandlerFunc(h.FUOTADeployment)))
	mux.Handle("GET /fuota-deployments/{deploymentID}/devices", wrap(listView(h, views.FUOTADevices.Name, PageFUOTADevices)))
}

func registerUIWalletRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrapOrg := cfg.orgWrap()
	mux.Handle("GET /organizations/{orgID}/wallet/staking", wrapOrg(listView(h, views.Staking.Name, PageStaking)))
	mux.Handle("GET /organizations/{orgID}/wallet/withdrawals", wrapOrg(listView(h, views.Withdrawals.Name, PageWithdrawals)))
	mux.Handle("GET /organizations/{orgID}/wallet/topups", wrapOrg(listView(h, views.TopUps.Name, PageTopUps)))
}
