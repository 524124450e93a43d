package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mxc-foundation/lpwan-console/config"
	"github.com/mxc-foundation/lpwan-console/internal/adapters/memory"
	redisadapter "github.com/mxc-foundation/lpwan-console/internal/adapters/redis"
	"github.com/mxc-foundation/lpwan-console/internal/apiclient"
	httpx "github.com/mxc-foundation/lpwan-console/internal/http"
	"github.com/mxc-foundation/lpwan-console/internal/observability/statsd"
	"github.com/mxc-foundation/lpwan-console/internal/ports"
	"github.com/mxc-foundation/lpwan-console/internal/service"
	"github.com/mxc-foundation/lpwan-console/internal/store"
)

const sessionSweepInterval = 5 * time.Minute

// ServiceContainer holds the console's shared dependencies.
type ServiceContainer struct {
	Client   *apiclient.Client
	Stores   *store.Set
	Auth     *service.AuthService
	Lists    *httpx.ControllerRegistry
	Sessions ports.SessionStore
	Metrics  *statsd.Client
	Redis    redis.UniversalClient
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config *config.AppConfig
	// Redis is required when the session backend is redis.
	Redis  redis.UniversalClient
	Logger *slog.Logger
}

// NewServices wires the upstream client, stores, sessions and auth.
func NewServices(deps ServiceDeps) (ServiceContainer, error) {
	if deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps missing AppConfig")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client, err := apiclient.New(apiclient.Config{
		BaseURL:      cfg.Upstream.BaseURL,
		Timeout:      cfg.Upstream.Timeout,
		RetryMax:     cfg.Upstream.RetryMax,
		RetryWaitMin: cfg.Upstream.RetryWaitMin,
		RetryWaitMax: cfg.Upstream.RetryWaitMax,
		HTTP2:        cfg.Upstream.HTTP2,
		Logger:       logger.With("component", "apiclient"),
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create upstream client: %w", err)
	}

	stores, err := store.NewSet(store.Options{
		Backend:  client,
		Notifier: store.ContextNotifier{Logger: logger},
		Logger:   logger.With("component", "store"),
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	sessions, err := newSessionStore(cfg, deps.Redis)
	if err != nil {
		return ServiceContainer{}, err
	}

	auth, err := BuildAuthService(AuthConfig{
		Auth:        cfg.Auth,
		Session:     cfg.Session,
		Sessions:    sessions,
		Credentials: stores.Session,
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	lists := httpx.NewControllerRegistry(httpx.RegistryConfig{
		Capacity: cfg.Listing.ControllerCapacity,
		TTL:      cfg.Listing.ControllerTTL,
	})

	return ServiceContainer{
		Client:   client,
		Stores:   stores,
		Auth:     auth,
		Lists:    lists,
		Sessions: sessions,
		Metrics:  buildMetrics(logger, cfg.Observability.Metrics),
		Redis:    deps.Redis,
	}, nil
}

//nolint:ireturn // backend chosen by config.
func newSessionStore(cfg *config.AppConfig, client redis.UniversalClient) (ports.SessionStore, error) {
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		if client == nil {
			return nil, errors.New("redis session backend selected but no redis client configured")
		}
		return redisadapter.NewSessionStore(client, redisadapter.WithPrefix(cfg.Redis.KeyPrefix)), nil
	default:
		return memory.NewSessionStore(nil), nil
	}
}

// buildMetrics returns nil when metrics are disabled or the sink cannot be dialled.
func buildMetrics(logger *slog.Logger, cfg config.ObservabilityMetricsConfig) *statsd.Client {
	if !cfg.IsEnabled() {
		return nil
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled:     true,
		Address:     cfg.StatsdAddress,
		Prefix:      cfg.Prefix,
		GlobalTags:  cfg.GlobalTags(),
		DialTimeout: cfg.DialTimeout,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	return client
}

// RouterServices maps the container onto the HTTP router's dependencies.
func (s ServiceContainer) RouterServices(cfg *config.AppConfig, logger *slog.Logger) httpx.RouterServices {
	rs := httpx.RouterServices{
		Stores:          s.Stores,
		Auth:            s.Auth,
		CookieDomain:    cfg.HTTP.CookieDomain,
		SecureCookies:   cfg.Session.CookieSecure,
		Lists:           s.Lists,
		PageSize:        cfg.Listing.PageSize,
		ReadinessChecks: s.readinessChecks(),
		IsDev:           cfg.IsDev,
		Logger:          logger,
	}
	if s.Metrics != nil {
		rs.Metrics = s.Metrics
	}
	if cfg.Upstream.ProxyEnabled && s.Client != nil {
		target := *s.Client.BaseURL()
		rs.APITarget = &target
	}
	return rs
}

func (s ServiceContainer) readinessChecks() map[string]httpx.ReadinessCheck {
	checks := map[string]httpx.ReadinessCheck{}
	if s.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return s.Redis.Ping(ctx).Err()
		}
	}
	return checks
}

// Close releases the metrics socket and the redis connection.
func (s ServiceContainer) Close() error {
	var errs []error
	if s.Metrics != nil {
		if err := s.Metrics.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close statsd: %w", err))
		}
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	return errors.Join(errs...)
}

// sweeper is implemented by session stores that need periodic expiry.
type sweeper interface {
	Sweep() int
}

// runSessionSweeper evicts expired in-memory sessions until ctx is done.
func runSessionSweeper(ctx context.Context, store ports.SessionStore, interval time.Duration, logger *slog.Logger) {
	sw, ok := store.(sweeper)
	if !ok {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sw.Sweep(); n > 0 {
				logger.DebugContext(ctx, "expired sessions removed", "count", n)
			}
		}
	}
}

// RunConfig contains what RunWithShutdown needs.
type RunConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunWithShutdown starts the HTTP server and blocks until SIGINT/SIGTERM
// or a server failure, then shuts down gracefully.
func RunWithShutdown(cfg RunConfig) error {
	if cfg.Config == nil {
		return errors.New("run config missing AppConfig")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	server, err := StartHTTPServer(HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
		ErrCh:    errCh,
	})
	if err != nil {
		return err
	}
	go runSessionSweeper(ctx, cfg.Services.Sessions, sessionSweepInterval, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error
	select {
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	case runErr = <-errCh:
		logger.Error("HTTP server failed", "error", runErr)
	}
	cancel()

	if err := ShutdownHTTPServer(ShutdownConfig{
		Server:  server,
		Timeout: cfg.Config.HTTP.ShutdownTimeout,
		Logger:  logger,
	}); err != nil {
		runErr = errors.Join(runErr, err)
	}
	return runErr
}

// UpstreamURL parses the configured base URL; exposed for startup logs.
func UpstreamURL(cfg *config.AppConfig) string {
	u, err := url.Parse(cfg.Upstream.BaseURL)
	if err != nil {
		return cfg.Upstream.BaseURL
	}
	return u.Redacted()
}
