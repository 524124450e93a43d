package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/mxc-foundation/lpwan-console/config"
	httpx "github.com/mxc-foundation/lpwan-console/internal/http"
)

const (
	defaultHTTPAddr        = ":8080"
	defaultShutdownTimeout = 10 * time.Second
	readHeaderTimeout      = 10 * time.Second
)

// HTTPServerConfig wires the console's HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
	// ErrCh receives a serve error after the listener is up.
	ErrCh chan<- error
}

// StartHTTPServer binds the configured address and serves in the
// background. Bind failures are returned directly; later serve failures go
// to ErrCh.
func StartHTTPServer(cfg HTTPServerConfig) (*http.Server, error) {
	logger := cmpLogger(cfg.Logger)
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
		appCfg.Sanitize()
	}

	handler := BuildHTTPHandler(HTTPHandlerConfig{
		Logger:   logger,
		Services: cfg.Services.RouterServices(appCfg, logger),
		HTTP:     appCfg.HTTP,
	})
	server := newHTTPServer(handler, appCfg.HTTP)

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", server.Addr, err)
	}

	logger.Info("HTTP server listening", "addr", ln.Addr().String())
	go func() {
		err := server.Serve(ln)
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return
		}
		if cfg.ErrCh == nil {
			logger.Error("HTTP server failed", "error", err)
			return
		}
		select {
		case cfg.ErrCh <- err:
		default:
			logger.Error("HTTP server failed", "error", err)
		}
	}()
	return server, nil
}

func newHTTPServer(handler http.Handler, cfg config.HTTPConfig) *http.Server {
	addr := cfg.Addr
	if addr == "" {
		addr = defaultHTTPAddr
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// HTTPHandlerConfig configures BuildHTTPHandler.
type HTTPHandlerConfig struct {
	Logger   *slog.Logger
	Services httpx.RouterServices
	HTTP     config.HTTPConfig
}

// BuildHTTPHandler wraps the router as Recover(Logging(Compression(router))).
func BuildHTTPHandler(cfg HTTPHandlerConfig) http.Handler {
	logger := cmpLogger(cfg.Logger)

	var h http.Handler = httpx.NewRouter(cfg.Services)
	if cfg.HTTP.CompressionEnabled {
		logger.Info("HTTP compression enabled", "level", cfg.HTTP.CompressionLevel)
		h = httpx.Compression(httpx.CompressionConfig{Level: cfg.HTTP.CompressionLevel, Logger: logger})(h)
	}

	h = httpx.Logging(logger, cfg.Services.Metrics)(h)
	return httpx.Recover(logger)(h)
}

// ShutdownConfig configures ShutdownHTTPServer.
type ShutdownConfig struct {
	Server  *http.Server
	Timeout time.Duration
	Logger  *slog.Logger
}

// ShutdownHTTPServer drains in-flight requests for at most Timeout.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}
	logger := cmpLogger(cfg.Logger)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Info("shutting down HTTP server", "timeout", timeout)
	if err := cfg.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	logger.Info("HTTP server stopped")
	return nil
}

func cmpLogger(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}
