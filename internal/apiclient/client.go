// Package apiclient talks to the network server's REST gateway (the JSON
// surface published through its Swagger documents).
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/net/http2"

	errorsx "github.com/mxc-foundation/lpwan-console/internal/errors"
)

// AuthHeader carries the upstream JWT; grpc-gateway forwards Grpc-Metadata-* headers as gRPC metadata.
const AuthHeader = "Grpc-Metadata-Authorization"

const maxErrorBody = 64 << 10

// Config configures a Client.
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	// RetryMax is the number of extra attempts for a failed GET. Zero sends
	// every request exactly once.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// HTTP2 enables HTTP/2 on the transport for TLS upstreams.
	HTTP2  bool
	Logger *slog.Logger
	// Transport overrides the default transport (tests).
	Transport http.RoundTripper
}

// Client issues authenticated JSON requests against the upstream API.
// GET requests are retried on connection errors and 5xx; writes are sent once.
// It is safe for concurrent use.
type Client struct {
	base     *url.URL
	retrying *retryablehttp.Client
	plain    *http.Client
	logger   *slog.Logger
}

// New constructs a Client from cfg.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse upstream base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("upstream base url %q must be http(s)", cfg.BaseURL)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	transport := cfg.Transport
	if transport == nil {
		tr, trErr := newTransport(cfg.HTTP2)
		if trErr != nil {
			return nil, trErr
		}
		transport = tr
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	plain := &http.Client{Transport: transport, Timeout: timeout}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = plain
	rc.RetryMax = cfg.RetryMax
	if cfg.RetryWaitMin > 0 {
		rc.RetryWaitMin = cfg.RetryWaitMin
	}
	if cfg.RetryWaitMax > 0 {
		rc.RetryWaitMax = cfg.RetryWaitMax
	}
	rc.Logger = leveledLogger{logger: logger}
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{base: base, retrying: rc, plain: plain, logger: logger}, nil
}

func newTransport(enableHTTP2 bool) (*http.Transport, error) {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
	if enableHTTP2 {
		if err := http2.ConfigureTransport(tr); err != nil {
			return nil, fmt.Errorf("configure http2 transport: %w", err)
		}
	}
	return tr, nil
}

// BaseURL returns the upstream base URL.
func (c *Client) BaseURL() *url.URL {
	u := *c.base
	return &u
}

// GetJSON issues a GET and decodes the 2xx response into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, query: query, out: out})
}

// PostJSON issues a POST with a JSON body and decodes the response into out (may be nil).
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, request{method: http.MethodPost, path: path, body: body, out: out})
}

// PutJSON issues a PUT with a JSON body and decodes the response into out (may be nil).
func (c *Client) PutJSON(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, request{method: http.MethodPut, path: path, body: body, out: out})
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: path})
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	out    any
}

func (c *Client) do(ctx context.Context, req request) error {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return err
	}

	var resp *http.Response
	if req.method == http.MethodGet {
		rreq, rerr := retryablehttp.FromRequest(httpReq)
		if rerr != nil {
			return errorsx.Wrap(rerr, errorsx.ErrCodeInternal, "build request")
		}
		resp, err = c.retrying.Do(rreq)
	} else {
		resp, err = c.plain.Do(httpReq)
	}
	if err != nil {
		return errorsx.MapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if req.out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(req.out); err != nil && !errors.Is(err, io.EOF) {
		return errorsx.Wrapf(err, errorsx.ErrCodeDecode, "decode %s %s response", req.method, req.path)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, req request) (*http.Request, error) {
	u := c.base.JoinPath(req.path)
	if len(req.query) > 0 {
		u.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return nil, errorsx.Wrap(err, errorsx.ErrCodeInternal, "encode request body")
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ErrCodeInternal, "build request")
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFromContext(ctx); token != "" {
		httpReq.Header.Set(AuthHeader, "Bearer "+token)
	}
	return httpReq, nil
}

// leveledLogger adapts slog to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger *slog.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...any) {
	l.logger.Error(msg, keysAndValues...)
}

func (l leveledLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...any) {
	l.logger.Warn(msg, keysAndValues...)
}
