package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func parse(t *testing.T, vars map[string]string) AppConfig {
	t.Helper()
	var cfg AppConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()
	return cfg
}

func TestAppConfig_Defaults(t *testing.T) {
	t.Setenv("NODE_ENV", "")
	cfg := parse(t, map[string]string{})

	if cfg.IsDev {
		t.Fatalf("expected production mode by default")
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.HTTP.Addr)
	}
	if cfg.Upstream.BaseURL != "http://localhost:8080" || cfg.Upstream.RetryMax != 0 || cfg.Upstream.Timeout != 15*time.Second {
		t.Fatalf("unexpected upstream defaults: %#v", cfg.Upstream)
	}
	if cfg.Session.Backend != SessionBackendMemory || cfg.Session.TTL != 8*time.Hour {
		t.Fatalf("unexpected session defaults: %#v", cfg.Session)
	}
	if cfg.Listing.PageSize != DefaultListingPageSize || cfg.Listing.ControllerTTL != 30*time.Minute {
		t.Fatalf("unexpected listing defaults: %#v", cfg.Listing)
	}
	if cfg.Auth.Mode != AuthModeUpstream {
		t.Fatalf("unexpected auth mode %q", cfg.Auth.Mode)
	}
	if cfg.UsesRedis() {
		t.Fatalf("memory sessions must not need redis")
	}
}

func TestAppConfig_ParseEnv(t *testing.T) {
	cfg := parse(t, map[string]string{
		"DEV":                                  "true",
		"HTTP_ADDR":                            ":9090",
		"HTTP_COMPRESSION_ENABLED":             "true",
		"UPSTREAM_BASE_URL":                    " https://lora.example.com/ ",
		"UPSTREAM_TIMEOUT":                     "5s",
		"UPSTREAM_RETRY_MAX":                   "4",
		"UPSTREAM_HTTP2":                       "true",
		"UPSTREAM_PROXY_ENABLED":               "true",
		"SESSION_BACKEND":                      "Redis",
		"SESSION_TTL":                          "1h",
		"SESSION_COOKIE_SECURE":                "true",
		"REDIS_URI":                            "redis://cache:6379/2",
		"LISTING_PAGE_SIZE":                    "25",
		"LISTING_CONTROLLER_CAPACITY":          "64",
		"LISTING_CONTROLLER_TTL":               "5m",
		"OBSERVABILITY_METRICS_ENABLED":        "true",
		"OBSERVABILITY_METRICS_STATSD_ADDRESS": "statsd:8125",
	})

	if !cfg.IsDev || cfg.HTTP.Addr != ":9090" || !cfg.HTTP.CompressionEnabled {
		t.Fatalf("unexpected http config: %#v", cfg.HTTP)
	}

	expectedUpstream := UpstreamConfig{
		BaseURL:      "https://lora.example.com",
		Timeout:      5 * time.Second,
		RetryMax:     4,
		RetryWaitMin: 200 * time.Millisecond,
		RetryWaitMax: 2 * time.Second,
		HTTP2:        true,
		ProxyEnabled: true,
	}
	if !reflect.DeepEqual(cfg.Upstream, expectedUpstream) {
		t.Fatalf("unexpected upstream configuration:\nexpected: %#v\ngot:      %#v", expectedUpstream, cfg.Upstream)
	}

	expectedSession := SessionConfig{Backend: SessionBackendRedis, TTL: time.Hour, CookieSecure: true}
	if cfg.Session != expectedSession {
		t.Fatalf("unexpected session configuration: %#v", cfg.Session)
	}
	if !cfg.UsesRedis() || cfg.Redis.URI != "redis://cache:6379/2" {
		t.Fatalf("unexpected redis configuration: %#v", cfg.Redis)
	}

	expectedListing := ListingConfig{PageSize: 25, ControllerCapacity: 64, ControllerTTL: 5 * time.Minute}
	if cfg.Listing != expectedListing {
		t.Fatalf("unexpected listing configuration: %#v", cfg.Listing)
	}
	if !cfg.Observability.Metrics.IsEnabled() {
		t.Fatalf("expected metrics to be enabled")
	}
}

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	cfg := parse(t, map[string]string{
		"AUTH_MODE":              "MOCK",
		"AUTH_ADMIN_USERNAMES":   "alice, ,bob",
		"DEV_AUTH_USERNAME":      "dev",
		"DEV_AUTH_PASSWORD":      "secret",
		"DEV_AUTH_TOKEN":         "jwt",
		"DEV_AUTH_IS_ADMIN":      "false",
		"DEV_AUTH_ORGANIZATIONS": "1:acme; 2:globex",
	})

	expected := AuthConfig{
		Mode: AuthModeMock,
		DevAuth: DevAuthConfig{
			Username:      "dev",
			Password:      "secret",
			Token:         "jwt",
			IsAdmin:       false,
			Organizations: []string{"1:acme", "2:globex"},
		},
		AdminUsernames: []string{"alice", "bob"},
	}

	if !reflect.DeepEqual(cfg.Auth, expected) {
		t.Fatalf("unexpected auth configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Auth)
	}
}

func TestAppConfig_RejectsUnknownAuthMode(t *testing.T) {
	var cfg AppConfig
	err := env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{"AUTH_MODE": "oauth"}})
	if err == nil {
		t.Fatalf("expected error for unknown auth mode")
	}
}

func TestAppConfig_DetectsNodeEnv(t *testing.T) {
	t.Setenv("NODE_ENV", "development")
	cfg := parse(t, map[string]string{})
	if !cfg.IsDev {
		t.Fatalf("expected NODE_ENV=development to enable dev mode")
	}
}

func TestHTTPConfig_Sanitize(t *testing.T) {
	cfg := HTTPConfig{CompressionLevel: 12, ReadTimeout: -1}
	cfg.Sanitize()
	if cfg.CompressionLevel != 9 {
		t.Fatalf("expected level clamped to 9, got %d", cfg.CompressionLevel)
	}
	if cfg.ReadTimeout != 30*time.Second || cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("expected timeout defaults, got %#v", cfg)
	}

	cfg = HTTPConfig{CompressionLevel: 0}
	cfg.Sanitize()
	if cfg.CompressionLevel != 1 {
		t.Fatalf("expected level clamped to 1, got %d", cfg.CompressionLevel)
	}
}

func TestUpstreamConfig_Sanitize(t *testing.T) {
	cfg := UpstreamConfig{RetryMax: 50, RetryWaitMin: time.Second, RetryWaitMax: time.Millisecond}
	cfg.Sanitize()
	if cfg.RetryMax != maxUpstreamRetries {
		t.Fatalf("expected retries clamped, got %d", cfg.RetryMax)
	}
	if cfg.Timeout != defaultUpstreamTimeout {
		t.Fatalf("expected default timeout, got %v", cfg.Timeout)
	}
	if cfg.RetryWaitMax != time.Second {
		t.Fatalf("expected wait max raised to wait min, got %v", cfg.RetryWaitMax)
	}

	cfg = UpstreamConfig{RetryMax: -3}
	cfg.Sanitize()
	if cfg.RetryMax != 0 {
		t.Fatalf("expected negative retries reset, got %d", cfg.RetryMax)
	}
}

func TestSessionConfig_Sanitize(t *testing.T) {
	tests := []struct {
		name    string
		in      SessionConfig
		backend SessionBackend
		ttl     time.Duration
	}{
		{name: "unknown backend", in: SessionConfig{Backend: "etcd", TTL: time.Hour}, backend: SessionBackendMemory, ttl: time.Hour},
		{name: "redis mixed case", in: SessionConfig{Backend: " REDIS "}, backend: SessionBackendRedis, ttl: defaultSessionTTL},
		{name: "empty", in: SessionConfig{}, backend: SessionBackendMemory, ttl: defaultSessionTTL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.in
			cfg.Sanitize()
			if cfg.Backend != tt.backend || cfg.TTL != tt.ttl {
				t.Fatalf("got backend=%q ttl=%v", cfg.Backend, cfg.TTL)
			}
		})
	}
}

func TestListingConfig_Sanitize(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{in: 0, want: DefaultListingPageSize},
		{in: -5, want: DefaultListingPageSize},
		{in: 50, want: 50},
		{in: 500, want: MaxListingPageSize},
	}
	for _, tt := range tests {
		cfg := ListingConfig{PageSize: tt.in}
		cfg.Sanitize()
		if cfg.PageSize != tt.want {
			t.Fatalf("page size %d: expected %d, got %d", tt.in, tt.want, cfg.PageSize)
		}
		if cfg.ControllerCapacity != 4096 {
			t.Fatalf("expected default capacity, got %d", cfg.ControllerCapacity)
		}
	}
}

func TestObservabilityMetricsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " ",
	}

	cfg.Sanitize()

	if cfg.Enabled {
		t.Fatalf("expected enabled to be false when address is empty")
	}
	if cfg.Prefix != defaultMetricsPrefix {
		t.Fatalf("expected default prefix, got %q", cfg.Prefix)
	}

	cfg = ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " statsd:1234 ",
	}

	cfg.Sanitize()

	if !cfg.IsEnabled() {
		t.Fatalf("expected metrics to remain enabled")
	}
	if cfg.StatsdAddress != "statsd:1234" {
		t.Fatalf("expected address to be trimmed, got %q", cfg.StatsdAddress)
	}
	if cfg.DialTimeout != defaultMetricsDialTimeout {
		t.Fatalf("expected default dial timeout, got %s", cfg.DialTimeout)
	}
}

func TestObservabilityMetricsConfig_Tags(t *testing.T) {
	cfg := parse(t, map[string]string{
		"OBSERVABILITY_METRICS_TAGS": "env:prod, region:eu,empty:",
	})

	tags := cfg.Observability.Metrics.GlobalTags()
	if len(tags) != 2 || tags["env"] != "prod" || tags["region"] != "eu" {
		t.Fatalf("unexpected tags %v", tags)
	}
	tags["env"] = "dev"
	if cfg.Observability.Metrics.Tags["env"] != "prod" {
		t.Fatalf("GlobalTags must return a copy")
	}
}
