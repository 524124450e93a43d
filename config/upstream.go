package config

import (
	"strings"
	"time"
)

const (
	defaultUpstreamTimeout = 15 * time.Second
	maxUpstreamRetries     = 10
)

// UpstreamConfig configures the client for the network server REST API.
type UpstreamConfig struct {
	// BaseURL is the grpc-gateway root, e.g. "https://lora.example.com".
	BaseURL      string        `env:"BASE_URL"       envDefault:"http://localhost:8080"`
	Timeout      time.Duration `env:"TIMEOUT"        envDefault:"15s"`
	RetryMax     int           `env:"RETRY_MAX"      envDefault:"0"`
	RetryWaitMin time.Duration `env:"RETRY_WAIT_MIN" envDefault:"200ms"`
	RetryWaitMax time.Duration `env:"RETRY_WAIT_MAX" envDefault:"2s"`
	HTTP2        bool          `env:"HTTP2"          envDefault:"false"`
	// ProxyEnabled exposes the upstream API under /api/ with the session token.
	ProxyEnabled bool `env:"PROXY_ENABLED" envDefault:"false"`
}

// Sanitize normalises the base URL and clamps retry settings.
func (c *UpstreamConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.Timeout <= 0 {
		c.Timeout = defaultUpstreamTimeout
	}
	if c.RetryMax < 0 {
		c.RetryMax = 0
	}
	if c.RetryMax > maxUpstreamRetries {
		c.RetryMax = maxUpstreamRetries
	}
	if c.RetryWaitMax < c.RetryWaitMin {
		c.RetryWaitMax = c.RetryWaitMin
	}
}
