package config

import (
	"os"
	"strings"
)

// AppConfig is the console configuration, composed from the domain configs
// in this package.
//
// Values are read from environment variables with github.com/caarlos0/env.
// See the individual files for the available variables:
//   - auth.go: login mode and admin overrides
//   - http.go: HTTP server
//   - upstream.go: network server API client
//   - session.go: session backend and Redis
//   - listing.go: remote table defaults
//   - observability.go: metrics
type AppConfig struct {
	// IsDev serves templates and static assets from disk.
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	Auth     AuthConfig
	HTTP     HTTPConfig
	Upstream UpstreamConfig `envPrefix:"UPSTREAM_"`
	Session  SessionConfig  `envPrefix:"SESSION_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Listing  ListingConfig  `envPrefix:"LISTING_"`

	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// Call it after parsing.
func (c *AppConfig) Sanitize() {
	c.Auth.Sanitize()
	c.HTTP.Sanitize()
	c.Upstream.Sanitize()
	c.Session.Sanitize()
	c.Redis.Sanitize()
	c.Listing.Sanitize()
	c.Observability.Sanitize()

	c.detectDevMode()
}

// detectDevMode falls back to NODE_ENV when DEV is unset.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// UsesRedis reports whether any component needs a Redis connection.
func (c *AppConfig) UsesRedis() bool {
	return c.Session.Backend == SessionBackendRedis
}
