package config

import (
	"strings"
	"time"
)

// SessionBackend selects where sessions are stored.
type SessionBackend string

const (
	SessionBackendMemory SessionBackend = "memory"
	SessionBackendRedis  SessionBackend = "redis"
)

const defaultSessionTTL = 8 * time.Hour

// SessionConfig controls operator sessions.
type SessionConfig struct {
	Backend SessionBackend `env:"BACKEND" envDefault:"memory"`
	TTL     time.Duration  `env:"TTL"     envDefault:"8h"`
	// CookieSecure marks the session and CSRF cookies Secure.
	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"false"`
}

// Sanitize falls back to the memory backend on unknown values.
func (c *SessionConfig) Sanitize() {
	switch SessionBackend(strings.ToLower(strings.TrimSpace(string(c.Backend)))) {
	case SessionBackendRedis:
		c.Backend = SessionBackendRedis
	default:
		c.Backend = SessionBackendMemory
	}
	if c.TTL <= 0 {
		c.TTL = defaultSessionTTL
	}
}

// RedisConfig contains Redis connection settings for the session backend.
type RedisConfig struct {
	// URI is either host:port or a redis:// (rediss://) URL.
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	DB                 int      `env:"DB"                   envDefault:"0"`
	KeyPrefix          string   `env:"KEY_PREFIX"           envDefault:"console:session:"`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
}

// Sanitize trims addresses.
func (c *RedisConfig) Sanitize() {
	c.URI = strings.TrimSpace(c.URI)
	c.SentinelNodes = trimAll(c.SentinelNodes)
	if c.DB < 0 {
		c.DB = 0
	}
}
