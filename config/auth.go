package config

import (
	"fmt"
	"strings"
)

// AuthMode selects how operators sign in.
type AuthMode string

const (
	// AuthModeUpstream relays credentials to the network server login endpoint.
	AuthModeUpstream AuthMode = "upstream"
	// AuthModeMock accepts a single configured operator (development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "upstream", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: upstream, mock)", v)
	}
}

// DevAuthConfig is the operator accepted when AUTH_MODE=mock.
// Token must be a JWT the upstream accepts; every upstream call carries it.
type DevAuthConfig struct {
	Username string `env:"USERNAME" envDefault:"admin"`
	Password string `env:"PASSWORD"`
	Token    string `env:"TOKEN"`
	IsAdmin  bool   `env:"IS_ADMIN" envDefault:"true"`
	// Organizations lists "id:name" pairs the operator administers.
	Organizations []string `env:"ORGANIZATIONS" envSeparator:";"`
}

// AuthConfig groups sign-in configuration.
type AuthConfig struct {
	Mode AuthMode `env:"AUTH_MODE" envDefault:"upstream"`

	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// AdminUsernames are promoted to console admin regardless of their
	// upstream profile.
	AdminUsernames []string `env:"AUTH_ADMIN_USERNAMES" envSeparator:","`
}

// Sanitize trims list entries and drops empty ones.
func (c *AuthConfig) Sanitize() {
	c.AdminUsernames = trimAll(c.AdminUsernames)
	c.DevAuth.Organizations = trimAll(c.DevAuth.Organizations)
	c.DevAuth.Username = strings.TrimSpace(c.DevAuth.Username)
	if c.Mode == "" {
		c.Mode = AuthModeUpstream
	}
}

func trimAll(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
