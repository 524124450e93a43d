package devauth

// Package devauth provides a config-driven Authenticator for local development.
// It skips the upstream login and hands out a pre-issued upstream API token.

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	domainauth "github.com/mxc-foundation/lpwan-console/internal/domain/auth"
	errorsx "github.com/mxc-foundation/lpwan-console/internal/errors"
	"github.com/mxc-foundation/lpwan-console/internal/ports"
)

var _ ports.Authenticator = (*Provider)(nil)

// Config controls the dev authenticator.
// Username and Token are required; an empty Password accepts any password.
type Config struct {
	Username      string
	Password      string
	Token         string
	IsAdmin       bool
	Organizations []domainauth.Membership
}

// Provider implements ports.Authenticator for local development.
type Provider struct {
	identity domainauth.Identity
	password string
}

// NewProvider constructs a dev authenticator from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if strings.TrimSpace(cfg.Username) == "" {
		return nil, errors.New("dev auth: Username is required")
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("dev auth: Token is required")
	}
	return &Provider{
		identity: domainauth.Identity{
			UserID:        cfg.Username,
			Username:      cfg.Username,
			IsAdmin:       cfg.IsAdmin,
			Token:         cfg.Token,
			Organizations: append([]domainauth.Membership(nil), cfg.Organizations...),
		},
		password: cfg.Password,
	}, nil
}

// Authenticate accepts the configured username (and password, when set).
func (p *Provider) Authenticate(_ context.Context, username, password string) (domainauth.Identity, error) {
	if strings.TrimSpace(username) != p.identity.Username {
		return domainauth.Identity{}, errorsx.Unauthenticated("unknown user")
	}
	if p.password != "" && subtle.ConstantTimeCompare([]byte(password), []byte(p.password)) != 1 {
		return domainauth.Identity{}, errorsx.Unauthenticated("invalid password")
	}
	id := p.identity
	id.Organizations = append([]domainauth.Membership(nil), p.identity.Organizations...)
	return id, nil
}
