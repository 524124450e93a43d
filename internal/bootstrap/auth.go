package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mxc-foundation/lpwan-console/config"
	"github.com/mxc-foundation/lpwan-console/internal/adapters/authroles"
	"github.com/mxc-foundation/lpwan-console/internal/adapters/devauth"
	"github.com/mxc-foundation/lpwan-console/internal/adapters/upstream"
	domainauth "github.com/mxc-foundation/lpwan-console/internal/domain/auth"
	"github.com/mxc-foundation/lpwan-console/internal/ports"
	"github.com/mxc-foundation/lpwan-console/internal/service"
)

// AuthConfig contains configuration for the auth service.
type AuthConfig struct {
	Auth    config.AuthConfig
	Session config.SessionConfig
	// Sessions stores operator sessions (memory or redis).
	Sessions ports.SessionStore
	// Credentials performs the upstream login; used in upstream mode.
	Credentials upstream.Credentials
	Logger      *slog.Logger
}

// BuildAuthService creates the auth service for the configured mode.
func BuildAuthService(cfg AuthConfig) (*service.AuthService, error) {
	if cfg.Sessions == nil {
		return nil, errors.New("auth: session store is required")
	}

	authn, err := buildAuthenticator(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("auth configured",
			"mode", cfg.Auth.Mode,
			"session_backend", cfg.Session.Backend,
			"admin_overrides", len(cfg.Auth.AdminUsernames),
		)
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Authenticator: authn,
		Sessions:      cfg.Sessions,
		Policy: service.SessionPolicy{
			TTL:   cfg.Session.TTL,
			Roles: roleMapper(cfg.Auth),
		},
	}), nil
}

//nolint:ireturn // the mode decides the concrete authenticator.
func buildAuthenticator(cfg AuthConfig) (ports.Authenticator, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		orgs, err := parseMemberships(cfg.Auth.DevAuth.Organizations)
		if err != nil {
			return nil, err
		}
		prov, err := devauth.NewProvider(devauth.Config{
			Username:      cfg.Auth.DevAuth.Username,
			Password:      cfg.Auth.DevAuth.Password,
			Token:         cfg.Auth.DevAuth.Token,
			IsAdmin:       cfg.Auth.DevAuth.IsAdmin,
			Organizations: orgs,
		})
		if err != nil {
			return nil, fmt.Errorf("create dev auth provider: %w", err)
		}
		if cfg.Logger != nil {
			cfg.Logger.Warn("dev auth enabled; do not use in production", "username", cfg.Auth.DevAuth.Username)
		}
		return prov, nil
	case config.AuthModeUpstream, "":
		if cfg.Credentials == nil {
			return nil, errors.New("auth: upstream credentials are required")
		}
		return upstream.NewAuthenticator(cfg.Credentials), nil
	default:
		return nil, fmt.Errorf("auth: unsupported mode %q", cfg.Auth.Mode)
	}
}

//nolint:ireturn // either mapper satisfies the port.
func roleMapper(cfg config.AuthConfig) ports.RoleMapper {
	if len(cfg.AdminUsernames) > 0 {
		return authroles.AdminList{Usernames: cfg.AdminUsernames}
	}
	return authroles.MembershipMapper{}
}

// parseMemberships reads "id:name" pairs. The dev operator administers
// every listed organization.
func parseMemberships(pairs []string) ([]domainauth.Membership, error) {
	out := make([]domainauth.Membership, 0, len(pairs))
	for _, p := range pairs {
		id, name, _ := strings.Cut(p, ":")
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("auth: invalid dev organization %q", p)
		}
		out = append(out, domainauth.Membership{
			OrganizationID:   id,
			OrganizationName: strings.TrimSpace(name),
			IsAdmin:          true,
			IsDeviceAdmin:    true,
			IsGatewayAdmin:   true,
		})
	}
	return out, nil
}
