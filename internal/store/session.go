package store

import (
	"context"
	"strings"

	"github.com/mxc-foundation/lpwan-console/internal/domain/model"
	errorsx "github.com/mxc-foundation/lpwan-console/internal/errors"
)

// Session authenticates operators against the upstream.
type Session struct{ base }

// NewSession constructs a Session store.
func NewSession(opts Options) (*Session, error) {
	b, err := newBase(opts)
	if err != nil {
		return nil, err
	}
	return &Session{base: b}, nil
}

// Login exchanges credentials for an upstream JWT.
func (s *Session) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", errorsx.Validation("username and password are required")
	}

	body := map[string]string{"username": username, "password": password}
	var out struct {
		JWT string `json:"jwt"`
	}
	if err := s.api.PostJSON(ctx, "/api/internal/login", body, &out); err != nil {
		return "", s.fail(ctx, "login", err)
	}
	if out.JWT == "" {
		return "", s.fail(ctx, "login", errorsx.Unauthenticated("login returned no token"))
	}
	return out.JWT, nil
}

// Profile returns the user and organization memberships of the token in ctx.
func (s *Session) Profile(ctx context.Context) (model.Profile, error) {
	var p model.Profile
	if err := s.api.GetJSON(ctx, "/api/internal/profile", nil, &p); err != nil {
		return model.Profile{}, s.fail(ctx, "profile", err)
	}
	return p, nil
}
