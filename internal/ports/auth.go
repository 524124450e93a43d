package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"

	domainauth "github.com/mxc-foundation/lpwan-console/internal/domain/auth"
)

// Authenticator verifies operator credentials and returns the resulting identity.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (domainauth.Identity, error)
}

// SessionStore persists and retrieves operator sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// RoleMapper derives the console role of an identity.
type RoleMapper interface {
	Map(id domainauth.Identity) domainauth.Role
}

// ErrSessionNotFound is returned by SessionStore.Get for unknown or expired sessions.
var ErrSessionNotFound = errors.New("session not found")
