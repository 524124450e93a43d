package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"

	domainauth "github.com/mxc-foundation/lpwan-console/internal/domain/auth"
	errorsx "github.com/mxc-foundation/lpwan-console/internal/errors"
	"github.com/mxc-foundation/lpwan-console/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.Authenticator = (*StubAuthenticator)(nil)
	_ ports.SessionStore  = (*FailingSessionStore)(nil)
)

// StubAuthenticator accepts a single username/password pair.
type StubAuthenticator struct {
	AuthenticateFunc func(ctx context.Context, username, password string) (domainauth.Identity, error)

	Username string
	Password string
	Identity domainauth.Identity

	mu    sync.Mutex
	calls int
}

// NewStubAuthenticator returns a stub that accepts alice/secret as an org member.
func NewStubAuthenticator() *StubAuthenticator {
	return &StubAuthenticator{
		Username: "alice",
		Password: "secret",
		Identity: domainauth.Identity{
			UserID:   "12",
			Username: "alice",
			Token:    "stub-jwt",
			Organizations: []domainauth.Membership{
				{OrganizationID: "1", OrganizationName: "acme", IsAdmin: true},
			},
		},
	}
}

func (s *StubAuthenticator) Authenticate(ctx context.Context, username, password string) (domainauth.Identity, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.AuthenticateFunc != nil {
		return s.AuthenticateFunc(ctx, username, password)
	}
	if username != s.Username || password != s.Password {
		return domainauth.Identity{}, ErrInvalidCredentials
	}
	return s.Identity, nil
}

// Calls returns how many times Authenticate ran.
func (s *StubAuthenticator) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// ErrInvalidCredentials is returned by StubAuthenticator for unknown credentials.
var ErrInvalidCredentials error = errorsx.Unauthenticated("invalid credentials")

// FailingSessionStore returns Err from every call.
type FailingSessionStore struct {
	Err error
}

func (f FailingSessionStore) Save(context.Context, domainauth.Session) error { return f.Err }

func (f FailingSessionStore) Get(context.Context, string) (domainauth.Session, error) {
	return domainauth.Session{}, f.Err
}

func (f FailingSessionStore) Delete(context.Context, string) error { return f.Err }
