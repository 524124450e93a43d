package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/mxc-foundation/lpwan-console/internal/domain/auth"
	errorsx "github.com/mxc-foundation/lpwan-console/internal/errors"
	"github.com/mxc-foundation/lpwan-console/internal/ports"
)

// DefaultSessionTTL is the lifetime of a console session when none is configured.
const DefaultSessionTTL = 8 * time.Hour

// SessionPolicy configures session lifetime and role derivation.
type SessionPolicy struct {
	TTL   time.Duration
	Roles ports.RoleMapper
	Now   func() time.Time
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Authenticator ports.Authenticator
	Sessions      ports.SessionStore
	Policy        SessionPolicy
}

// AuthService logs operators in against the upstream and keeps their token in a
// server-side session.
type AuthService struct {
	authenticator ports.Authenticator
	sessions      ports.SessionStore
	roles         ports.RoleMapper
	ttl           time.Duration
	now           func() time.Time
}

var errSessionExpired = errors.New("session expired")

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Authenticator == nil {
		panic("AuthService requires an Authenticator")
	}
	if opts.Sessions == nil {
		panic("AuthService requires a SessionStore")
	}
	s := &AuthService{
		authenticator: opts.Authenticator,
		sessions:      opts.Sessions,
		roles:         opts.Policy.Roles,
		ttl:           opts.Policy.TTL,
		now:           opts.Policy.Now,
	}
	if s.roles == nil {
		s.roles = roleMapperFunc(domainauth.RoleFor)
	}
	if s.ttl <= 0 {
		s.ttl = DefaultSessionTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// LoginInput carries operator credentials.
type LoginInput struct {
	Username string
	Password string
}

// Login authenticates the operator and persists a new session.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*domainauth.Session, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, errorsx.ValidationField("username", "username is required")
	}
	if in.Password == "" {
		return nil, errorsx.ValidationField("password", "password is required")
	}

	identity, err := s.authenticator.Authenticate(ctx, username, in.Password)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	session := domainauth.Session{
		ID:            generateSessionID(),
		UserID:        identity.UserID,
		Username:      identity.Username,
		Role:          s.roles.Map(identity),
		Token:         identity.Token,
		Organizations: identity.Organizations,
		ExpiresAt:     s.now().Add(s.ttl),
	}
	if session.Username == "" {
		session.Username = username
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &session, nil
}

// GetSession retrieves a live session by ID.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if !s.now().Before(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &session, nil
}

// Logout removes a session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// TTL returns the session lifetime.
func (s *AuthService) TTL() time.Duration { return s.ttl }

type roleMapperFunc func(domainauth.Identity) domainauth.Role

func (f roleMapperFunc) Map(id domainauth.Identity) domainauth.Role { return f(id) }

func generateSessionID() string {
	return uuid.New().String()
}
