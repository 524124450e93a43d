package httpx

import (
	"context"

	domainauth "github.com/mxc-foundation/lpwan-console/internal/domain/auth"
)

// sessionKey is the context key for the operator session; every handler and
// middleware reads it through the helpers below.
type sessionKey struct{}

// SetSessionInContext returns a child context carrying session.
// A nil session returns ctx unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetUserSessionFromContext returns the operator session and whether one is present.
func GetUserSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	if session, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok && session != nil {
		return session, true
	}
	return nil, false
}

// GetSessionFromContext returns the operator session or nil.
func GetSessionFromContext(ctx context.Context) *domainauth.Session {
	if s, ok := GetUserSessionFromContext(ctx); ok {
		return s
	}
	return nil
}

// IsGuestUser reports whether the request is unauthenticated or a guest session.
func IsGuestUser(ctx context.Context) bool {
	s, ok := GetUserSessionFromContext(ctx)
	if !ok {
		return true
	}
	return s.IsGuest()
}

// CanManageOrganization reports whether the operator may change organization orgID.
func CanManageOrganization(ctx context.Context, orgID string) bool {
	s, ok := GetUserSessionFromContext(ctx)
	return ok && s.CanManageOrganization(orgID)
}
