package testutil

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	domainauth "github.com/mxc-foundation/lpwan-console/internal/domain/auth"
)

// SessionBuilder provides a fluent interface for building sessions in tests.
type SessionBuilder struct {
	sess domainauth.Session
}

// NewSession creates a SessionBuilder for an organization member valid for an hour.
func NewSession() *SessionBuilder {
	return &SessionBuilder{
		sess: domainauth.Session{
			ID:        "test-session",
			UserID:    "1",
			Username:  "operator",
			Role:      domainauth.RoleUser,
			Token:     "test-jwt",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
}

// WithID sets the session ID.
func (b *SessionBuilder) WithID(id string) *SessionBuilder {
	b.sess.ID = id
	return b
}

// WithUsername sets the username.
func (b *SessionBuilder) WithUsername(name string) *SessionBuilder {
	b.sess.Username = name
	return b
}

// WithRole sets the role.
func (b *SessionBuilder) WithRole(role domainauth.Role) *SessionBuilder {
	b.sess.Role = role
	return b
}

// WithToken sets the upstream token.
func (b *SessionBuilder) WithToken(token string) *SessionBuilder {
	b.sess.Token = token
	return b
}

// WithMembership adds an organization membership.
func (b *SessionBuilder) WithMembership(orgID, name string, admin bool) *SessionBuilder {
	b.sess.Organizations = append(b.sess.Organizations, domainauth.Membership{
		OrganizationID:   orgID,
		OrganizationName: name,
		IsAdmin:          admin,
	})
	return b
}

// ExpiresAt sets the expiry.
func (b *SessionBuilder) ExpiresAt(at time.Time) *SessionBuilder {
	b.sess.ExpiresAt = at
	return b
}

// Build returns the built session.
func (b *SessionBuilder) Build() domainauth.Session {
	out := b.sess
	out.Organizations = append([]domainauth.Membership(nil), b.sess.Organizations...)
	return out
}

// ListBody renders an upstream list envelope with rows built by row(i) for
// i in [0, n). totalCount is encoded as a string like the grpc-gateway does.
func ListBody(total int64, n int, row func(i int) map[string]any) string {
	rows := make([]map[string]any, 0, n)
	for i := range n {
		rows = append(rows, row(i))
	}
	body, err := json.Marshal(map[string]any{
		"totalCount": strconv.FormatInt(total, 10),
		"result":     rows,
	})
	if err != nil {
		panic(fmt.Sprintf("testutil: marshal list body: %v", err))
	}
	return string(body)
}
