package auth

// Package auth contains domain-level types for console sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Role is the console-wide role of an operator.
// Keep string form for easy persistence in the session store.
type Role string

const (
	// RoleAdmin is a global network-server administrator.
	RoleAdmin Role = "admin"
	// RoleUser is a member of at least one organization.
	RoleUser Role = "user"
	// RoleGuest is an account with no organization membership.
	RoleGuest Role = "guest"
)

// Membership is an operator's membership in an organization.
type Membership struct {
	OrganizationID   string `json:"organization_id"`
	OrganizationName string `json:"organization_name"`
	IsAdmin          bool   `json:"is_admin"`
	IsDeviceAdmin    bool   `json:"is_device_admin"`
	IsGatewayAdmin   bool   `json:"is_gateway_admin"`
}

// Identity is the authenticated principal returned by the upstream login.
// Token is the upstream JWT used for every subsequent API call.
type Identity struct {
	UserID        string
	Username      string
	IsAdmin       bool
	Token         string
	Organizations []Membership
}

// Session is the server-side record persisted for a logged-in operator.
// ID is the opaque value of the session cookie; Token never leaves the server.
type Session struct {
	ID            string       `json:"id"`
	UserID        string       `json:"user_id"`
	Username      string       `json:"username"`
	Role          Role         `json:"role"`
	Token         string       `json:"token"`
	Organizations []Membership `json:"organizations,omitempty"`
	ExpiresAt     time.Time    `json:"expires_at"`
}

// IsGuest returns true if the session role is guest.
func (s Session) IsGuest() bool { return s.Role == RoleGuest }

// IsAdmin returns true for global administrators.
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

// Membership returns the membership for organization id.
func (s Session) Membership(id string) (Membership, bool) {
	for _, m := range s.Organizations {
		if m.OrganizationID == id {
			return m, true
		}
	}
	return Membership{}, false
}

// CanViewOrganization reports whether the operator may browse organization id.
func (s Session) CanViewOrganization(id string) bool {
	if s.IsAdmin() {
		return true
	}
	_, ok := s.Membership(id)
	return ok
}

// CanManageOrganization reports whether the operator may change organization id.
func (s Session) CanManageOrganization(id string) bool {
	if s.IsAdmin() {
		return true
	}
	m, ok := s.Membership(id)
	return ok && m.IsAdmin
}

// DefaultOrganizationID is the organization the console opens on, or "" when
// the operator belongs to none.
func (s Session) DefaultOrganizationID() string {
	if len(s.Organizations) == 0 {
		return ""
	}
	return s.Organizations[0].OrganizationID
}

// RoleFor derives the console role of an identity: global admins are admins,
// members of any organization are users, everyone else is a guest.
func RoleFor(id Identity) Role {
	switch {
	case id.IsAdmin:
		return RoleAdmin
	case len(id.Organizations) > 0:
		return RoleUser
	default:
		return RoleGuest
	}
}
