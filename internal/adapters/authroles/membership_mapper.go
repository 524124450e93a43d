package authroles

import (
	domainauth "github.com/mxc-foundation/lpwan-console/internal/domain/auth"
)

// MembershipMapper derives roles from upstream profile memberships.
type MembershipMapper struct{}

func (MembershipMapper) Map(id domainauth.Identity) domainauth.Role {
	return domainauth.RoleFor(id)
}

// AdminList promotes the listed usernames to admin on top of the membership
// rules. Used when the console's admins are not network-server admins.
type AdminList struct {
	Usernames []string
}

func (m AdminList) Map(id domainauth.Identity) domainauth.Role {
	for _, u := range m.Usernames {
		if u != "" && u == id.Username {
			return domainauth.RoleAdmin
		}
	}
	return domainauth.RoleFor(id)
}
