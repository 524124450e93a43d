// Package upstream authenticates console operators against the network
// server's own login endpoint.
package upstream

import (
	"context"
	"fmt"

	"github.com/mxc-foundation/lpwan-console/internal/apiclient"
	"github.com/mxc-foundation/lpwan-console/internal/domain/model"
	domainauth "github.com/mxc-foundation/lpwan-console/internal/domain/auth"
	"github.com/mxc-foundation/lpwan-console/internal/ports"
)

var _ ports.Authenticator = (*Authenticator)(nil)

// Credentials is the subset of store.Session used for login.
type Credentials interface {
	Login(ctx context.Context, username, password string) (string, error)
	Profile(ctx context.Context) (model.Profile, error)
}

// Authenticator relays credentials to the upstream and loads the profile of
// the returned token.
type Authenticator struct {
	creds Credentials
}

// NewAuthenticator constructs an Authenticator over creds.
func NewAuthenticator(creds Credentials) *Authenticator {
	return &Authenticator{creds: creds}
}

func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (domainauth.Identity, error) {
	token, err := a.creds.Login(ctx, username, password)
	if err != nil {
		return domainauth.Identity{}, err
	}

	profile, err := a.creds.Profile(apiclient.WithToken(ctx, token))
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("load profile: %w", err)
	}

	return IdentityFromProfile(profile, token), nil
}

// IdentityFromProfile maps an upstream profile and its token to an Identity.
func IdentityFromProfile(p model.Profile, token string) domainauth.Identity {
	orgs := make([]domainauth.Membership, 0, len(p.Organizations))
	for _, o := range p.Organizations {
		orgs = append(orgs, domainauth.Membership{
			OrganizationID:   o.OrganizationID.String(),
			OrganizationName: o.OrganizationName,
			IsAdmin:          o.IsAdmin,
			IsDeviceAdmin:    o.IsDeviceAdmin,
			IsGatewayAdmin:   o.IsGatewayAdmin,
		})
	}
	return domainauth.Identity{
		UserID:        p.User.ID.String(),
		Username:      p.User.Username,
		IsAdmin:       p.User.IsAdmin,
		Token:         token,
		Organizations: orgs,
	}
}
