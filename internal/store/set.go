package store

import "fmt"

// Set bundles every store over one Backend.
type Set struct {
	Organizations   *Organizations
	Users           *Users
	Gateways        *Gateways
	Applications    *Applications
	DeviceProfiles  *DeviceProfiles
	ServiceProfiles *ServiceProfiles
	NetworkServers  *NetworkServers
	Devices         *Devices
	MulticastGroups *MulticastGroups
	FUOTA           *FUOTA
	Wallet          *Wallet
	Session         *Session
}

// NewSet constructs all stores with shared options.
func NewSet(opts Options) (*Set, error) {
	b, err := newBase(opts)
	if err != nil {
		return nil, fmt.Errorf("new store set: %w", err)
	}
	return &Set{
		Organizations:   &Organizations{base: b},
		Users:           &Users{base: b},
		Gateways:        &Gateways{base: b},
		Applications:    &Applications{base: b},
		DeviceProfiles:  &DeviceProfiles{base: b},
		ServiceProfiles: &ServiceProfiles{base: b},
		NetworkServers:  &NetworkServers{base: b},
		Devices:         &Devices{base: b},
		MulticastGroups: &MulticastGroups{base: b},
		FUOTA:           &FUOTA{base: b},
		Wallet:          &Wallet{base: b, moneyAbbr: DefaultMoneyAbbr},
		Session:         &Session{base: b},
	}, nil
}
