package model

import "time"

// Organization is a tenant of the network server.
type Organization struct {
	ID              Int64String `json:"id"`
	Name            string      `json:"name"`
	DisplayName     string      `json:"displayName"`
	CanHaveGateways bool        `json:"canHaveGateways"`
	CreatedAt       *time.Time  `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time  `json:"updatedAt,omitempty"`
}

// OrganizationUser is a user's membership in an organization.
type OrganizationUser struct {
	UserID         Int64String `json:"userID"`
	Username       string      `json:"username"`
	IsAdmin        bool        `json:"isAdmin"`
	IsDeviceAdmin  bool        `json:"isDeviceAdmin"`
	IsGatewayAdmin bool        `json:"isGatewayAdmin"`
	CreatedAt      *time.Time  `json:"createdAt,omitempty"`
}

// User is a console/network-server account.
type User struct {
	ID         Int64String `json:"id"`
	Username   string      `json:"username"`
	IsAdmin    bool        `json:"isAdmin"`
	IsActive   bool        `json:"isActive"`
	SessionTTL int         `json:"sessionTTL,omitempty"`
	CreatedAt  *time.Time  `json:"createdAt,omitempty"`
}

// Location is a WGS84 position.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
}

// Gateway is a LoRaWAN gateway registered to an organization.
type Gateway struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Description       string      `json:"description"`
	OrganizationID    Int64String `json:"organizationID"`
	NetworkServerID   Int64String `json:"networkServerID"`
	NetworkServerName string      `json:"networkServerName"`
	Location          Location    `json:"location"`
	FirstSeenAt       *time.Time  `json:"firstSeenAt,omitempty"`
	LastSeenAt        *time.Time  `json:"lastSeenAt,omitempty"`
	CreatedAt         *time.Time  `json:"createdAt,omitempty"`
	UpdatedAt         *time.Time  `json:"updatedAt,omitempty"`
}

// Application groups devices under a service profile.
type Application struct {
	ID                 Int64String `json:"id"`
	Name               string      `json:"name"`
	Description        string      `json:"description"`
	OrganizationID     Int64String `json:"organizationID"`
	ServiceProfileID   string      `json:"serviceProfileID"`
	ServiceProfileName string      `json:"serviceProfileName"`
}

// DeviceProfile describes the radio capabilities of a class of devices.
type DeviceProfile struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	OrganizationID    Int64String `json:"organizationID"`
	NetworkServerID   Int64String `json:"networkServerID"`
	NetworkServerName string      `json:"networkServerName"`
	CreatedAt         *time.Time  `json:"createdAt,omitempty"`
	UpdatedAt         *time.Time  `json:"updatedAt,omitempty"`
}

// ServiceProfile binds an organization to a network server.
type ServiceProfile struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	OrganizationID    Int64String `json:"organizationID"`
	NetworkServerID   Int64String `json:"networkServerID"`
	NetworkServerName string      `json:"networkServerName"`
}

// NetworkServer is a LoRa network server known to the application server.
type NetworkServer struct {
	ID        Int64String `json:"id"`
	Name      string      `json:"name"`
	Server    string      `json:"server"`
	CreatedAt *time.Time  `json:"createdAt,omitempty"`
	UpdatedAt *time.Time  `json:"updatedAt,omitempty"`
}

// Device is an end device identified by its DevEUI.
type Device struct {
	DevEUI              string      `json:"devEUI"`
	Name                string      `json:"name"`
	Description         string      `json:"description"`
	ApplicationID       Int64String `json:"applicationID"`
	DeviceProfileID     string      `json:"deviceProfileID"`
	DeviceProfileName   string      `json:"deviceProfileName"`
	DeviceStatusBattery int         `json:"deviceStatusBattery"`
	DeviceStatusMargin  int         `json:"deviceStatusMargin"`
	LastSeenAt          *time.Time  `json:"lastSeenAt,omitempty"`
}

// MulticastGroup is a group of devices addressed together.
type MulticastGroup struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	ServiceProfileID   string `json:"serviceProfileID"`
	ServiceProfileName string `json:"serviceProfileName"`
}

// FUOTADeployment is a firmware-update-over-the-air job.
type FUOTADeployment struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	State         string     `json:"state"`
	NextStepAfter *time.Time `json:"nextStepAfter,omitempty"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

// FUOTADeploymentDevice is the per-device state of a FUOTA deployment.
type FUOTADeploymentDevice struct {
	DevEUI       string     `json:"devEUI"`
	DeviceName   string     `json:"deviceName"`
	State        string     `json:"state"`
	ErrorMessage string     `json:"errorMessage"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// Stake is a staking position held by an organization.
type Stake struct {
	ID        string     `json:"id"`
	Amount    string     `json:"amount"`
	Active    bool       `json:"active"`
	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	LockTill  *time.Time `json:"lockTill,omitempty"`
	Boost     string     `json:"boost"`
	Revenue   string     `json:"revenue"`
}

// StakingHistory is one staking ledger entry.
type StakingHistory struct {
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Amount    string     `json:"amount"`
	Type      string     `json:"type"`
	Stake     Stake      `json:"stake"`
}

// WithdrawHistory is one withdrawal request.
type WithdrawHistory struct {
	Amount      string     `json:"amount"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
	TxStatus    string     `json:"txStatus"`
	TxHash      string     `json:"txHash"`
	DenyComment string     `json:"denyComment"`
	WithdrawFee string     `json:"withdrawFee"`
}

// TopUpHistory is one wallet top-up.
type TopUpHistory struct {
	Amount    string     `json:"amount"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	TxHash    string     `json:"txHash"`
}

// OrganizationLink is an organization membership listed in a login profile.
type OrganizationLink struct {
	OrganizationID   Int64String `json:"organizationID"`
	OrganizationName string      `json:"organizationName"`
	IsAdmin          bool        `json:"isAdmin"`
	IsDeviceAdmin    bool        `json:"isDeviceAdmin"`
	IsGatewayAdmin   bool        `json:"isGatewayAdmin"`
}

// Profile is the authenticated user's profile.
type Profile struct {
	User          User               `json:"user"`
	Organizations []OrganizationLink `json:"organizations"`
}

// Row is an opaque upstream row keyed by JSON field name.
type Row map[string]any
