package views

import (
	"strings"
	"time"

	"github.com/mxc-foundation/lpwan-console/internal/domain/model"
	"github.com/mxc-foundation/lpwan-console/internal/store"
	"github.com/mxc-foundation/lpwan-console/internal/table"
	"github.com/mxc-foundation/lpwan-console/internal/util"
)

const never = "Never"

// at renders an optional timestamp column.
func at[T any](fallback string) func(table.Cell[T]) table.Display {
	return func(c table.Cell[T]) table.Display {
		t, ok := c.Value.(time.Time)
		if !ok {
			return table.Text(fallback)
		}
		return table.Text(util.FormatTimePtr(&t, fallback))
	}
}

func stateBadge[T any](c table.Cell[T]) table.Display {
	s, _ := c.Value.(string)
	d := table.Text(s)
	upper := strings.ToUpper(s)
	switch {
	case s == "":
		return d
	case upper == "DONE" || strings.Contains(upper, "SUCC") || upper == "COMPLETED":
		d.Badge = "success"
	case strings.Contains(upper, "ERR") || strings.Contains(upper, "FAIL") || strings.Contains(upper, "DEN") || strings.Contains(upper, "REJ"):
		d.Badge = "danger"
	default:
		d.Badge = "info"
	}
	return d
}

// Organizations lists tenants.
var Organizations = Entity[model.Organization]{
	Meta:   Meta{Name: "organizations", Title: "Organizations", KeyField: "id"},
	Source: func(s *store.Set) store.Source[model.Organization] { return s.Organizations.Source() },
	Columns: func(Scope) table.ColumnSet[model.Organization] {
		return table.MustColumnSet(
			table.Column[model.Organization]{Field: "id", Label: "ID"},
			table.Column[model.Organization]{Field: "name", Label: "Name", Render: func(c table.Cell[model.Organization]) table.Display {
				return table.Link(c.Row.Name, OrganizationPath(c.Row.ID.String()))
			}},
			table.Column[model.Organization]{Field: "displayName", Label: "Display name"},
			table.Column[model.Organization]{Field: "canHaveGateways", Label: "Can have gateways"},
		)
	},
}

// OrganizationUsers lists the members of an organization.
var OrganizationUsers = Entity[model.OrganizationUser]{
	Meta: Meta{
		Name: "organization-users", Title: "Organization users",
		Owner: OwnerOrganization, OwnerRequired: true, KeyField: "userID",
	},
	Source: func(s *store.Set) store.Source[model.OrganizationUser] { return s.Organizations.UsersSource() },
	Columns: func(Scope) table.ColumnSet[model.OrganizationUser] {
		return table.MustColumnSet(
			table.Column[model.OrganizationUser]{Field: "userID", Label: "ID"},
			table.Column[model.OrganizationUser]{Field: "username", Label: "Username"},
			table.Column[model.OrganizationUser]{Field: "isAdmin", Label: "Admin"},
			table.Column[model.OrganizationUser]{Field: "isGatewayAdmin", Label: "Gateway admin"},
			table.Column[model.OrganizationUser]{Field: "isDeviceAdmin", Label: "Device admin"},
		)
	},
}

// Users lists console accounts.
var Users = Entity[model.User]{
	Meta:   Meta{Name: "users", Title: "Users", KeyField: "id"},
	Source: func(s *store.Set) store.Source[model.User] { return s.Users.Source() },
	Columns: func(Scope) table.ColumnSet[model.User] {
		return table.MustColumnSet(
			table.Column[model.User]{Field: "id", Label: "ID"},
			table.Column[model.User]{Field: "username", Label: "Username"},
			table.Column[model.User]{Field: "isAdmin", Label: "Admin"},
			table.Column[model.User]{Field: "isActive", Label: "Active"},
		)
	},
}

func gatewayColumns(Scope) table.ColumnSet[model.Gateway] {
	return table.MustColumnSet(
		table.Column[model.Gateway]{Field: "name", Label: "Name", Render: func(c table.Cell[model.Gateway]) table.Display {
			return table.Link(c.Row.Name, GatewayPath(c.Row.OrganizationID.String(), c.Row.ID))
		}},
		table.Column[model.Gateway]{Field: "id", Label: "Gateway ID"},
		table.Column[model.Gateway]{Field: "networkServerName", Label: "Network server"},
		table.Column[model.Gateway]{Field: "lastSeenAt", Label: "Last seen", Render: at[model.Gateway](never)},
		table.Column[model.Gateway]{Field: "location.latitude", Label: "Latitude"},
		table.Column[model.Gateway]{Field: "location.longitude", Label: "Longitude"},
	)
}

// Gateways lists gateways, optionally scoped to an organization.
var Gateways = Entity[model.Gateway]{
	Meta:    Meta{Name: "gateways", Title: "Gateways", Owner: OwnerOrganization, KeyField: "id"},
	Source:  func(s *store.Set) store.Source[model.Gateway] { return s.Gateways.Source() },
	Columns: gatewayColumns,
}

// GatewayMap fetches every gateway of an organization in one page.
var GatewayMap = Entity[model.Gateway]{
	Meta: Meta{
		Name: "gateway-map", Title: "Gateway map", Owner: OwnerOrganization,
		KeyField: "id", InitialLimit: model.MaxDataLimit,
	},
	Source:  func(s *store.Set) store.Source[model.Gateway] { return s.Gateways.Source() },
	Columns: gatewayColumns,
}

// Applications lists the applications of an organization.
var Applications = Entity[model.Application]{
	Meta:   Meta{Name: "applications", Title: "Applications", Owner: OwnerOrganization, KeyField: "id"},
	Source: func(s *store.Set) store.Source[model.Application] { return s.Applications.Source() },
	Columns: func(scope Scope) table.ColumnSet[model.Application] {
		return table.MustColumnSet(
			table.Column[model.Application]{Field: "id", Label: "ID"},
			table.Column[model.Application]{Field: "name", Label: "Name", Render: func(c table.Cell[model.Application]) table.Display {
				org := scope.OrganizationID
				if org == "" {
					org = c.Row.OrganizationID.String()
				}
				return table.Link(c.Row.Name, ApplicationPath(org, c.Row.ID.String()))
			}},
			table.Column[model.Application]{Field: "serviceProfileName", Label: "Service profile"},
			table.Column[model.Application]{Field: "description", Label: "Description", Render: func(c table.Cell[model.Application]) table.Display {
				return table.Text(util.TruncateWithEllipsis(c.Row.Description, 60))
			}},
		)
	},
}

// DeviceProfiles lists the device profiles of an organization.
var DeviceProfiles = Entity[model.DeviceProfile]{
	Meta:   Meta{Name: "device-profiles", Title: "Device profiles", Owner: OwnerOrganization, KeyField: "id"},
	Source: func(s *store.Set) store.Source[model.DeviceProfile] { return s.DeviceProfiles.Source() },
	Columns: func(Scope) table.ColumnSet[model.DeviceProfile] {
		return table.MustColumnSet(
			table.Column[model.DeviceProfile]{Field: "name", Label: "Name", Render: func(c table.Cell[model.DeviceProfile]) table.Display {
				return table.Link(c.Row.Name, DeviceProfilePath(c.Row.OrganizationID.String(), c.Row.ID))
			}},
			table.Column[model.DeviceProfile]{Field: "id", Label: "ID"},
			table.Column[model.DeviceProfile]{Field: "networkServerName", Label: "Network server"},
		)
	},
}

// ServiceProfiles lists the service profiles of an organization.
var ServiceProfiles = Entity[model.ServiceProfile]{
	Meta:   Meta{Name: "service-profiles", Title: "Service profiles", Owner: OwnerOrganization, KeyField: "id"},
	Source: func(s *store.Set) store.Source[model.ServiceProfile] { return s.ServiceProfiles.Source() },
	Columns: func(Scope) table.ColumnSet[model.ServiceProfile] {
		return table.MustColumnSet(
			table.Column[model.ServiceProfile]{Field: "name", Label: "Name"},
			table.Column[model.ServiceProfile]{Field: "id", Label: "ID"},
			table.Column[model.ServiceProfile]{Field: "networkServerName", Label: "Network server"},
		)
	},
}

// NetworkServers lists the network servers known to the platform.
var NetworkServers = Entity[model.NetworkServer]{
	Meta:   Meta{Name: "network-servers", Title: "Network servers", Owner: OwnerOrganization, KeyField: "id"},
	Source: func(s *store.Set) store.Source[model.NetworkServer] { return s.NetworkServers.Source() },
	Columns: func(Scope) table.ColumnSet[model.NetworkServer] {
		return table.MustColumnSet(
			table.Column[model.NetworkServer]{Field: "id", Label: "ID"},
			table.Column[model.NetworkServer]{Field: "name", Label: "Name"},
			table.Column[model.NetworkServer]{Field: "server", Label: "Server"},
		)
	},
}

// Devices lists the devices of an application.
var Devices = Entity[model.Device]{
	Meta: Meta{
		Name: "devices", Title: "Devices",
		Owner: OwnerApplication, OwnerRequired: true, KeyField: "devEUI",
	},
	Source: func(s *store.Set) store.Source[model.Device] { return s.Devices.Source() },
	Columns: func(scope Scope) table.ColumnSet[model.Device] {
		return table.MustColumnSet(
			table.Column[model.Device]{Field: "name", Label: "Name", Render: func(c table.Cell[model.Device]) table.Display {
				return table.Link(c.Row.Name, DevicePath(scope.OrganizationID, c.Row.ApplicationID.String(), c.Row.DevEUI))
			}},
			table.Column[model.Device]{Field: "devEUI", Label: "DevEUI"},
			table.Column[model.Device]{Field: "deviceProfileName", Label: "Device profile"},
			table.Column[model.Device]{Field: "lastSeenAt", Label: "Last seen", Render: at[model.Device](never)},
			table.Column[model.Device]{Field: "deviceStatusMargin", Label: "Link margin", Render: func(c table.Cell[model.Device]) table.Display {
				return table.Text(util.FormatMargin(c.Row.DeviceStatusMargin))
			}},
			table.Column[model.Device]{Field: "deviceStatusBattery", Label: "Battery", Render: func(c table.Cell[model.Device]) table.Display {
				return table.Text(util.FormatBattery(c.Row.DeviceStatusBattery))
			}},
		)
	},
}

func multicastColumns(Scope) table.ColumnSet[model.MulticastGroup] {
	return table.MustColumnSet(
		table.Column[model.MulticastGroup]{Field: "id", Label: "ID"},
		table.Column[model.MulticastGroup]{Field: "name", Label: "Name"},
		table.Column[model.MulticastGroup]{Field: "serviceProfileName", Label: "Service profile"},
	)
}

// MulticastGroups lists the multicast groups of an organization.
var MulticastGroups = Entity[model.MulticastGroup]{
	Meta:    Meta{Name: "multicast-groups", Title: "Multicast groups", Owner: OwnerOrganization, KeyField: "id"},
	Source:  func(s *store.Set) store.Source[model.MulticastGroup] { return s.MulticastGroups.Source() },
	Columns: multicastColumns,
}

// DeviceMulticastGroups lists every multicast group a device belongs to.
var DeviceMulticastGroups = Entity[model.MulticastGroup]{
	Meta: Meta{
		Name: "device-multicast-groups", Title: "Multicast groups",
		Owner: OwnerDevice, OwnerRequired: true, KeyField: "id", InitialLimit: model.MaxDataLimit,
	},
	Source:  func(s *store.Set) store.Source[model.MulticastGroup] { return s.MulticastGroups.DeviceSource() },
	Columns: multicastColumns,
}

func deploymentColumns(Scope) table.ColumnSet[model.FUOTADeployment] {
	return table.MustColumnSet(
		table.Column[model.FUOTADeployment]{Field: "id", Label: "ID"},
		table.Column[model.FUOTADeployment]{Field: "name", Label: "Name", Render: func(c table.Cell[model.FUOTADeployment]) table.Display {
			return table.Link(c.Row.Name, FUOTADevicesPath(c.Row.ID))
		}},
		table.Column[model.FUOTADeployment]{Field: "createdAt", Label: "Created", Render: at[model.FUOTADeployment]("")},
		table.Column[model.FUOTADeployment]{Field: "updatedAt", Label: "Updated", Render: at[model.FUOTADeployment]("")},
		table.Column[model.FUOTADeployment]{Field: "state", Label: "State", Render: stateBadge[model.FUOTADeployment]},
		table.Column[model.FUOTADeployment]{Field: "nextStepAfter", Label: "Next step after", Render: at[model.FUOTADeployment]("")},
	)
}

// ApplicationFUOTA lists the firmware deployments of an application.
var ApplicationFUOTA = Entity[model.FUOTADeployment]{
	Meta: Meta{
		Name: "application-fuota", Title: "Firmware updates",
		Owner: OwnerApplication, OwnerRequired: true, KeyField: "id",
	},
	Source:  func(s *store.Set) store.Source[model.FUOTADeployment] { return s.FUOTA.ApplicationSource() },
	Columns: deploymentColumns,
}

// DeviceFUOTA lists every firmware deployment targeting a device.
var DeviceFUOTA = Entity[model.FUOTADeployment]{
	Meta: Meta{
		Name: "device-fuota", Title: "Firmware updates",
		Owner: OwnerDevice, OwnerRequired: true, KeyField: "id", InitialLimit: model.MaxDataLimit,
	},
	Source:  func(s *store.Set) store.Source[model.FUOTADeployment] { return s.FUOTA.DeviceSource() },
	Columns: deploymentColumns,
}

// FUOTADevices lists the per-device progress of a deployment.
var FUOTADevices = Entity[model.FUOTADeploymentDevice]{
	Meta: Meta{
		Name: "fuota-devices", Title: "Deployment devices",
		Owner: OwnerDeployment, OwnerRequired: true, KeyField: "devEUI",
	},
	Source: func(s *store.Set) store.Source[model.FUOTADeploymentDevice] {
		return s.FUOTA.DeploymentDevicesSource()
	},
	Columns: func(Scope) table.ColumnSet[model.FUOTADeploymentDevice] {
		return table.MustColumnSet(
			table.Column[model.FUOTADeploymentDevice]{Field: "devEUI", Label: "DevEUI"},
			table.Column[model.FUOTADeploymentDevice]{Field: "deviceName", Label: "Device"},
			table.Column[model.FUOTADeploymentDevice]{Field: "state", Label: "State", Render: stateBadge[model.FUOTADeploymentDevice]},
			table.Column[model.FUOTADeploymentDevice]{Field: "errorMessage", Label: "Error message"},
			table.Column[model.FUOTADeploymentDevice]{Field: "createdAt", Label: "Created", Render: at[model.FUOTADeploymentDevice]("")},
			table.Column[model.FUOTADeploymentDevice]{Field: "updatedAt", Label: "Updated", Render: at[model.FUOTADeploymentDevice]("")},
		)
	},
}

// Staking lists the staking ledger of an organization.
var Staking = Entity[model.StakingHistory]{
	Meta: Meta{
		Name: "staking", Title: "Staking history",
		Owner: OwnerOrganization, OwnerRequired: true, KeyField: "stake.id",
	},
	Source: func(s *store.Set) store.Source[model.StakingHistory] { return s.Wallet.StakingSource() },
	Columns: func(Scope) table.ColumnSet[model.StakingHistory] {
		return table.MustColumnSet(
			table.Column[model.StakingHistory]{Field: "timestamp", Label: "Date", Render: at[model.StakingHistory]("")},
			table.Column[model.StakingHistory]{Field: "type", Label: "Type"},
			table.Column[model.StakingHistory]{Field: "amount", Label: "Amount"},
			table.Column[model.StakingHistory]{Field: "stake.id", Label: "Stake"},
			table.Column[model.StakingHistory]{Field: "stake.revenue", Label: "Revenue"},
			table.Column[model.StakingHistory]{Field: "stake.active", Label: "Active"},
		)
	},
}

// Withdrawals lists the withdrawals of an organization.
var Withdrawals = Entity[model.WithdrawHistory]{
	Meta: Meta{
		Name: "withdrawals", Title: "Withdrawals",
		Owner: OwnerOrganization, OwnerRequired: true, KeyField: "txHash",
	},
	Source: func(s *store.Set) store.Source[model.WithdrawHistory] { return s.Wallet.WithdrawSource() },
	Columns: func(Scope) table.ColumnSet[model.WithdrawHistory] {
		return table.MustColumnSet(
			table.Column[model.WithdrawHistory]{Field: "timestamp", Label: "Date requested", Render: at[model.WithdrawHistory]("")},
			table.Column[model.WithdrawHistory]{Field: "txStatus", Label: "Status", Render: stateBadge[model.WithdrawHistory]},
			table.Column[model.WithdrawHistory]{Field: "amount", Label: "Amount"},
			table.Column[model.WithdrawHistory]{Field: "withdrawFee", Label: "Fee"},
			table.Column[model.WithdrawHistory]{Field: "denyComment", Label: "Comment"},
			table.Column[model.WithdrawHistory]{Field: "txHash", Label: "Transaction"},
		)
	},
}

// TopUps lists the top-ups of an organization.
var TopUps = Entity[model.TopUpHistory]{
	Meta: Meta{
		Name: "topups", Title: "Top-ups",
		Owner: OwnerOrganization, OwnerRequired: true, KeyField: "txHash",
	},
	Source: func(s *store.Set) store.Source[model.TopUpHistory] { return s.Wallet.TopUpSource() },
	Columns: func(Scope) table.ColumnSet[model.TopUpHistory] {
		return table.MustColumnSet(
			table.Column[model.TopUpHistory]{Field: "timestamp", Label: "Date", Render: at[model.TopUpHistory]("")},
			table.Column[model.TopUpHistory]{Field: "amount", Label: "Amount"},
			table.Column[model.TopUpHistory]{Field: "txHash", Label: "Transaction"},
		)
	},
}

func init() {
	register(
		Organizations, OrganizationUsers, Users,
		Gateways, GatewayMap, Applications,
		DeviceProfiles, ServiceProfiles, NetworkServers,
		Devices, MulticastGroups, DeviceMulticastGroups,
		ApplicationFUOTA, DeviceFUOTA, FUOTADevices,
		Staking, Withdrawals, TopUps,
	)
}
