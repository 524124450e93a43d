package views

import "net/url"

func esc(s string) string { return url.PathEscape(s) }

// OrganizationPath is the detail page of an organization.
func OrganizationPath(orgID string) string { return "/organizations/" + esc(orgID) }

// GatewayPath is the detail page of a gateway.
func GatewayPath(orgID, id string) string {
	return OrganizationPath(orgID) + "/gateways/" + esc(id)
}

// ApplicationPath is the detail page of an application.
func ApplicationPath(orgID, id string) string {
	return OrganizationPath(orgID) + "/applications/" + esc(id)
}

// DevicePath is the detail page of a device.
func DevicePath(orgID, appID, devEUI string) string {
	return ApplicationPath(orgID, appID) + "/devices/" + esc(devEUI)
}

// DeviceProfilePath is the detail page of a device profile.
func DeviceProfilePath(orgID, id string) string {
	return OrganizationPath(orgID) + "/device-profiles/" + esc(id)
}

// FUOTADevicesPath lists the devices of a FUOTA deployment.
func FUOTADevicesPath(id string) string { return "/fuota-deployments/" + esc(id) + "/devices" }
