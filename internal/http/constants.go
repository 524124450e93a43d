package httpx

// CurrentPage constants identify pages for navigation state and content templates.
const (
	PageDashboard = "dashboard"

	PageOrganizations     = "organizations"
	PageOrganization      = "organization"      // detail view
	PageOrganizationForm  = "organization-form" // create/edit form
	PageOrganizationUsers = "organization-users"
	PageUsers             = "users"

	PageGateways   = "gateways"
	PageGateway    = "gateway"
	PageGatewayMap = "gateway-map"

	PageApplications = "applications"
	PageApplication  = "application"
	PageDevices      = "devices"
	PageDevice       = "device"

	PageDeviceProfiles = "device-profiles"
	PageDeviceProfile  = "device-profile"
	PageServiceProfile = "service-profiles"
	PageNetworkServers = "network-servers"

	PageMulticastGroups = "multicast-groups"
	PageFUOTA           = "fuota-deployments"
	PageFUOTADevices    = "fuota-devices"
	PageFUOTADeployment = "fuota-deployment"

	PageStaking     = "staking"
	PageWithdrawals = "withdrawals"
	PageTopUps      = "topups"
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

// FormMode represents the mode of a form (create or edit).
type FormMode string

const (
	FormModeEdit   FormMode = "edit"
	FormModeCreate FormMode = "create"
)

// listContent renders any remote table page.
const listContent = "list-content"

//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	PageDashboard:         "dashboard-content",
	PageOrganizations:     listContent,
	PageOrganization:      "organization-content",
	PageOrganizationForm:  "organization-form-content",
	PageOrganizationUsers: listContent,
	PageUsers:             listContent,
	PageGateways:          listContent,
	PageGateway:           "detail-content",
	PageGatewayMap:        listContent,
	PageApplications:      listContent,
	PageApplication:       "detail-content",
	PageDevices:           listContent,
	PageDevice:            "detail-content",
	PageDeviceProfiles:    listContent,
	PageDeviceProfile:     "detail-content",
	PageServiceProfile:    listContent,
	PageNetworkServers:    listContent,
	PageMulticastGroups:   listContent,
	PageFUOTA:             listContent,
	PageFUOTADevices:      listContent,
	PageFUOTADeployment:   "detail-content",
	PageStaking:           listContent,
	PageWithdrawals:       listContent,
	PageTopUps:            listContent,
}

// ContentTemplateFor maps a page to the template rendering its main section.
func ContentTemplateFor(page string) string {
	if t, ok := contentTemplates[page]; ok {
		return t
	}
	return "dashboard-content"
}
