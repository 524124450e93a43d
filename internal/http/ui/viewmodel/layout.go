package viewmodel

// User is the signed-in operator as shown in the page chrome.
type User struct {
	Username string
	Role     string
}

// NavOrganization is an organization entry in the organization switcher.
type NavOrganization struct {
	ID       string
	Name     string
	Selected bool
}

// Toast is a notification rendered with a full page load.
type Toast struct {
	Type    string
	Message string
}

// Layout captures shared chrome metadata (titles, navigation state, auth flags).
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPage     string
	CSRFToken       string
	IsAuthenticated bool
	IsAdmin         bool
	User            *User
	// OrganizationID is the organization the navigation links point into.
	OrganizationID string
	Organizations  []NavOrganization
	Toasts         []Toast
}

// LayoutProvider exposes layout metadata for renderer utilities.
type LayoutProvider interface {
	LayoutData() *Layout
}
