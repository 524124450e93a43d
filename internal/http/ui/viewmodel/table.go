package viewmodel

import "github.com/mxc-foundation/lpwan-console/internal/table"

// PageLink is one numbered pager link.
type PageLink struct {
	Page    int
	URL     string
	Current bool
}

// Table is a remote table region: the rendered rows plus everything the
// template needs to request the next position.
type Table struct {
	// ID is the DOM id of the swap target, always prefixed "table-".
	ID    string
	View  string
	Title string
	// BasePath is the list URL without query.
	BasePath   string
	Searchable bool
	SearchText string
	Rows       table.View
	PrevURL    string
	NextURL    string
	Pages      []PageLink
	PageSizes  []int
	CSVURL     string
	// Error is the message of a failed fetch; the previous rows stay visible.
	Error string
	// CreateURL, when set, shows a create button above the table.
	CreateURL string
}

// DetailField is one labelled value on a detail page.
type DetailField struct {
	Label string
	Value string
	Href  string
}

// Detail is a read-only entity page with optional related tables.
type Detail struct {
	Heading   string
	Fields    []DetailField
	DeleteURL string
	// DeleteConfirm is the confirmation prompt of the delete button.
	DeleteConfirm string
	Tables        []Table
	Links         []DetailField
}
