package httpx

import (
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/mxc-foundation/lpwan-console/internal/domain/model"
	errorsx "github.com/mxc-foundation/lpwan-console/internal/errors"
	"github.com/mxc-foundation/lpwan-console/internal/listing"
	"github.com/mxc-foundation/lpwan-console/internal/views"
)

var (
	devEUIPattern  = regexp.MustCompile(`^[0-9a-fA-F]{16}$`)
	numericPattern = regexp.MustCompile(`^[0-9]{1,19}$`)
)

// pageSizeOptions are the sizes offered by the page size selector.
var pageSizeOptions = []int{10, 25, 50, 100} //nolint:gochecknoglobals // read-only

// validDevEUI reports whether s is a 64-bit EUI in hex.
func validDevEUI(s string) bool { return devEUIPattern.MatchString(s) }

// validNumericID reports whether s is an upstream int64 identifier.
func validNumericID(s string) bool { return numericPattern.MatchString(s) }

// validUUID reports whether s is a canonical UUID.
func validUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil && len(s) == 36
}

// tableChange is a table position parsed from a list request.
type tableChange struct {
	Kind   listing.ChangeType
	Change listing.TableChange
	// Present is false when the request carried no paging parameters.
	Present bool
}

// parseTableChange reads page, page_size, search and change from q. Missing
// page and page_size fall back to current; malformed values are rejected.
func parseTableChange(q url.Values, current model.PagingState) (tableChange, error) {
	out := tableChange{
		Kind: listing.ParseChangeType(q.Get("change")),
		Change: listing.TableChange{
			Page:       current.Page,
			PageSize:   current.PageSize,
			SearchText: strings.TrimSpace(q.Get("search")),
		},
	}
	_, hasSearch := q["search"]
	out.Present = q.Has("page") || q.Has("page_size") || hasSearch || q.Has("change")

	if v := strings.TrimSpace(q.Get("page")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return tableChange{}, errorsx.ValidationField("page", "page must be a number")
		}
		out.Change.Page = n
	}
	if v := strings.TrimSpace(q.Get("page_size")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return tableChange{}, errorsx.ValidationField("page_size", "page size must be a number")
		}
		if n > model.MaxPageSize {
			return tableChange{}, errorsx.ValidationField("page_size",
				"page size cannot exceed "+strconv.Itoa(model.MaxPageSize))
		}
		out.Change.PageSize = n
	}
	if hasSearch && out.Kind == listing.ChangePagination && out.Change.SearchText != current.SearchText {
		out.Kind = listing.ChangeSearch
	}
	return out, nil
}

// scopeFromRequest collects the owner identifiers from the route.
func scopeFromRequest(r *http.Request) views.Scope {
	return views.Scope{
		OrganizationID: r.PathValue("orgID"),
		ApplicationID:  r.PathValue("appID"),
		DevEUI:         r.PathValue("devEUI"),
		DeploymentID:   r.PathValue("deploymentID"),
	}
}

// validScope rejects malformed path identifiers before anything reaches the upstream.
func validScope(s views.Scope) bool {
	switch {
	case s.OrganizationID != "" && !validNumericID(s.OrganizationID):
		return false
	case s.ApplicationID != "" && !validNumericID(s.ApplicationID):
		return false
	case s.DevEUI != "" && !validDevEUI(s.DevEUI):
		return false
	case s.DeploymentID != "" && !validUUID(s.DeploymentID):
		return false
	}
	return true
}
