package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/mxc-foundation/lpwan-console/internal/store"
	"github.com/mxc-foundation/lpwan-console/internal/views"
)

// DashboardCount is one summary tile on the dashboard.
type DashboardCount struct {
	Label string
	Count int
	Href  string
	// Failed hides the number when the count could not be fetched.
	Failed bool
}

type countFunc func(ctx context.Context, ownerID string) (int, error)

// countOf turns a list operation into a count by fetching one row and reading TotalCount.
func countOf[T any](list store.ListFunc[T]) countFunc {
	return func(ctx context.Context, ownerID string) (int, error) {
		page, err := list(ctx, store.ListQuery{OwnerID: ownerID, Limit: 1})
		if err != nil {
			return 0, err
		}
		return page.TotalCount, nil
	}
}

type dashboardTile struct {
	label string
	href  string
	count countFunc
	owner string
}

// Index serves the home page with entity counts for the selected organization.
func (h *UIHandlers) Index(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Dashboard - LPWAN Console", PageTitle: "Dashboard", CurrentPage: PageDashboard},
		Fetch: func(ctx context.Context, data map[string]any) error {
			orgID, _ := data["OrganizationID"].(string)
			isAdmin, _ := data["IsAdmin"].(bool)
			data["Counts"] = h.dashboardCounts(ctx, h.dashboardTiles(orgID, isAdmin))
			return nil
		},
	})
}

func (h *UIHandlers) dashboardTiles(orgID string, isAdmin bool) []dashboardTile {
	if h.Stores == nil {
		return nil
	}
	s := h.Stores
	var tiles []dashboardTile
	if orgID != "" {
		org := views.OrganizationPath(orgID)
		tiles = append(tiles,
			dashboardTile{label: "Gateways", href: org + "/gateways", count: countOf(s.Gateways.List), owner: orgID},
			dashboardTile{label: "Applications", href: org + "/applications", count: countOf(s.Applications.List), owner: orgID},
			dashboardTile{label: "Device profiles", href: org + "/device-profiles", count: countOf(s.DeviceProfiles.List), owner: orgID},
			dashboardTile{label: "Multicast groups", href: org + "/multicast-groups", count: countOf(s.MulticastGroups.List), owner: orgID},
		)
	}
	if isAdmin {
		tiles = append(tiles,
			dashboardTile{label: "Organizations", href: "/organizations", count: countOf(s.Organizations.List)},
			dashboardTile{label: "Users", href: "/users", count: countOf(s.Users.List)},
			dashboardTile{label: "Network servers", href: "/network-servers", count: countOf(s.NetworkServers.List)},
		)
	}
	return tiles
}

// dashboardCounts fetches every tile concurrently. A failed tile is marked
// rather than failing the page.
func (h *UIHandlers) dashboardCounts(ctx context.Context, tiles []dashboardTile) []DashboardCount {
	out := make([]DashboardCount, len(tiles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, tile := range tiles {
		out[i] = DashboardCount{Label: tile.label, Href: tile.href}
		g.Go(func() error {
			n, err := tile.count(gctx, tile.owner)
			if err != nil {
				h.logger().WarnContext(gctx, "dashboard count failed",
					slog.String("tile", tile.label),
					slog.Any("error", err),
				)
				out[i].Failed = true
				return nil
			}
			out[i].Count = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		h.logger().WarnContext(ctx, "dashboard counts failed", slog.Any("error", err))
	}
	return out
}
