package views

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mxc-foundation/lpwan-console/internal/domain/model"
	"github.com/mxc-foundation/lpwan-console/internal/listing"
	"github.com/mxc-foundation/lpwan-console/internal/mocks"
	"github.com/mxc-foundation/lpwan-console/internal/store"
	"github.com/mxc-foundation/lpwan-console/internal/table"
)

func decodeInto(body string) func(context.Context, string, url.Values, any) error {
	return func(_ context.Context, _ string, _ url.Values, out any) error {
		return json.Unmarshal([]byte(body), out)
	}
}

func newSet(t *testing.T) (*store.Set, *mocks.MockBackend) {
	t.Helper()
	backend := mocks.NewMockBackend(gomock.NewController(t))
	set, err := store.NewSet(store.Options{Backend: backend})
	require.NoError(t, err)
	return set, backend
}

func TestCatalog_EveryViewBuildsColumns(t *testing.T) {
	names := Names()
	require.NotEmpty(t, names)
	for _, name := range names {
		def, ok := Lookup(name)
		require.True(t, ok, name)
		meta := def.Describe()
		assert.Equal(t, name, meta.Name)
		assert.NotEmpty(t, meta.Title, name)
		assert.NotEmpty(t, meta.KeyField, name)
	}

	_, ok := Lookup("nope")
	assert.False(t, ok)
}

func TestScope_OwnerID(t *testing.T) {
	s := Scope{OrganizationID: "1", ApplicationID: "2", DevEUI: "0102030405060708", DeploymentID: "d"}
	assert.Equal(t, "", s.OwnerID(OwnerNone))
	assert.Equal(t, "1", s.OwnerID(OwnerOrganization))
	assert.Equal(t, "2", s.OwnerID(OwnerApplication))
	assert.Equal(t, "0102030405060708", s.OwnerID(OwnerDevice))
	assert.Equal(t, "d", s.OwnerID(OwnerDeployment))
}

func TestBind_RequiresOwner(t *testing.T) {
	set, _ := newSet(t)
	_, err := Devices.Bind(set, Scope{OrganizationID: "1"}, listing.Options{})
	assert.ErrorContains(t, err, "requires application id")

	_, err = Gateways.Bind(set, Scope{}, listing.Options{})
	assert.NoError(t, err, "gateways may be listed platform-wide")
}

func TestBind_MountAndChange(t *testing.T) {
	set, backend := newSet(t)
	var seen []url.Values
	backend.EXPECT().
		GetJSON(gomock.Any(), "/api/devices", gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, p string, q url.Values, out any) error {
			seen = append(seen, q)
			return decodeInto(`{"totalCount":"12","result":[
				{"devEUI":"0102030405060708","name":"meter","applicationID":"5","deviceStatusBattery":254,"deviceStatusMargin":7}
			]}`)(ctx, p, q, out)
		}).Times(2)

	b, err := Devices.Bind(set, Scope{OrganizationID: "3", ApplicationID: "5"}, listing.Options{})
	require.NoError(t, err)
	assert.True(t, b.Searchable())
	assert.Equal(t, "devices", b.Meta().Name)

	res := b.Mount(context.Background())
	require.NoError(t, res.Err)
	require.Len(t, res.View.Rows, 1)
	assert.Equal(t, 12, res.View.Pager.TotalCount)
	assert.True(t, res.View.Pager.HasNext)

	name := res.View.Rows[0][0]
	assert.Equal(t, "meter", name.Text)
	assert.Equal(t, "/organizations/3/applications/5/devices/0102030405060708", name.Href)
	assert.Equal(t, "Never", res.View.Rows[0][3].Text)
	assert.Equal(t, "7 dB", res.View.Rows[0][4].Text)
	assert.Equal(t, "100%", res.View.Rows[0][5].Text)

	res = b.Change(context.Background(), listing.ChangePagination, listing.TableChange{Page: 2, PageSize: 10})
	require.NoError(t, res.Err)
	assert.Equal(t, 2, res.View.Pager.Page)
	require.Len(t, seen, 2)
	assert.Equal(t, "5", seen[1].Get("applicationID"))
	assert.Equal(t, "10", seen[1].Get("offset"))
}

func TestGatewayMap_FetchesEverything(t *testing.T) {
	set, backend := newSet(t)
	backend.EXPECT().
		GetJSON(gomock.Any(), "/api/gateways", gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, p string, q url.Values, out any) error {
			assert.Equal(t, "999", q.Get("limit"))
			assert.Equal(t, "7", q.Get("organizationID"))
			return decodeInto(`{"totalCount":"1","result":[{"id":"aa","name":"gw","organizationID":"7","location":{"latitude":1.5,"longitude":2.25}}]}`)(ctx, p, q, out)
		})

	b, err := GatewayMap.Bind(set, Scope{OrganizationID: "7"}, listing.Options{})
	require.NoError(t, err)
	res := b.Mount(context.Background())
	require.NoError(t, res.Err)
	row := res.View.Rows[0]
	assert.Equal(t, "/organizations/7/gateways/aa", row[0].Href)
	assert.Equal(t, "1.5", row[4].Text, "nested fields are read by path")
	assert.Equal(t, "2.25", row[5].Text)
}

func TestColumns_RawValuesWithoutRenderer(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := []model.Organization{{ID: 4, Name: "acme", DisplayName: "ACME", CanHaveGateways: true, CreatedAt: &created}}
	cols := Organizations.Columns(Scope{})
	snap := listing.Snapshot[model.Organization]{
		Paging: model.DefaultPagingState(),
		Page:   model.Page[model.Organization]{Rows: rows, TotalCount: 1},
	}
	view := Organizations.Render(snap, Scope{})
	require.Equal(t, cols.Len(), len(view.Headers))
	assert.Equal(t, "4", view.Rows[0][0].Text)
	assert.Equal(t, "/organizations/4", view.Rows[0][1].Href)
	assert.Equal(t, "true", view.Rows[0][3].Text)
	assert.Equal(t, true, view.Rows[0][3].Raw)
}

func TestStateBadge(t *testing.T) {
	cell := func(s string) string {
		return stateBadge(tableCell(s)).Badge
	}
	assert.Equal(t, "success", cell("DONE"))
	assert.Equal(t, "success", cell("SUCCESSFUL"))
	assert.Equal(t, "danger", cell("ERROR"))
	assert.Equal(t, "danger", cell("DENIED"))
	assert.Equal(t, "info", cell("MC_SETUP"))
	assert.Equal(t, "", cell(""))
}

func tableCell(s string) table.Cell[model.FUOTADeployment] {
	return table.Cell[model.FUOTADeployment]{Value: s}
}
