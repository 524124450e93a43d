package table

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mxc-foundation/lpwan-console/internal/domain/model"
)

func paging(t *testing.T, page, size int) model.PagingState {
	t.Helper()
	p, err := model.NewPagingState(page, size, "")
	require.NoError(t, err)
	return p
}

func gatewayColumns() ColumnSet[model.Gateway] {
	return MustColumnSet(
		Column[model.Gateway]{
			Field: "name",
			Label: "Name",
			Render: func(c Cell[model.Gateway]) Display {
				return Link(c.Row.Name, fmt.Sprintf("%s/%s", c.Extra, c.Row.ID))
			},
			Extra: "/organizations/7/gateways",
		},
		Column[model.Gateway]{Field: "id", Label: "Gateway ID"},
		Column[model.Gateway]{Field: "location.latitude", Label: "Latitude"},
		Column[model.Gateway]{Field: "lastSeenAt", Label: "Last seen"},
	)
}

func TestRender_RowCountMatchesRows(t *testing.T) {
	cols := gatewayColumns()
	for _, n := range []int{0, 1, 7} {
		for _, total := range []int{0, n, 1000} {
			t.Run(fmt.Sprintf("rows=%d/total=%d", n, total), func(t *testing.T) {
				rows := make([]model.Gateway, n)
				for i := range rows {
					rows[i] = model.Gateway{ID: fmt.Sprintf("%016x", i), Name: fmt.Sprintf("gw-%d", i)}
				}
				v := Render(rows, cols, paging(t, 1, 10), total)
				assert.Len(t, v.Rows, n)
				assert.Len(t, v.Headers, cols.Len())
				assert.Equal(t, n == 0, v.Empty())
			})
		}
	}
}

func TestRender_EmptyRowsKeepHeaders(t *testing.T) {
	v := Render([]model.Gateway{}, gatewayColumns(), paging(t, 1, 10), 0)
	require.Len(t, v.Headers, 4)
	assert.Equal(t, "Name", v.Headers[0].Label)
	assert.Empty(t, v.Rows)
	assert.Zero(t, v.Pager.Start)
	assert.Zero(t, v.Pager.End)
}

func TestPager_ZeroTotalDisablesNext(t *testing.T) {
	for _, page := range []int{1, 2, 5} {
		p := NewPager(paging(t, page, 10), 0, 0)
		assert.False(t, p.HasNext, "page %d", page)
		assert.Zero(t, p.TotalPages)
		assert.Empty(t, p.Pages)
	}
}

func TestPager_TrustsTotalCount(t *testing.T) {
	p := NewPager(paging(t, 3, 10), 45, 10)
	assert.Equal(t, 5, p.TotalPages)
	assert.True(t, p.HasPrev)
	assert.True(t, p.HasNext)
	assert.Equal(t, 21, p.Start)
	assert.Equal(t, 30, p.End)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, p.Pages)
	assert.Equal(t, 2, p.PrevPage())
	assert.Equal(t, 4, p.NextPage())

	// A count inconsistent with the rows is not reconciled.
	stale := NewPager(paging(t, 1, 10), 100, 2)
	assert.True(t, stale.HasNext)
	assert.Equal(t, 10, stale.TotalPages)

	last := NewPager(paging(t, 5, 10), 45, 5)
	assert.False(t, last.HasNext)
	assert.Equal(t, 45, last.End)
}

func TestPager_Window(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, NewPager(paging(t, 1, 10), 500, 10).Pages)
	assert.Equal(t, []int{7, 8, 9, 10, 11, 12, 13}, NewPager(paging(t, 10, 10), 500, 10).Pages)
	assert.Equal(t, []int{44, 45, 46, 47, 48, 49, 50}, NewPager(paging(t, 50, 10), 500, 10).Pages)
}

type plain struct {
	S    string  `json:"s"`
	N    int     `json:"n"`
	F    float64 `json:"f"`
	B    bool    `json:"b"`
	Skip string  `json:"-"`
}

func TestRender_NoRenderShowsRawValue(t *testing.T) {
	cols := MustColumnSet(
		Column[plain]{Field: "s"},
		Column[plain]{Field: "n"},
		Column[plain]{Field: "f"},
		Column[plain]{Field: "b"},
	)
	v := Render([]plain{{S: "hello", N: 42, F: 1.5, B: true}}, cols, paging(t, 1, 10), 1)

	require.Len(t, v.Rows, 1)
	cells := v.Rows[0]
	assert.Equal(t, "hello", cells[0].Text)
	assert.Equal(t, "hello", cells[0].Raw)
	assert.Equal(t, "42", cells[1].Text)
	assert.Equal(t, 42, cells[1].Raw)
	assert.Equal(t, "1.5", cells[2].Text)
	assert.Equal(t, "true", cells[3].Text)
	assert.Equal(t, true, cells[3].Raw)
	assert.Equal(t, "s", v.Headers[0].Label, "label defaults to field")
}

func TestRender_MapRows(t *testing.T) {
	cols := MustColumnSet(
		Column[model.Row]{Field: "name"},
		Column[model.Row]{Field: "stake.amount"},
		Column[model.Row]{Field: "missing"},
	)
	rows := []model.Row{{"name": "a", "stake": map[string]any{"amount": "12.5"}}}
	v := Render(rows, cols, paging(t, 1, 10), 1)

	assert.Equal(t, "a", v.Rows[0][0].Text)
	assert.Equal(t, "12.5", v.Rows[0][1].Text)
	assert.Equal(t, "", v.Rows[0][2].Text)
	assert.Nil(t, v.Rows[0][2].Raw)
}

func TestRender_JSONNumbersKeepPlainForm(t *testing.T) {
	var row model.Row
	require.NoError(t, json.Unmarshal([]byte(`{"count":1234567,"big":123456789012,"ratio":0.000125,"neg":-2500000}`), &row))

	cols := MustColumnSet(
		Column[model.Row]{Field: "count"},
		Column[model.Row]{Field: "big"},
		Column[model.Row]{Field: "ratio"},
		Column[model.Row]{Field: "neg"},
	)
	v := Render([]model.Row{row}, cols, paging(t, 1, 10), 1)

	require.Len(t, v.Rows, 1)
	assert.Equal(t, "1234567", v.Rows[0][0].Text)
	assert.Equal(t, "123456789012", v.Rows[0][1].Text)
	assert.Equal(t, "0.000125", v.Rows[0][2].Text)
	assert.Equal(t, "-2500000", v.Rows[0][3].Text)
}

func TestFormatValue_Floats(t *testing.T) {
	assert.Equal(t, "1000000", FormatValue(1e6))
	assert.Equal(t, "1.5", FormatValue(1.5))
	assert.Equal(t, "2.25", FormatValue(float32(2.25)))
	assert.Equal(t, "0", FormatValue(0.0))
}

func TestRender_CallsRenderWithCellContext(t *testing.T) {
	seen := ""
	cols := MustColumnSet(Column[plain]{
		Field: "n",
		Extra: "x",
		Render: func(c Cell[plain]) Display {
			seen += fmt.Sprintf("%d:%v:%v;", c.Index, c.Value, c.Extra)
			return Display{Text: c.Row.S, Badge: "success"}
		},
	})
	rows := []plain{{S: "a", N: 1}, {S: "b", N: 2}}
	before := append([]plain(nil), rows...)

	v := Render(rows, cols, paging(t, 1, 10), 2)
	assert.Equal(t, "0:1:x;1:2:x;", seen)
	assert.Equal(t, "b", v.Rows[1][0].Text)
	assert.Equal(t, "success", v.Rows[1][0].Badge)
	assert.Equal(t, before, rows)
}

func TestRender_StructValues(t *testing.T) {
	seen := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	gw := model.Gateway{
		ID:         "0102030405060708",
		Name:       "gw",
		Location:   model.Location{Latitude: 52.25, Longitude: 4.5},
		LastSeenAt: &seen,
	}
	v := Render([]model.Gateway{gw, {ID: "x"}}, gatewayColumns(), paging(t, 1, 10), 2)

	assert.Equal(t, Display{Text: "gw", Href: "/organizations/7/gateways/0102030405060708"}, v.Rows[0][0].Display)
	assert.Equal(t, "52.25", v.Rows[0][2].Text)
	assert.Equal(t, "2024-05-06T07:08:09Z", v.Rows[0][3].Text)
	assert.Equal(t, "", v.Rows[1][3].Text, "nil timestamps render blank")
}

func TestRender_Int64StringField(t *testing.T) {
	cols := MustColumnSet(Column[model.Organization]{Field: "id"})
	v := Render([]model.Organization{{ID: 7}}, cols, paging(t, 1, 10), 1)
	assert.Equal(t, "7", v.Rows[0][0].Text)
}

func TestNewColumnSet_Validation(t *testing.T) {
	tests := []struct {
		name string
		cols []Column[plain]
	}{
		{name: "none"},
		{name: "empty field", cols: []Column[plain]{{Field: " "}}},
		{name: "duplicate", cols: []Column[plain]{{Field: "s"}, {Field: "s"}}},
		{name: "bad path", cols: []Column[plain]{{Field: "a.[b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewColumnSet(tt.cols...)
			assert.Error(t, err)
		})
	}

	assert.Panics(t, func() { MustColumnSet[plain]() })
}

func TestWriteCSV(t *testing.T) {
	cols := MustColumnSet(Column[plain]{Field: "s", Label: "Name"}, Column[plain]{Field: "n", Label: "Count"})
	v := Render([]plain{{S: "a,b", N: 1}, {S: "c", N: 2}}, cols, paging(t, 1, 10), 2)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, v))
	assert.Equal(t, "Name,Count\n\"a,b\",1\nc,2\n", buf.String())
}

func TestWriteText(t *testing.T) {
	cols := MustColumnSet(Column[plain]{Field: "s", Label: "Name"}, Column[plain]{Field: "n", Label: "Count"})
	v := Render([]plain{{S: "网关", N: 1}, {S: "multi\nline", N: 22}}, cols, paging(t, 3, 10), 45)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, v))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Name        Count", lines[0])
	assert.Equal(t, "----------  -----", lines[1])
	assert.Equal(t, "网关        1", lines[2])
	assert.Equal(t, "multi line  22", lines[3])
	assert.Equal(t, "rows 21-22 of 45, page 3/5", lines[4])
}

func TestWriteText_Empty(t *testing.T) {
	cols := MustColumnSet(Column[plain]{Field: "s", Label: "Name"})
	v := Render([]plain{}, cols, paging(t, 1, 10), 0)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, v))
	assert.Equal(t, "Name\n----\nno rows\n", buf.String())
}
