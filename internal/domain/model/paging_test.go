package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errorsx "github.com/mxc-foundation/lpwan-console/internal/errors"
)

func TestNewPagingState_OffsetMath(t *testing.T) {
	for page := 1; page <= 25; page++ {
		for _, size := range []int{1, 2, 5, 10, 25, 50, 100, MaxDataLimit} {
			st, err := NewPagingState(page, size, "")
			require.NoError(t, err)
			assert.Equal(t, (page-1)*size, st.Offset, "page=%d size=%d", page, size)
			assert.Equal(t, size, st.Limit())
		}
	}
}

func TestNewPagingState_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
		field    string
	}{
		{"zero page", 0, 10, "page"},
		{"negative page", -3, 10, "page"},
		{"zero page size", 1, 0, "page_size"},
		{"negative page size", 2, -1, "page_size"},
		{"offset past bound", MaxOffset/100 + 2, 100, "page"},
		{"offset overflows int", math.MaxInt / 50, 100, "page"},
		{"max int page", math.MaxInt, 1, "page"},
		{"max int page and size", math.MaxInt, math.MaxInt, "page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPagingState(tt.page, tt.pageSize, "")
			require.Error(t, err)
			assert.True(t, errorsx.IsValidation(err))
			assert.Equal(t, tt.field, errorsx.GetField(err))
		})
	}
}

func TestNewPagingState_LastPageInRange(t *testing.T) {
	for _, size := range []int{1, 10, 100, MaxDataLimit} {
		page := MaxOffset/size + 1
		st, err := NewPagingState(page, size, "")
		require.NoError(t, err, "size=%d", size)
		assert.Equal(t, (page-1)*size, st.Offset)
		assert.GreaterOrEqual(t, st.Offset, 0)
		assert.LessOrEqual(t, st.Offset, MaxOffset)
	}
}

func TestPagingState_WithSearchResetsToFirstPage(t *testing.T) {
	st, err := NewPagingState(4, 10, "")
	require.NoError(t, err)

	st = st.WithSearch("  gw-01 ")
	assert.Equal(t, 1, st.Page)
	assert.Equal(t, 0, st.Offset)
	assert.Equal(t, 10, st.PageSize)
	assert.Equal(t, "gw-01", st.SearchText)
}

func TestDefaultPagingState(t *testing.T) {
	st := DefaultPagingState()
	assert.Equal(t, PagingState{Page: 1, PageSize: DefaultPageSize}, st)
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{45, 10, 5},
		{40, 10, 4},
		{1, 10, 1},
		{0, 10, 0},
		{10, 0, 0},
		{-1, 10, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.total, tt.size), "total=%d size=%d", tt.total, tt.size)
	}
}

func TestInt64String_Decode(t *testing.T) {
	var body struct {
		TotalCount Int64String `json:"totalCount"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"totalCount":"45"}`), &body))
	assert.Equal(t, 45, body.TotalCount.Int())

	require.NoError(t, json.Unmarshal([]byte(`{"totalCount":12}`), &body))
	assert.Equal(t, 12, body.TotalCount.Int())

	require.NoError(t, json.Unmarshal([]byte(`{"totalCount":null}`), &body))
	assert.Equal(t, 0, body.TotalCount.Int())

	require.NoError(t, json.Unmarshal([]byte(`{"totalCount":""}`), &body))
	assert.Equal(t, 0, body.TotalCount.Int())

	assert.Error(t, json.Unmarshal([]byte(`{"totalCount":"many"}`), &body))
}

func TestInt64String_Encode(t *testing.T) {
	b, err := json.Marshal(Organization{ID: 7, Name: "acme"})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"id":"7"`)
}
