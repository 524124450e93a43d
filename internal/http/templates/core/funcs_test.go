package core

import (
	"bytes"
	"html/template"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1,234,567", formatNumber(1234567))
	assert.Equal(t, "-1,000", formatNumber(int64(-1000)))
	assert.Equal(t, "12", formatNumber(int32(12)))
	assert.Equal(t, "1.5", formatNumber(1.5))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "gate…", TruncateText("gateway-01", 5))
	assert.Equal(t, "gateway-01", TruncateText("gateway-01", 0))
	assert.Equal(t, "gateway-01", TruncateText("gateway-01", "5"))
	assert.Equal(t, "gateway-01", TruncateText("gateway-01", 64.0))
}

func TestBadgeClass(t *testing.T) {
	assert.Equal(t, "badge badge-success", BadgeClass("success"))
	assert.Equal(t, "badge badge-light", BadgeClass("pending"))
	assert.Empty(t, BadgeClass(""))
}

func TestDict(t *testing.T) {
	m, err := dict("Table", 1, "Swap", "outerHTML")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Table": 1, "Swap": "outerHTML"}, m)

	_, err = dict("odd")
	require.Error(t, err)
	_, err = dict(1, 2)
	require.Error(t, err)
}

func TestTimeHelpers(t *testing.T) {
	ts := time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC)
	assert.Empty(t, friendlyTime(nil))
	assert.Empty(t, friendlyTime((*time.Time)(nil)))
	assert.NotEmpty(t, friendlyTime(&ts))

	tag := string(timeTag(ts))
	assert.Contains(t, tag, `datetime="2024-03-05T14:07:00Z"`)
	assert.Empty(t, timeTag(time.Time{}))
}

func TestRenderSection(t *testing.T) {
	var tmpl *template.Template
	funcs := Funcs(Deps{
		Template:           &tmpl,
		ContentTemplateFor: func(page string) string { return page + "-content" },
		Now:                func() time.Time { return time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC) },
	})
	tmpl = template.Must(template.New("root").Funcs(funcs).Parse(
		`{{define "users-content"}}<p>{{.Name}}</p>{{end}}` +
			`{{define "page"}}<main>{{renderSection "users" .}}</main>{{end}}`,
	))

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "page", map[string]string{"Name": "<admin>"}))
	assert.Equal(t, "<main><p>&lt;admin&gt;</p></main>", buf.String())
}
