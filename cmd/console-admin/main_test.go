package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mxc-foundation/lpwan-console/internal/testutil"
)

func gatewayRow(i int) map[string]any {
	return map[string]any{
		"id":                fmt.Sprintf("%016x", i),
		"name":              fmt.Sprintf("gw-%d", i),
		"organizationID":    "1",
		"networkServerName": "ns-eu",
	}
}

// execute runs the CLI with args and returns stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestList_PrintsRequestedPage(t *testing.T) {
	stub := testutil.NewUpstreamStub(t).
		Handle(http.MethodGet, "/api/gateways", http.StatusOK, testutil.ListBody(45, 10, gatewayRow))

	out, _, err := execute(t, "", "--base-url", stub.URL, "--token", "jwt",
		"list", "gateways", "--org", "1", "--page", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "Gateway ID")
	assert.Contains(t, out, "gw-9")
	assert.Contains(t, out, "rows 21-30 of 45, page 3/5")

	reqs := stub.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Bearer jwt", reqs[0].Authorization)
	q, err := url.ParseQuery(reqs[0].RawQuery)
	require.NoError(t, err)
	assert.Equal(t, "10", q.Get("limit"))
	assert.Equal(t, "20", q.Get("offset"))
	assert.Equal(t, "1", q.Get("organizationID"))
}

func TestList_ForwardsSearch(t *testing.T) {
	stub := testutil.NewUpstreamStub(t).
		Handle(http.MethodGet, "/api/gateways", http.StatusOK, testutil.ListBody(1, 1, gatewayRow))

	_, _, err := execute(t, "", "--base-url", stub.URL,
		"list", "gateways", "--search", "roof", "--page-size", "25")
	require.NoError(t, err)

	reqs := stub.Requests()
	require.Len(t, reqs, 1)
	q, err := url.ParseQuery(reqs[0].RawQuery)
	require.NoError(t, err)
	assert.Equal(t, "roof", q.Get("search"))
	assert.Equal(t, "25", q.Get("limit"))
	assert.Equal(t, "0", q.Get("offset"))
}

func TestList_SinglePageViewUsesItsOwnPageSize(t *testing.T) {
	stub := testutil.NewUpstreamStub(t).
		Handle(http.MethodGet, "/api/gateways", http.StatusOK, testutil.ListBody(45, 45, gatewayRow))

	out, _, err := execute(t, "", "--base-url", stub.URL, "list", "gateway-map", "--org", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "rows 1-45 of 45, page 1/1")

	reqs := stub.Requests()
	require.Len(t, reqs, 1)
	q, err := url.ParseQuery(reqs[0].RawQuery)
	require.NoError(t, err)
	assert.Equal(t, "999", q.Get("limit"))
	assert.Equal(t, "0", q.Get("offset"))
}

func TestList_CSV(t *testing.T) {
	stub := testutil.NewUpstreamStub(t).
		Handle(http.MethodGet, "/api/gateways", http.StatusOK, testutil.ListBody(2, 2, gatewayRow))

	out, _, err := execute(t, "", "--base-url", stub.URL, "list", "gateways", "-o", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Name,Gateway ID,"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "gw-0,0000000000000000,"), lines[1])
}

func TestList_EmptyView(t *testing.T) {
	stub := testutil.NewUpstreamStub(t).
		Handle(http.MethodGet, "/api/gateways", http.StatusOK, `{"totalCount":"0","result":[]}`)

	out, _, err := execute(t, "", "--base-url", stub.URL, "list", "gateways")
	require.NoError(t, err)
	assert.Contains(t, out, "no rows")
}

func TestList_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "unknown view", args: []string{"list", "towers"}, wantErr: "unknown view"},
		{name: "missing owner", args: []string{"list", "devices"}, wantErr: "requires"},
		{name: "bad page", args: []string{"list", "gateways", "--page", "0"}, wantErr: "page must be at least 1"},
		{name: "bad format", args: []string{"list", "gateways", "-o", "xml"}, wantErr: "unsupported format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := testutil.NewUpstreamStub(t)

			_, _, err := execute(t, "", append([]string{"--base-url", stub.URL}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Empty(t, stub.Requests())
		})
	}
}

func TestList_UpstreamFailure(t *testing.T) {
	stub := testutil.NewUpstreamStub(t)

	_, _, err := execute(t, "", "--base-url", stub.URL, "list", "organizations")
	require.Error(t, err)
	assert.Len(t, stub.Requests(), 1)
}

func TestViewsCommand(t *testing.T) {
	out, _, err := execute(t, "", "views")
	require.NoError(t, err)

	assert.Contains(t, out, "VIEW")
	assert.Contains(t, out, "gateways")
	assert.Contains(t, out, "application (required)")
	assert.Contains(t, out, "fuota-devices")
}

func TestLogin_PasswordStdin(t *testing.T) {
	stub := testutil.NewUpstreamStub(t).
		Handle(http.MethodPost, "/api/internal/login", http.StatusOK, `{"jwt":"tok-1"}`)

	out, errOut, err := execute(t, "s3cret\n", "--base-url", stub.URL,
		"login", "-u", "admin", "--password-stdin")
	require.NoError(t, err)

	assert.Equal(t, "tok-1\n", out)
	assert.NotContains(t, errOut, "Password")
	reqs := stub.Requests()
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{"username":"admin","password":"s3cret"}`, reqs[0].Body)
}

func TestLogin_Prompts(t *testing.T) {
	stub := testutil.NewUpstreamStub(t).
		Handle(http.MethodPost, "/api/internal/login", http.StatusOK, `{"jwt":"tok-2"}`)

	out, errOut, err := execute(t, "admin\nsecret\n", "--base-url", stub.URL, "login")
	require.NoError(t, err)

	assert.Equal(t, "tok-2\n", out)
	assert.Contains(t, errOut, "Username: ")
	assert.Contains(t, errOut, "Password: ")
}

func TestLogin_Errors(t *testing.T) {
	t.Run("username required with stdin password", func(t *testing.T) {
		stub := testutil.NewUpstreamStub(t)
		_, _, err := execute(t, "pw\n", "--base-url", stub.URL, "login", "--password-stdin")
		require.Error(t, err)
		assert.Empty(t, stub.Requests())
	})

	t.Run("rejected credentials", func(t *testing.T) {
		stub := testutil.NewUpstreamStub(t).
			Handle(http.MethodPost, "/api/internal/login", http.StatusUnauthorized,
				`{"error":"authentication failed","code":16,"message":"authentication failed"}`)
		out, _, err := execute(t, "pw\n", "--base-url", stub.URL, "login", "-u", "admin", "--password-stdin")
		require.Error(t, err)
		assert.Empty(t, out)
	})
}
