package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errorsx "github.com/mxc-foundation/lpwan-console/internal/errors"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Config{
		BaseURL:      srv.URL,
		Timeout:      2 * time.Second,
		RetryMax:     2,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 2 * time.Millisecond,
	})
	require.NoError(t, err)
	return c
}

func TestNew_RejectsNonHTTPBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: "ftp://example.com"})
	assert.Error(t, err)
}

func TestGetJSON_SendsQueryAndToken(t *testing.T) {
	var gotAuth, gotQuery, gotPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get(AuthHeader)
		gotQuery = r.URL.RawQuery
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"totalCount":"2","result":[{"id":"1"},{"id":"2"}]}`))
	}))

	ctx := WithToken(context.Background(), "jwt-123")
	var out struct {
		TotalCount string           `json:"totalCount"`
		Result     []map[string]any `json:"result"`
	}
	err := c.GetJSON(ctx, "/api/gateways", url.Values{"limit": {"10"}, "offset": {"20"}}, &out)
	require.NoError(t, err)

	assert.Equal(t, "Bearer jwt-123", gotAuth)
	assert.Equal(t, "/api/gateways", gotPath)
	assert.Equal(t, "limit=10&offset=20", gotQuery)
	assert.Equal(t, "2", out.TotalCount)
	assert.Len(t, out.Result, 2)
}

func TestGetJSON_NoTokenNoHeader(t *testing.T) {
	var present bool
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present = r.Header[AuthHeader]
		_, _ = w.Write([]byte(`{}`))
	}))

	require.NoError(t, c.GetJSON(context.Background(), "/api/users", nil, &map[string]any{}))
	assert.False(t, present)
}

func TestGetJSON_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))

	var out map[string]bool
	require.NoError(t, c.GetJSON(context.Background(), "/api/network-servers", nil, &out))
	assert.True(t, out["ok"])
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetJSON_ZeroRetryMaxIssuesOneCall(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL, Timeout: 2 * time.Second})
	require.NoError(t, err)

	err = c.GetJSON(context.Background(), "/api/gateways", nil, nil)
	require.Error(t, err)
	assert.True(t, errorsx.IsUnavailable(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestPostJSON_NotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	err := c.PostJSON(context.Background(), "/api/organizations", map[string]any{"organization": map[string]string{"name": "x"}}, nil)
	require.Error(t, err)
	assert.True(t, errorsx.IsUnavailable(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestErrorBodyMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		code    errorsx.ErrorCode
		message string
	}{
		{
			name:    "grpc gateway envelope",
			status:  http.StatusNotFound,
			body:    `{"error":"object does not exist","code":5,"message":"object does not exist"}`,
			code:    errorsx.ErrCodeNotFound,
			message: "object does not exist",
		},
		{
			name:    "error field only",
			status:  http.StatusUnauthorized,
			body:    `{"error":"authentication failed"}`,
			code:    errorsx.ErrCodeUnauthenticated,
			message: "authentication failed",
		},
		{
			name:    "plain text",
			status:  http.StatusBadRequest,
			body:    "bad limit",
			code:    errorsx.ErrCodeValidation,
			message: "bad limit",
		},
		{
			name:    "empty body",
			status:  http.StatusForbidden,
			code:    errorsx.ErrCodeForbidden,
			message: "Forbidden",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			err := c.Delete(context.Background(), "/api/gateways/0102030405060708")
			require.Error(t, err)
			assert.Equal(t, tt.code, errorsx.GetCode(err))
			assert.Equal(t, tt.message, errorsx.Message(err))

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
		})
	}
}

func TestGetJSON_DecodeFailure(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"totalCount":`))
	}))

	err := c.GetJSON(context.Background(), "/api/users", nil, &map[string]any{})
	require.Error(t, err)
	assert.Equal(t, errorsx.ErrCodeDecode, errorsx.GetCode(err))
}

func TestGetJSON_ContextCanceled(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.GetJSON(ctx, "/api/users", nil, &map[string]any{})
	require.Error(t, err)
	assert.True(t, errorsx.IsCanceled(err))
}
