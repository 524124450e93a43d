package httpx

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveCompressed(t *testing.T, h http.HandlerFunc, method, acceptEncoding string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, "/organizations", nil)
	if acceptEncoding != "" {
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}
	rec := httptest.NewRecorder()
	Compression(CompressionConfig{Level: gzip.BestSpeed})(h).ServeHTTP(rec, req)
	return rec.Result()
}

func writeBody(contentType string, status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		if body != "" {
			_, _ = io.WriteString(w, body)
		}
	}
}

func TestCompression_GzipsTableHTML(t *testing.T) {
	body := strings.Repeat("<tr><td>gateway</td></tr>", 500)
	resp := serveCompressed(t, writeBody("text/html; charset=utf-8", http.StatusOK, body), http.MethodGet, "gzip, deflate")
	defer resp.Body.Close()

	assert.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))
	assert.Equal(t, "Accept-Encoding", resp.Header.Get("Vary"))
	assert.Empty(t, resp.Header.Get("Content-Length"))

	gr, err := gzip.NewReader(resp.Body)
	require.NoError(t, err)
	defer gr.Close()
	got, err := io.ReadAll(gr)
	require.NoError(t, err)
	assert.Equal(t, body, string(got))
}

func TestCompression_CSVExport(t *testing.T) {
	resp := serveCompressed(t, writeBody("text/csv", http.StatusOK, "id,name\n1,a\n"), http.MethodGet, "gzip")
	defer resp.Body.Close()
	assert.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))
}

func TestCompression_PassThrough(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		acceptEncoding string
		contentType    string
		status         int
		body           string
	}{
		{"no accept-encoding", http.MethodGet, "", "text/html", http.StatusOK, "x"},
		{"deflate only", http.MethodGet, "deflate", "text/html", http.StatusOK, "x"},
		{"gzip disabled by q=0", http.MethodGet, "gzip;q=0", "text/html", http.StatusOK, "x"},
		{"head request", http.MethodHead, "gzip", "text/html", http.StatusOK, ""},
		{"binary content", http.MethodGet, "gzip", "image/png", http.StatusOK, "x"},
		{"stale htmx response", http.MethodGet, "gzip", "", http.StatusNoContent, ""},
		{"not modified", http.MethodGet, "gzip", "", http.StatusNotModified, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := serveCompressed(t, writeBody(tt.contentType, tt.status, tt.body), tt.method, tt.acceptEncoding)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Empty(t, resp.Header.Get("Content-Encoding"))
		})
	}
}

func TestCompression_KeepsExistingEncoding(t *testing.T) {
	h := func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Header().Set("Content-Encoding", "br")
		_, _ = io.WriteString(w, "already compressed")
	}
	resp := serveCompressed(t, h, http.MethodGet, "gzip")
	defer resp.Body.Close()
	assert.Equal(t, "br", resp.Header.Get("Content-Encoding"))
}

func TestAcceptsGzip(t *testing.T) {
	assert.True(t, acceptsGzip("gzip"))
	assert.True(t, acceptsGzip("deflate, GZIP;q=0.5"))
	assert.False(t, acceptsGzip("gzip;q=0.0"))
	assert.False(t, acceptsGzip("x-gzip-ish"))
	assert.False(t, acceptsGzip(""))
}
