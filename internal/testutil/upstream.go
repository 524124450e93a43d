package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// UpstreamRequest is a request recorded by UpstreamStub.
type UpstreamRequest struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
	Body          string
}

type stubResponse struct {
	status int
	body   string
}

// UpstreamStub is an httptest server answering fixed JSON per method and path.
// Unknown routes answer 404 with a grpc-gateway error body.
type UpstreamStub struct {
	*httptest.Server

	mu        sync.Mutex
	responses map[string]stubResponse
	requests  []UpstreamRequest
}

// NewUpstreamStub starts a stub upstream and closes it when the test ends.
func NewUpstreamStub(t interface{ Cleanup(func()) }) *UpstreamStub {
	s := &UpstreamStub{responses: map[string]stubResponse{}}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Handle registers a response for method and path.
func (s *UpstreamStub) Handle(method, path string, status int, body string) *UpstreamStub {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[method+" "+path] = stubResponse{status: status, body: body}
	return s
}

// Requests returns a copy of the recorded requests.
func (s *UpstreamStub) Requests() []UpstreamRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]UpstreamRequest(nil), s.requests...)
}

func (s *UpstreamStub) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.requests = append(s.requests, UpstreamRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		RawQuery:      r.URL.RawQuery,
		Authorization: r.Header.Get("Grpc-Metadata-Authorization"),
		Body:          string(body),
	})
	resp, ok := s.responses[r.Method+" "+r.URL.Path]
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"not found","code":5,"message":"object does not exist"}`)
		return
	}
	w.WriteHeader(resp.status)
	_, _ = io.WriteString(w, resp.body)
}
