package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	domainauth "github.com/mxc-foundation/lpwan-console/internal/domain/auth"
	"github.com/mxc-foundation/lpwan-console/internal/store"
)

// testSession is an administrator session; tests narrow it as needed.
func testSession() *domainauth.Session {
	return &domainauth.Session{
		ID:       "sess-1",
		UserID:   "1",
		Username: "admin",
		Role:     domainauth.RoleAdmin,
		Token:    "jwt",
		Organizations: []domainauth.Membership{
			{OrganizationID: "1", OrganizationName: "acme", IsAdmin: true},
		},
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

// withTestRequestContext attaches session and a toast buffer the way the
// router middleware does.
func withTestRequestContext(r *http.Request, session *domainauth.Session) *http.Request {
	ctx, _ := store.WithToasts(r.Context())
	r = r.WithContext(ctx)
	if session != nil {
		r = withSession(r, session)
	}
	return r
}

// fakeCall is one request seen by fakeBackend.
type fakeCall struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// fakeBackend answers upstream calls from canned JSON bodies keyed by path.
type fakeBackend struct {
	mu        sync.Mutex
	responses map[string]string
	errs      map[string]error
	calls     []fakeCall
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{responses: map[string]string{}, errs: map[string]error{}}
}

func (f *fakeBackend) respond(path, body string) *fakeBackend {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[path] = body
	return f
}

func (f *fakeBackend) fail(path string, err error) *fakeBackend {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[path] = err
	return f
}

func (f *fakeBackend) Calls() []fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fakeCall(nil), f.calls...)
}

func (f *fakeBackend) record(c fakeCall) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	if err, ok := f.errs[c.Path]; ok {
		return "", err
	}
	return f.responses[c.Path], nil
}

func (f *fakeBackend) GetJSON(_ context.Context, path string, query url.Values, out any) error {
	body, err := f.record(fakeCall{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return err
	}
	if body == "" {
		body = `{"totalCount":"0","result":[]}`
	}
	return json.Unmarshal([]byte(body), out)
}

func (f *fakeBackend) PostJSON(_ context.Context, path string, in, out any) error {
	body, err := f.record(fakeCall{Method: http.MethodPost, Path: path, Body: in})
	if err != nil || body == "" || out == nil {
		return err
	}
	return json.Unmarshal([]byte(body), out)
}

func (f *fakeBackend) PutJSON(_ context.Context, path string, in, out any) error {
	body, err := f.record(fakeCall{Method: http.MethodPut, Path: path, Body: in})
	if err != nil || body == "" || out == nil {
		return err
	}
	return json.Unmarshal([]byte(body), out)
}

func (f *fakeBackend) Delete(_ context.Context, path string) error {
	_, err := f.record(fakeCall{Method: http.MethodDelete, Path: path})
	return err
}

var _ store.Backend = (*fakeBackend)(nil)
