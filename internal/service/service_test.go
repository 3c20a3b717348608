package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"wave-client/internal/api"
	"wave-client/internal/identity"
	"wave-client/internal/session"
	"wave-client/internal/store"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type hit struct {
	Method        string
	Path          string
	Query         string
	Body          map[string]any
	Authorization string
}

// fakeBackend is an httptest backend with canned responses per route.
type fakeBackend struct {
	t   *testing.T
	mu  sync.Mutex
	mux *http.ServeMux

	hits []hit
}

func newFakeBackend(t *testing.T) *fakeBackend {
	return &fakeBackend{t: t, mux: http.NewServeMux()}
}

// handle registers a JSON response for pattern, e.g. "GET /api/mood".
func (f *fakeBackend) handle(pattern string, status int, response any) {
	f.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(response)
	})
}

func (f *fakeBackend) handleFunc(pattern string, fn http.HandlerFunc) {
	f.mux.HandleFunc(pattern, fn)
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	h := hit{
		Method:        r.Method,
		Path:          r.URL.Path,
		Query:         r.URL.RawQuery,
		Authorization: r.Header.Get("Authorization"),
	}
	if len(raw) > 0 {
		require.NoError(f.t, json.Unmarshal(raw, &h.Body))
	}
	f.mu.Lock()
	f.hits = append(f.hits, h)
	f.mu.Unlock()
	f.mux.ServeHTTP(w, r)
}

func (f *fakeBackend) requests(method, path string) []hit {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []hit
	for _, h := range f.hits {
		if h.Method == method && h.Path == path {
			out = append(out, h)
		}
	}
	return out
}

func (f *fakeBackend) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.hits)
}

type fixture struct {
	backend *fakeBackend
	client  *api.Client
	ids     *identity.Provider
}

const (
	testDeviceID = "dev-1"
	testAuthorID = "author-1"
)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	b := newFakeBackend(t)
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	client, err := api.NewClient(api.Options{Origin: srv.URL, Base: "/api"}, zap.NewNop())
	require.NoError(t, err)

	kv := store.NewMemoryKV()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, identity.DeviceKey, testDeviceID, 0))
	require.NoError(t, kv.Set(ctx, identity.AuthorKey, testAuthorID, 0))

	return &fixture{
		backend: b,
		client:  client,
		ids:     identity.NewProvider(kv, zap.NewNop()),
	}
}

var signedOut = session.Static{}
