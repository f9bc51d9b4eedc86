package gate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booknook-app/booknook/pkg/session"
	"github.com/booknook-app/booknook/pkg/storage"
)

type fakeNav struct {
	mu     sync.Mutex
	routes []Route
}

func (n *fakeNav) Replace(r Route) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, r)
}

func (n *fakeNav) Push(r Route) { n.Replace(r) }

func (n *fakeNav) last() (Route, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.routes) == 0 {
		return ``, false
	}
	return n.routes[len(n.routes)-1], true
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		loading    bool
		hasSession bool
		want       Route
	}{
		{"loading without session", true, false, RouteLoading},
		{"loading hides cached session", true, true, RouteLoading},
		{"no session", false, false, RouteLanding},
		{"authenticated", false, true, RouteHome},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Resolve(tc.loading, tc.hasSession))
		})
	}
}

// blockingStore holds the initial read until released, simulating a
// slow secure-storage backend.
type blockingStore struct {
	storage.Store
	release chan struct{}
}

func (bs *blockingStore) Get(ctx context.Context, key string) (string, bool, error) {
	<-bs.release
	return bs.Store.Get(ctx, key)
}

func TestGateNeverShowsHomeWhileLoading(t *testing.T) {
	ms := storage.NewMemStore()
	sess := "T1"
	require.NoError(t, ms.Set(context.Background(), storage.KeySession, &sess))
	bs := &blockingStore{Store: ms, release: make(chan struct{})}

	m, err := session.NewManager("http://localhost:0", bs)
	require.NoError(t, err)
	m.Init(context.Background())

	// A session exists in storage, but the read hasn't settled.
	_, has := m.Session()
	assert.Equal(t, RouteLoading, Resolve(m.IsLoading(), has))

	close(bs.release)
	require.Eventually(t, func() bool {
		_, has := m.Session()
		return Resolve(m.IsLoading(), has) == RouteHome
	}, time.Second, time.Millisecond)
}

func TestListenerNavigatesOnEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/login" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck
		json.NewEncoder(w).Encode(map[string]interface{}{
			"user_token": "T1",
			"user":       map[string]interface{}{"id": 1},
		})
	}))
	defer srv.Close()

	m, err := session.NewManager(srv.URL, storage.NewMemStore())
	require.NoError(t, err)
	m.Init(context.Background())

	nav := &fakeNav{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go NewListener(m, nav).Run(ctx)

	require.NoError(t, m.SignIn(ctx, "alice", "secret"))
	require.Eventually(t, func() bool {
		r, ok := nav.last()
		return ok && r == RouteHome
	}, time.Second, time.Millisecond)

	m.SignOut(ctx)
	require.Eventually(t, func() bool {
		r, ok := nav.last()
		return ok && r == RouteSignIn
	}, time.Second, time.Millisecond)
}
