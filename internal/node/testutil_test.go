package node

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/nstake/nstake/internal/logger"
	"github.com/nstake/nstake/internal/store"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

const validReport = `{
  "wallet": {"balance": 1, "coldstaking_balance": 0, "immature_balance": 0, "unconfirmed_balance": 0},
  "report": {
    "Last 7 Days": "7",
    "Last 30 Days": "30",
    "Last 365 Days": "365",
    "Last All": "100",
    "Latest Time": "2020-01-01T00:00:00Z"
  },
  "info": {"staking": true, "expectedtime": 3600}
}`

const noWalletReport = `{
  "report": {"Last 7 Days": "1", "Last 30 Days": "1", "Last 365 Days": "1", "Last All": "1", "Latest Time": "2020-01-01T00:00:00Z"}
}`

// nodeServer is a fake fleet of staking nodes, one per path prefix:
// GET /{node}/report.json serves that node's current body.
type nodeServer struct {
	*httptest.Server

	mu     sync.Mutex
	bodies map[string]string
	status map[string]int
}

func newNodeServer(t *testing.T) *nodeServer {
	t.Helper()
	ns := &nodeServer{
		bodies: make(map[string]string),
		status: make(map[string]int),
	}

	r := mux.NewRouter()
	r.HandleFunc("/{node}/report.json", func(w http.ResponseWriter, req *http.Request) {
		node := mux.Vars(req)["node"]

		ns.mu.Lock()
		body, ok := ns.bodies[node]
		code := ns.status[node]
		ns.mu.Unlock()

		if !ok {
			http.NotFound(w, req)
			return
		}
		if code == 0 {
			code = http.StatusOK
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		io.WriteString(w, body) //nolint:errcheck // Test server
	}).Methods(http.MethodGet)

	ns.Server = httptest.NewServer(r)
	t.Cleanup(ns.Close)
	return ns
}

func (ns *nodeServer) set(node, body string) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.bodies[node] = body
}

func (ns *nodeServer) setStatus(node string, code int) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.status[node] = code
}

func (ns *nodeServer) nodeURL(node string) string {
	return fmt.Sprintf("%s/%s", ns.URL, node)
}

// blockingFetcher never answers until its context is cancelled.
type blockingFetcher struct {
	started   chan string
	cancelled chan string
}

func newBlockingFetcher() *blockingFetcher {
	return &blockingFetcher{
		started:   make(chan string, 32),
		cancelled: make(chan string, 32),
	}
}

func (f *blockingFetcher) Fetch(ctx context.Context, baseURL string) ([]byte, error) {
	f.started <- baseURL
	<-ctx.Done()
	f.cancelled <- baseURL
	return nil, ctx.Err()
}

func newTestMonitor(t *testing.T, f Fetcher, s store.Store) *Monitor {
	t.Helper()
	if s == nil {
		s = store.NewMemoryStore()
	}
	m := New(Options{
		Store:      s,
		Fetcher:    f,
		Logger:     logger.NewBufferLogger(),
		HonorPause: true,
		Now:        func() time.Time { return fixedNow },
	})
	t.Cleanup(m.Close)
	return m
}

func waitIdle(t *testing.T, m *Monitor) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, m.WaitIdle(ctx))
}

func recv(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting on channel")
		return ""
	}
}
