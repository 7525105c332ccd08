package node

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nstake/nstake/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingFetcher serves the same report to every staker.
type countingFetcher struct {
	calls atomic.Int32
}

func (f *countingFetcher) Fetch(ctx context.Context, baseURL string) ([]byte, error) {
	f.calls.Add(1)
	return []byte(validReport), nil
}

func seededStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	st := store.NewMemoryStore()
	require.NoError(t, st.Set(context.Background(), store.StakersKey,
		`[{"id":"s1","name":"one","url":"http://one.invalid"}]`))
	return st
}

func stored(st *store.MemoryStore) string {
	raw, _, _ := st.Get(context.Background(), store.StakersKey)
	return raw
}

func startRun(t *testing.T, m *Monitor, base time.Duration, signals chan Lifecycle) (context.CancelFunc, <-chan error) {
	t.Helper()
	p, err := NewPoller(Schedule{Base: base, Multiplier: 1})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- m.Run(ctx, p, signals) }()
	return cancel, errc
}

func stopRun(t *testing.T, cancel context.CancelFunc, errc <-chan error) {
	t.Helper()
	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_TicksRefreshAndPersist(t *testing.T) {
	st := seededStore(t)
	f := &countingFetcher{}
	m := newTestMonitor(t, f, st)
	m.Hydrate(context.Background())

	cancel, errc := startRun(t, m, 10*time.Millisecond, nil)
	defer stopRun(t, cancel, errc)

	require.Eventually(t, func() bool {
		return strings.Contains(stored(st), `"balance":1`)
	}, 5*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return f.calls.Load() >= 2 }, 5*time.Second, 10*time.Millisecond)
}

func TestRun_LifecycleSignals(t *testing.T) {
	st := seededStore(t)
	f := &countingFetcher{}
	m := newTestMonitor(t, f, st)
	m.Hydrate(context.Background())

	signals := make(chan Lifecycle)
	cancel, errc := startRun(t, m, time.Hour, signals)
	defer stopRun(t, cancel, errc)

	// unbuffered sends complete only after the previous signal was handled
	signals <- Pause
	signals <- RefreshNow
	signals <- Resume
	assert.Equal(t, int32(0), f.calls.Load(), "refresh while paused should not fetch")

	signals <- RefreshNow
	require.Eventually(t, func() bool {
		return f.calls.Load() == 1 && strings.Contains(stored(st), `"updated"`)
	}, 5*time.Second, 10*time.Millisecond)
}

func TestRun_ClosedSignalsKeepRunning(t *testing.T) {
	st := seededStore(t)
	f := &countingFetcher{}
	m := newTestMonitor(t, f, st)
	m.Hydrate(context.Background())

	signals := make(chan Lifecycle)
	close(signals)
	cancel, errc := startRun(t, m, 10*time.Millisecond, signals)
	defer stopRun(t, cancel, errc)

	require.Eventually(t, func() bool { return f.calls.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)
}

func TestRun_ReturnClosesMonitor(t *testing.T) {
	f := newBlockingFetcher()
	m := newTestMonitor(t, f, seededStore(t))
	m.Hydrate(context.Background())
	m.Refresh(nil)
	recv(t, f.started)

	cancel, errc := startRun(t, m, time.Hour, nil)
	stopRun(t, cancel, errc)

	recv(t, f.cancelled)
	assert.Equal(t, 0, m.Refresh(nil))
}

func TestLifecycle_String(t *testing.T) {
	assert.Equal(t, "pause", Pause.String())
	assert.Equal(t, "resume", Resume.String())
	assert.Equal(t, "refresh", RefreshNow.String())
	assert.Equal(t, "unknown", Lifecycle(42).String())
}
