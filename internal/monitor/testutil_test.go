package monitor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/nstake/nstake/internal/errors"
	"github.com/nstake/nstake/internal/logger"
	"github.com/nstake/nstake/internal/node"
	"github.com/nstake/nstake/internal/notify"
	"github.com/nstake/nstake/internal/store"
	"github.com/stretchr/testify/require"
)

func init() {
	// Plain output so views can be matched as text
	lipgloss.SetColorProfile(termenv.Ascii)
}

var fixedNow = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func reportBody(balance float64, staking bool) string {
	return fmt.Sprintf(`{
  "wallet": {"balance": %g, "coldstaking_balance": 0, "immature_balance": 0, "unconfirmed_balance": 0},
  "report": {
    "Last 7 Days": "7",
    "Last 30 Days": "30",
    "Last 365 Days": "365",
    "Last All": "100",
    "Latest Time": "2024-06-01T06:00:00Z"
  },
  "info": {"staking": %t, "expectedtime": 3600}
}`, balance, staking)
}

// fakeFetcher serves a fixed body per base URL; unknown URLs fail.
type fakeFetcher struct {
	mu     sync.Mutex
	bodies map[string]string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{bodies: make(map[string]string)}
}

func (f *fakeFetcher) set(url, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies[url] = body
}

func (f *fakeFetcher) Fetch(ctx context.Context, baseURL string) ([]byte, error) {
	f.mu.Lock()
	body, ok := f.bodies[baseURL]
	f.mu.Unlock()
	if !ok {
		return nil, errors.New(errors.ErrFetch, "unreachable", "")
	}
	return []byte(body), nil
}

type testEnv struct {
	fetcher *fakeFetcher
	store   *store.MemoryStore
	tray    *notify.Tray
	mon     *node.Monitor
	log     *logger.BufferLogger
}

type envOption func(*node.Options)

func withoutPauseGate(o *node.Options) { o.HonorPause = false }
func withoutNotifier(o *node.Options)  { o.Notifier = nil }

// newEnv builds a hydrated monitor over the given stored stakers.
func newEnv(t *testing.T, stakers []node.Staker, opts ...envOption) *testEnv {
	t.Helper()
	env := &testEnv{
		fetcher: newFakeFetcher(),
		store:   store.NewMemoryStore(),
		tray:    notify.NewTray(),
		log:     logger.NewBufferLogger(),
	}

	if len(stakers) > 0 {
		var parts []string
		for _, s := range stakers {
			parts = append(parts, fmt.Sprintf(`{"id":%q,"name":%q,"url":%q}`, s.ID, s.Name, s.URL))
		}
		require.NoError(t, env.store.Set(context.Background(), store.StakersKey, "["+strings.Join(parts, ",")+"]"))
	}

	summarizer := notify.NewSummarizer(env.tray)
	summarizer.SetClock(func() time.Time { return fixedNow })
	o := node.Options{
		Store:      env.store,
		Fetcher:    env.fetcher,
		Logger:     env.log,
		Notifier:   summarizer,
		HonorPause: true,
		Now:        func() time.Time { return fixedNow },
	}
	for _, opt := range opts {
		opt(&o)
	}
	env.mon = node.New(o)
	env.mon.Hydrate(context.Background())
	t.Cleanup(env.mon.Close)
	return env
}

func (env *testEnv) model() Model {
	return NewModel(Options{
		Monitor:  env.mon,
		Schedule: node.DefaultSchedule(),
		Tray:     env.tray,
		Logger:   env.log,
		Now:      func() time.Time { return fixedNow },
	})
}

// drain applies fetch results through Update until no fetch is pending.
func drain(t *testing.T, m Model) Model {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for m.mon.Pending() > 0 {
		select {
		case res := <-m.mon.Results():
			next, _ := m.Update(resultMsg{res: res})
			m = next.(Model)
		case <-deadline:
			t.Fatal("timed out waiting for fetch results")
		}
	}
	return m
}

func press(t *testing.T, m Model, k string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "home":
		msg = tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		msg = tea.KeyMsg{Type: tea.KeyEnd}
	case "ctrl+c":
		msg = tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// completeForm fills the open form's bound values and submits it.
func completeForm(m Model, set func(pf *pendingForm)) Model {
	set(m.form)
	m.submitForm()
	return m
}

func staker(id, name, url string) node.Staker {
	return node.Staker{ID: id, Name: name, URL: url}
}
