package node

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nstake/nstake/internal/errors"
	"github.com/nstake/nstake/internal/logger"
	"github.com/nstake/nstake/internal/notify"
	"github.com/nstake/nstake/internal/report"
	"github.com/nstake/nstake/internal/store"
)

// resultBuffer is the capacity of the fetch result channel.
const resultBuffer = 64

// Completion is signalled once per staker fetch started by a Refresh call,
// whether that fetch succeeds, fails, or is cancelled.
type Completion interface {
	Done()
}

// CompletionFunc adapts a function to Completion.
type CompletionFunc func()

// Done calls f.
func (f CompletionFunc) Done() { f() }

// Result is the outcome of one staker fetch, delivered on Results.
type Result struct {
	StakerID string
	Seq      uint64
	Stats    *report.Stats
	At       time.Time
	Err      error

	token Completion
}

// Options configures a Monitor.
type Options struct {
	Store   store.Store
	Fetcher Fetcher
	Logger  logger.Logger

	// Notifier mirrors state into notifications while enabled.
	Notifier *notify.Summarizer
	// NotificationsEnabled turns the notifier on from the start.
	NotificationsEnabled bool

	// HonorPause makes SetPaused effective. When false pause signals are
	// logged and ignored.
	HonorPause bool

	// Now overrides the clock.
	Now func() time.Time
}

// Monitor owns the staker list, its durable mirror, and the refresh cycle.
//
// Monitor is not safe for concurrent use. Every method except Results must
// be called from one goroutine, the owner's event loop (the dashboard's
// Update or Run). Fetches run on their own goroutines and only ever send a
// Result; the owner hands each one back through Apply, which is the only
// place fetched state lands on a staker.
type Monitor struct {
	store    store.Store
	fetcher  Fetcher
	log      logger.Logger
	notifier *notify.Summarizer
	now      func() time.Time

	stakers    []*Staker
	loaded     bool
	paused     bool
	closed     bool
	honorPause bool
	notifyOn   bool
	seq        uint64
	inflight   map[string]map[uint64]context.CancelFunc
	results    chan Result
	done       chan struct{}
	closeOnce  sync.Once
}

// New creates a Monitor with an empty, not-yet-loaded list.
func New(opts Options) *Monitor {
	m := &Monitor{
		store:      opts.Store,
		fetcher:    opts.Fetcher,
		log:        opts.Logger,
		notifier:   opts.Notifier,
		now:        opts.Now,
		honorPause: opts.HonorPause,
		notifyOn:   opts.NotificationsEnabled && opts.Notifier != nil,
		inflight:   make(map[string]map[uint64]context.CancelFunc),
		results:    make(chan Result, resultBuffer),
		done:       make(chan struct{}),
	}
	if m.store == nil {
		m.store = store.NewMemoryStore()
	}
	if m.fetcher == nil {
		m.fetcher = NewHTTPFetcher(0)
	}
	if m.log == nil {
		m.log = logger.Noop()
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// Results delivers fetch outcomes. The owner must pass each to Apply.
func (m *Monitor) Results() <-chan Result {
	return m.results
}

// Load hydrates the list from storage and starts the initial refresh.
func (m *Monitor) Load(ctx context.Context) {
	m.Hydrate(ctx)
	m.Refresh(nil)
}

// Hydrate reads the persisted list without refreshing.
//
// Stored data replaces the in-memory list only when it exists and parses.
// Read and parse failures keep the empty list. Either way the monitor is
// marked loaded afterwards, which is what allows Save to write.
func (m *Monitor) Hydrate(ctx context.Context) {
	defer func() { m.loaded = true }()

	raw, ok, err := m.store.Get(ctx, store.StakersKey)
	if err != nil {
		m.log.Warn("stored stakers unreadable, starting empty: %v", errors.Summary(err))
		return
	}
	if !ok {
		m.log.Debug("no stored stakers")
		return
	}

	var list []Staker
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		m.log.Warn("stored stakers unparseable, starting empty: %v", err)
		return
	}

	assigned := false
	m.stakers = make([]*Staker, 0, len(list))
	for i := range list {
		s := list[i]
		if s.ID == "" {
			s.ID = uuid.NewString()
			assigned = true
		}
		m.stakers = append(m.stakers, &s)
	}
	m.log.Debug("loaded %d stakers", len(m.stakers))

	if assigned {
		m.loaded = true
		if err := m.Save(ctx); err != nil {
			m.log.Warn("failed to persist assigned staker ids: %v", errors.Summary(err))
		}
	}
}

// Loaded reports whether Hydrate has finished.
func (m *Monitor) Loaded() bool {
	return m.loaded
}

// Len returns the number of stakers.
func (m *Monitor) Len() int {
	return len(m.stakers)
}

// Stakers returns a copy of the list in insertion order.
func (m *Monitor) Stakers() []Staker {
	out := make([]Staker, len(m.stakers))
	for i, s := range m.stakers {
		out[i] = *s
	}
	return out
}

// Add appends a staker, persists, and refreshes every staker.
// The staker is kept even if persisting fails; the write error is returned.
func (m *Monitor) Add(ctx context.Context, name, baseURL string) (Staker, error) {
	if err := ValidateName(name); err != nil {
		return Staker{}, err
	}
	if err := ValidateURL(baseURL); err != nil {
		return Staker{}, err
	}

	s := NewStaker(name, baseURL)
	m.stakers = append(m.stakers, &s)
	m.invalidateNotifications()

	err := m.Save(ctx)
	m.Refresh(nil)
	return s, err
}

// Import appends several stakers with a single save and refresh.
// Entries without an id get one; every entry is validated first.
func (m *Monitor) Import(ctx context.Context, entries []Staker) (int, error) {
	for _, e := range entries {
		if err := ValidateName(e.Name); err != nil {
			return 0, err
		}
		if err := ValidateURL(e.URL); err != nil {
			return 0, err
		}
	}
	if len(entries) == 0 {
		return 0, nil
	}

	for _, e := range entries {
		s := e
		if s.ID == "" || m.indexOf(s.ID) >= 0 {
			s.ID = uuid.NewString()
		}
		m.stakers = append(m.stakers, &s)
	}
	m.invalidateNotifications()

	err := m.Save(ctx)
	m.Refresh(nil)
	return len(entries), err
}

// Remove cancels every in-flight fetch for the staker at index, removes it,
// persists, and refreshes the rest.
func (m *Monitor) Remove(ctx context.Context, index int) (Staker, error) {
	if index < 0 || index >= len(m.stakers) {
		return Staker{}, errors.New(errors.ErrIndex,
			fmt.Sprintf("No staker at index %d", index),
			fmt.Sprintf("Valid indexes are 0 to %d", len(m.stakers)-1))
	}

	removed := *m.stakers[index]
	m.cancelFetches(removed.ID)
	m.stakers = append(m.stakers[:index], m.stakers[index+1:]...)
	m.invalidateNotifications()

	err := m.Save(ctx)
	m.Refresh(nil)
	return removed, err
}

// Save writes the whole list to storage. It does nothing until the monitor
// has been loaded, so an empty startup list never overwrites stored data.
func (m *Monitor) Save(ctx context.Context) error {
	if !m.loaded {
		return nil
	}

	list := m.Stakers()
	b, err := json.Marshal(list)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrStore, "Failed to encode stakers", "")
	}
	if err := m.store.Set(ctx, store.StakersKey, string(b)); err != nil {
		return errors.WrapWithCode(err, errors.ErrStore,
			"Failed to save stakers",
			"Check the store path is writable")
	}
	return nil
}

// Refresh starts one fetch per staker and returns how many were started.
// It does nothing while paused, closed, or with no stakers; token is then
// never signalled.
func (m *Monitor) Refresh(token Completion) int {
	if m.paused || m.closed || len(m.stakers) == 0 {
		return 0
	}

	for _, s := range m.stakers {
		m.seq++
		ctx, cancel := context.WithCancel(context.Background())

		handles := m.inflight[s.ID]
		if handles == nil {
			handles = make(map[uint64]context.CancelFunc)
			m.inflight[s.ID] = handles
		}
		handles[m.seq] = cancel

		go m.fetch(ctx, s.ID, s.URL, m.seq, token)
	}
	return len(m.stakers)
}

// fetch runs on its own goroutine and must not touch monitor state.
func (m *Monitor) fetch(ctx context.Context, id, baseURL string, seq uint64, token Completion) {
	res := Result{StakerID: id, Seq: seq, token: token}

	body, err := m.fetcher.Fetch(ctx, baseURL)
	if err == nil {
		res.Stats, err = report.Parse(body, m.now())
	}
	res.Err = err
	res.At = m.now()

	select {
	case m.results <- res:
	case <-m.done:
	}
}

// Apply lands a fetch result. On success the staker's stats and updated
// time are replaced together, the list is saved, and notifications are
// synced. Failures leave the staker untouched. Results for removed stakers
// are dropped. The refresh token, if any, is signalled exactly once.
//
// The returned error covers the save and notification steps only; fetch
// and parse failures are swallowed here by design of the display.
func (m *Monitor) Apply(ctx context.Context, res Result) error {
	if res.token != nil {
		defer res.token.Done()
	}

	if handles, ok := m.inflight[res.StakerID]; ok {
		if cancel, ok := handles[res.Seq]; ok {
			cancel()
			delete(handles, res.Seq)
		}
		if len(handles) == 0 {
			delete(m.inflight, res.StakerID)
		}
	}

	i := m.indexOf(res.StakerID)
	if i < 0 {
		m.log.Debug("dropping result for removed staker %s", res.StakerID)
		return nil
	}
	s := m.stakers[i]

	if res.Err != nil {
		m.log.Debug("fetch %s failed, keeping last snapshot: %v", s.Name, errors.Summary(res.Err))
		return nil
	}

	at := res.At
	s.Stats = res.Stats
	s.Updated = &at

	if err := m.Save(ctx); err != nil {
		m.log.Error("%v", errors.Summary(err))
		return err
	}
	if err := m.SyncNotifications(); err != nil {
		m.log.Error("%v", errors.Summary(err))
		return err
	}
	return nil
}

// Pending returns the number of tracked in-flight fetches.
func (m *Monitor) Pending() int {
	n := 0
	for _, handles := range m.inflight {
		n += len(handles)
	}
	return n
}

// WaitIdle applies results until no tracked fetches remain or ctx ends.
// It returns the first save or notification error seen, or ctx's error.
func (m *Monitor) WaitIdle(ctx context.Context) error {
	var first error
	for m.Pending() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res := <-m.results:
			if err := m.Apply(ctx, res); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}

// SetPaused sets the pause gate and returns the effective state. With
// HonorPause off the request is logged and ignored.
func (m *Monitor) SetPaused(paused bool) bool {
	if !m.honorPause {
		m.log.Debug("pause request (%t) ignored: lifecycle.honor_pause is off", paused)
		return m.paused
	}
	m.paused = paused
	return m.paused
}

// Paused reports whether refreshes are suppressed.
func (m *Monitor) Paused() bool {
	return m.paused
}

// SetNotifications turns notification mirroring on or off. Turning it on
// syncs immediately; turning it off clears every notification.
func (m *Monitor) SetNotifications(on bool) error {
	if m.notifier == nil {
		return errors.New(errors.ErrNotify, "Notifications are not available", "")
	}
	m.notifyOn = on
	if on {
		m.notifier.Invalidate()
		return m.SyncNotifications()
	}
	return m.notifier.Clear()
}

// NotificationsEnabled reports whether notifications are mirrored.
func (m *Monitor) NotificationsEnabled() bool {
	return m.notifyOn
}

// SyncNotifications pushes current state to the notifier when enabled.
func (m *Monitor) SyncNotifications() error {
	if !m.notifyOn {
		return nil
	}
	entries := make([]notify.Entry, 0, len(m.stakers))
	for _, s := range m.stakers {
		entries = append(entries, notify.Entry{ID: s.ID, Name: s.Name, Stats: s.Stats})
	}
	return m.notifier.Sync(entries)
}

// Close cancels every tracked fetch and stops delivering results.
func (m *Monitor) Close() {
	m.closeOnce.Do(func() {
		m.closed = true
		for id := range m.inflight {
			m.cancelFetches(id)
		}
		close(m.done)
	})
}

func (m *Monitor) cancelFetches(id string) {
	for _, cancel := range m.inflight[id] {
		cancel()
	}
	delete(m.inflight, id)
}

func (m *Monitor) invalidateNotifications() {
	if m.notifier != nil {
		m.notifier.Invalidate()
	}
}

func (m *Monitor) indexOf(id string) int {
	for i, s := range m.stakers {
		if s.ID == id {
			return i
		}
	}
	return -1
}
