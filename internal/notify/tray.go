package notify

import (
	"fmt"
	"sync"

	"github.com/nstake/nstake/internal/logger"
)

// Tray is an in-memory Scheduler the dashboard renders under its cards.
// It is safe for concurrent use.
type Tray struct {
	mu    sync.Mutex
	order []string
	items map[string]Notification
}

// NewTray creates an empty tray.
func NewTray() *Tray {
	return &Tray{items: make(map[string]Notification)}
}

// Schedule adds a notification. Scheduling an existing ID is an error.
func (t *Tray) Schedule(n Notification) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.items[n.ID]; ok {
		return fmt.Errorf("notification %s already scheduled", n.ID)
	}
	t.order = append(t.order, n.ID)
	t.items[n.ID] = n
	return nil
}

// Update replaces the notification with the same ID, appending it if new.
func (t *Tray) Update(n Notification) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.items[n.ID]; !ok {
		t.order = append(t.order, n.ID)
	}
	t.items[n.ID] = n
	return nil
}

// ClearAll removes every notification.
func (t *Tray) ClearAll() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.order = nil
	t.items = make(map[string]Notification)
	return nil
}

// List returns the notifications in scheduling order.
func (t *Tray) List() []Notification {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Notification, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.items[id])
	}
	return out
}

// LogScheduler writes notifications to a logger. Used by headless watch mode.
type LogScheduler struct {
	log logger.Logger
}

// NewLogScheduler creates a LogScheduler writing to l.
func NewLogScheduler(l logger.Logger) *LogScheduler {
	return &LogScheduler{log: l}
}

func (s *LogScheduler) Schedule(n Notification) error {
	s.log.Info("%s: %s", n.Title, n.Text)
	return nil
}

func (s *LogScheduler) Update(n Notification) error {
	s.log.Info("%s: %s", n.Title, n.Text)
	return nil
}

func (s *LogScheduler) ClearAll() error {
	s.log.Debug("notifications cleared")
	return nil
}
