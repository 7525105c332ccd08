package node

import "context"

// Lifecycle is an external signal to a running monitor.
type Lifecycle int

const (
	// Pause suppresses refreshes (app backgrounded). In-flight fetches finish.
	Pause Lifecycle = iota
	// Resume lifts Pause.
	Resume
	// RefreshNow triggers an immediate refresh.
	RefreshNow
)

// String returns the signal name.
func (l Lifecycle) String() string {
	switch l {
	case Pause:
		return "pause"
	case Resume:
		return "resume"
	case RefreshNow:
		return "refresh"
	default:
		return "unknown"
	}
}

// Run is the headless event loop. It owns the monitor until ctx ends:
// poller ticks refresh, results are applied, and lifecycle signals toggle
// the pause gate. The monitor is closed on return.
//
// Save and notification errors are logged and do not stop the loop.
func (m *Monitor) Run(ctx context.Context, poller *Poller, signals <-chan Lifecycle) error {
	defer m.Close()
	defer poller.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-poller.C():
			n := m.Refresh(nil)
			m.log.Debug("tick: %d fetches started", n)

		case res := <-m.results:
			// Apply logs its own errors
			_ = m.Apply(ctx, res)

		case sig, ok := <-signals:
			if !ok {
				signals = nil
				continue
			}
			m.handle(sig)
		}
	}
}

func (m *Monitor) handle(sig Lifecycle) {
	switch sig {
	case Pause:
		if m.SetPaused(true) {
			m.log.Info("paused")
		}
	case Resume:
		if !m.SetPaused(false) {
			m.log.Info("resumed")
		}
	case RefreshNow:
		n := m.Refresh(nil)
		m.log.Info("refreshing %d stakers", n)
	default:
		m.log.Warn("unknown lifecycle signal %d", int(sig))
	}
}
