package node

import (
	"fmt"
	"sync"
	"time"

	"github.com/nstake/nstake/internal/errors"
)

// DefaultBase is the poll interval at multiplier 1.
const DefaultBase = 60 * time.Second

// Schedule is a poll interval expressed as base × multiplier.
type Schedule struct {
	Base       time.Duration
	Multiplier int
}

// DefaultSchedule polls once a minute.
func DefaultSchedule() Schedule {
	return Schedule{Base: DefaultBase, Multiplier: 1}
}

// Interval returns base × multiplier.
func (s Schedule) Interval() time.Duration {
	return s.Base * time.Duration(s.Multiplier)
}

// Validate rejects non-positive bases and multipliers below 1.
func (s Schedule) Validate() error {
	if s.Base <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Poll base %s must be positive", s.Base),
			"Use a duration like 60s")
	}
	if s.Multiplier < 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Poll multiplier %d must be at least 1", s.Multiplier),
			"Use a whole number like 1, 2, or 5")
	}
	return nil
}

// WithMultiplier returns a copy with a new multiplier.
func (s Schedule) WithMultiplier(n int) (Schedule, error) {
	next := Schedule{Base: s.Base, Multiplier: n}
	return next, next.Validate()
}

// Poller is the refresh timer owned by a monitor. Unlike a bare ticker it
// can be reconfigured in place; C stays the same channel across changes.
type Poller struct {
	mu       sync.Mutex
	schedule Schedule
	ticker   *time.Ticker
	stopped  bool
}

// NewPoller starts a poller on the given schedule.
func NewPoller(s Schedule) (*Poller, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Poller{
		schedule: s,
		ticker:   time.NewTicker(s.Interval()),
	}, nil
}

// C delivers a tick every interval.
func (p *Poller) C() <-chan time.Time {
	return p.ticker.C
}

// Schedule returns the current schedule.
func (p *Poller) Schedule() Schedule {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.schedule
}

// Interval returns the current interval.
func (p *Poller) Interval() time.Duration {
	return p.Schedule().Interval()
}

// Reconfigure changes the multiplier and restarts the interval from now.
func (p *Poller) Reconfigure(multiplier int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	next, err := p.schedule.WithMultiplier(multiplier)
	if err != nil {
		return err
	}
	p.schedule = next
	if !p.stopped {
		p.ticker.Reset(next.Interval())
	}
	return nil
}

// Stop halts ticks. It is safe to call more than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
	p.ticker.Stop()
}
