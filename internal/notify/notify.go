// Package notify mirrors each staker's latest known state into one
// persistent local notification per staker.
package notify

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/nstake/nstake/internal/errors"
	"github.com/nstake/nstake/internal/report"
)

// Notification is a single sticky status notification.
// ID is the owning staker's stable id, never its list position.
type Notification struct {
	ID     string
	Title  string
	Text   string
	Launch bool // open nstake when activated
	Wakeup bool // wake the display when shown
	Sticky bool // not dismissable
}

// Scheduler delivers notifications. Update must replace the notification
// with the same ID, creating it if it does not exist.
type Scheduler interface {
	Schedule(n Notification) error
	Update(n Notification) error
	ClearAll() error
}

// Entry is the subset of a staker the summarizer reads.
type Entry struct {
	ID    string
	Name  string
	Stats *report.Stats
}

// Summarizer keeps a Scheduler in step with the staker list.
//
// The first Sync after construction or Invalidate clears every notification
// and schedules one per entry with stats. Later Syncs update in place.
// Callers must Invalidate after adding or removing stakers.
type Summarizer struct {
	sched  Scheduler
	now    func() time.Time
	active bool
}

// NewSummarizer creates an inactive summarizer.
func NewSummarizer(s Scheduler) *Summarizer {
	return &Summarizer{sched: s, now: time.Now}
}

// SetClock overrides the clock used for relative times.
func (s *Summarizer) SetClock(now func() time.Time) {
	s.now = now
}

// Active reports whether notifications are currently scheduled.
func (s *Summarizer) Active() bool {
	return s.active
}

// Invalidate forces the next Sync to clear and reschedule.
func (s *Summarizer) Invalidate() {
	s.active = false
}

// Sync mirrors entries into the scheduler. Entries without stats are skipped.
func (s *Summarizer) Sync(entries []Entry) error {
	now := s.now()

	if s.active {
		for _, e := range entries {
			if e.Stats == nil {
				continue
			}
			if err := s.sched.Update(Format(e, now)); err != nil {
				return errors.WrapWithCode(err, errors.ErrNotify,
					"Failed to update notification for "+e.Name, "")
			}
		}
		return nil
	}

	if err := s.sched.ClearAll(); err != nil {
		return errors.WrapWithCode(err, errors.ErrNotify, "Failed to clear notifications", "")
	}
	for _, e := range entries {
		if e.Stats == nil {
			continue
		}
		if err := s.sched.Schedule(Format(e, now)); err != nil {
			return errors.WrapWithCode(err, errors.ErrNotify,
				"Failed to schedule notification for "+e.Name, "")
		}
	}
	s.active = true
	return nil
}

// Clear removes every notification and deactivates the summarizer.
func (s *Summarizer) Clear() error {
	s.active = false
	if err := s.sched.ClearAll(); err != nil {
		return errors.WrapWithCode(err, errors.ErrNotify, "Failed to clear notifications", "")
	}
	return nil
}

// Format renders the fixed notification template for an entry with stats.
func Format(e Entry, now time.Time) Notification {
	eta := "not staking"
	if e.Stats.ETA != nil {
		eta = humanize.RelTime(*e.Stats.ETA, now, "ago", "from now")
	}
	last := humanize.RelTime(e.Stats.LastStake, now, "ago", "from now")

	return Notification{
		ID:     e.ID,
		Title:  e.Name,
		Text:   fmt.Sprintf("Balance %s · next stake %s · last stake %s", FormatBalance(e.Stats.Balance), eta, last),
		Launch: true,
		Sticky: true,
	}
}

// FormatBalance renders a balance with thousands separators and up to
// eight decimals.
func FormatBalance(b float64) string {
	return humanize.CommafWithDigits(b, 8)
}
