package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Spinner is the one-line status of a one-shot refresh: an animated frame,
// a label and an "n/total" count that Step advances as fetches finish.
//
// Step may be called from any goroutine.
type Spinner struct {
	w     io.Writer
	label string
	total int

	mu      sync.Mutex
	done    int
	frame   int
	drawn   int // rune width of the line on screen
	started time.Time
	stop    chan struct{}
	stopped chan struct{}
}

// NewSpinner returns a stopped spinner writing to w.
func NewSpinner(w io.Writer, label string, total int) *Spinner {
	return &Spinner{w: w, label: label, total: total}
}

// Start draws the first frame and animates until Finish.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.stop != nil {
		s.mu.Unlock()
		return
	}
	s.started = time.Now()
	s.stop = make(chan struct{})
	s.stopped = make(chan struct{})
	s.drawLocked()
	s.mu.Unlock()

	go s.animate(s.stop, s.stopped)
}

// Step counts one finished fetch.
func (s *Spinner) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done < s.total {
		s.done++
	}
}

// Done returns the number of finished fetches.
func (s *Spinner) Done() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Finish stops the animation and replaces the line with a final one,
// marked as success or failure.
func (s *Spinner) Finish(ok bool) {
	s.mu.Lock()
	stop, stopped := s.stop, s.stopped
	s.stop = nil
	s.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-stopped

	s.mu.Lock()
	defer s.mu.Unlock()
	mark := SuccessStyle().Render(SymbolSuccess)
	if !ok {
		mark = ErrorStyle().Render(SymbolFail)
	}
	s.clearLocked()
	fmt.Fprintf(s.w, "%s %s %d/%d %s\n", mark, s.label, s.done, s.total,
		MutedStyle().Render(formatElapsed(time.Since(s.started))))
}

func (s *Spinner) animate(stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)
	ticker := time.NewTicker(fetchFrames.FPS)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.frame = (s.frame + 1) % len(fetchFrames.Frames)
			s.drawLocked()
			s.mu.Unlock()
		}
	}
}

func (s *Spinner) drawLocked() {
	frame := fetchFrames.Frames[s.frame]
	rest := fmt.Sprintf(" %s %d/%d", s.label, s.done, s.total)
	s.clearLocked()
	fmt.Fprint(s.w, InfoStyle().Render(frame)+rest)
	s.drawn = len([]rune(frame + rest))
}

func (s *Spinner) clearLocked() {
	if s.drawn > 0 {
		fmt.Fprint(s.w, "\r"+strings.Repeat(" ", s.drawn)+"\r")
		s.drawn = 0
	}
}

// formatElapsed renders a duration as "0.04s" or "1.2s".
func formatElapsed(d time.Duration) string {
	if secs := d.Seconds(); secs >= 0.1 {
		return fmt.Sprintf("%.1fs", secs)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
