package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// fetchFrames animate both spinners at ten frames a second.
var fetchFrames = spinner.Spinner{
	Frames: []string{"◐", "◓", "◑", "◒"},
	FPS:    time.Second / 10,
}

// FetchProgress is the dashboard's refresh indicator. It counts the fetches
// of one refresh as their results land and stops animating once all of them
// have reported.
type FetchProgress struct {
	spinner spinner.Model
	total   int
	done    int
	failed  int
	started time.Time
	took    time.Duration
}

// NewFetchProgress tracks a refresh of total fetches started at now.
func NewFetchProgress(total int, now time.Time) *FetchProgress {
	sp := spinner.New()
	sp.Spinner = fetchFrames
	sp.Style = InfoStyle()
	return &FetchProgress{spinner: sp, total: total, started: now}
}

// Tick starts the animation.
func (p *FetchProgress) Tick() tea.Cmd {
	return p.spinner.Tick
}

// Update advances the animation. Ticks after the refresh finished are
// dropped so the chain ends.
func (p *FetchProgress) Update(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(spinner.TickMsg)
	if !ok || p.Finished() {
		return nil
	}
	var cmd tea.Cmd
	p.spinner, cmd = p.spinner.Update(tick)
	return cmd
}

// Record counts one finished fetch.
func (p *FetchProgress) Record(ok bool, now time.Time) {
	if p.Finished() {
		return
	}
	p.done++
	if !ok {
		p.failed++
	}
	if p.Finished() {
		p.took = now.Sub(p.started)
	}
}

// Finished reports whether every fetch has reported.
func (p *FetchProgress) Finished() bool {
	return p.done >= p.total
}

// Done returns how many fetches have reported.
func (p *FetchProgress) Done() int { return p.done }

// Failed returns how many reported fetches failed.
func (p *FetchProgress) Failed() int { return p.failed }

// View renders "◐ fetching 1/3" while running and a summary with the
// elapsed time once finished.
func (p *FetchProgress) View() string {
	if !p.Finished() {
		return fmt.Sprintf("%s fetching %d/%d", p.spinner.View(), p.done, p.total)
	}

	took := MutedStyle().Render(formatElapsed(p.took))
	if p.failed > 0 {
		return fmt.Sprintf("%s fetched %d/%d, %d failed %s",
			ErrorStyle().Render(SymbolFail), p.done-p.failed, p.total, p.failed, took)
	}
	return fmt.Sprintf("%s fetched %d/%d %s", SuccessStyle().Render(SymbolSuccess), p.done, p.total, took)
}
