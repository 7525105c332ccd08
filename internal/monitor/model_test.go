package monitor

import (
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/nstake/nstake/internal/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModel_StartsInitialRefresh(t *testing.T) {
	env := newEnv(t, []node.Staker{staker("s1", "one", "http://one.invalid")})
	env.fetcher.set("http://one.invalid", reportBody(12.5, true))

	m := env.model()
	assert.True(t, m.Refreshing())
	assert.NotNil(t, m.Init())

	m = drain(t, m)
	assert.False(t, m.Refreshing())

	s, ok := m.SelectedStaker()
	require.True(t, ok)
	require.NotNil(t, s.Stats)
	assert.Equal(t, 12.5, s.Stats.Balance)
	assert.Equal(t, []float64{12.5}, m.history.Balances("s1", 10))
}

func TestNewModel_EmptyList(t *testing.T) {
	env := newEnv(t, nil)
	m := env.model()

	assert.False(t, m.Refreshing())
	assert.Empty(t, m.list)
	assert.Equal(t, "", m.SelectedID())
}

func TestModel_FailedFetchKeepsSnapshot(t *testing.T) {
	env := newEnv(t, []node.Staker{staker("s1", "one", "http://one.invalid")})
	env.fetcher.set("http://one.invalid", reportBody(3, true))
	m := drain(t, env.model())

	env.fetcher.set("http://one.invalid", "{not json")
	m, _ = press(t, m, "r")
	assert.True(t, m.Refreshing())
	m = drain(t, m)

	s, _ := m.SelectedStaker()
	require.NotNil(t, s.Stats)
	assert.Equal(t, 3.0, s.Stats.Balance)
	assert.False(t, m.Refreshing(), "failed fetches still complete the refresh")
}

func TestModel_StaleTicksDropped(t *testing.T) {
	env := newEnv(t, []node.Staker{staker("s1", "one", "http://one.invalid")})
	env.fetcher.set("http://one.invalid", reportBody(1, true))
	m := drain(t, env.model())

	m.tickGen = 3
	next, cmd := m.Update(tickMsg{gen: 2, at: fixedNow})
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.mon.Pending())

	next, cmd = m.Update(tickMsg{gen: 3, at: fixedNow})
	m = next.(Model)
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, m.mon.Pending())
	drain(t, m)
}

func TestModel_RefreshExplainsNoop(t *testing.T) {
	env := newEnv(t, nil)
	m := env.model()

	m, cmd := press(t, m, "r")
	assert.Nil(t, cmd)
	assert.Contains(t, m.flash, "No stakers")

	env2 := newEnv(t, []node.Staker{staker("s1", "one", "http://one.invalid")})
	env2.fetcher.set("http://one.invalid", reportBody(1, true))
	m = drain(t, env2.model())
	m, _ = press(t, m, "p")
	m, cmd = press(t, m, "r")
	assert.Nil(t, cmd)
	assert.Contains(t, m.flash, "paused")
}

func TestModel_PauseToggle(t *testing.T) {
	env := newEnv(t, nil)
	m := env.model()

	m, _ = press(t, m, "p")
	assert.True(t, env.mon.Paused())
	assert.Equal(t, "Polling paused", m.flash)

	m, _ = press(t, m, "p")
	assert.False(t, env.mon.Paused())
	assert.Equal(t, "Polling resumed", m.flash)
}

func TestModel_PauseIgnoredWithoutGate(t *testing.T) {
	env := newEnv(t, nil, withoutPauseGate)
	m := env.model()

	m, _ = press(t, m, "p")
	assert.False(t, env.mon.Paused())
	assert.Contains(t, m.flash, "honor_pause")
}

func TestModel_ChangeMultiplier(t *testing.T) {
	env := newEnv(t, nil)
	var saved []int
	m := NewModel(Options{
		Monitor:    env.mon,
		Schedule:   node.DefaultSchedule(),
		OnSchedule: func(s node.Schedule) error { saved = append(saved, s.Multiplier); return nil },
		Now:        func() time.Time { return fixedNow },
	})

	gen := m.tickGen
	m, cmd := press(t, m, "+")
	assert.NotNil(t, cmd, "a new tick is scheduled")
	assert.Equal(t, 2, m.Schedule().Multiplier)
	assert.Equal(t, gen+1, m.tickGen)
	assert.Equal(t, "Polling every 2m", m.flash)

	m, _ = press(t, m, "-")
	m, cmd = press(t, m, "-")
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.Schedule().Multiplier)
	assert.Contains(t, m.flash, "below 1")
	assert.Equal(t, []int{2, 1}, saved)
}

func TestModel_Notifications(t *testing.T) {
	env := newEnv(t, []node.Staker{staker("s1", "one", "http://one.invalid")})
	env.fetcher.set("http://one.invalid", reportBody(5, true))
	m := drain(t, env.model())

	m, _ = press(t, m, "n")
	assert.True(t, env.mon.NotificationsEnabled())
	assert.Equal(t, "Notifications on", m.flash)

	list := env.tray.List()
	require.Len(t, list, 1)
	assert.Equal(t, "s1", list[0].ID)
	assert.Contains(t, m.View(), "Notifications")

	m, _ = press(t, m, "n")
	assert.False(t, env.mon.NotificationsEnabled())
	assert.Empty(t, env.tray.List())
}

func TestModel_NotificationsUnavailable(t *testing.T) {
	env := newEnv(t, nil, withoutNotifier)
	m := env.model()

	m, _ = press(t, m, "n")
	assert.Contains(t, m.flash, "not available")
	assert.True(t, env.log.HasLevel("error"))
}

func TestModel_AddForm(t *testing.T) {
	env := newEnv(t, nil)
	env.fetcher.set("http://new.invalid", reportBody(2, false))
	m := env.model()

	m, cmd := press(t, m, "a")
	require.NotNil(t, m.form)
	_ = cmd

	m = completeForm(m, func(pf *pendingForm) {
		pf.name = "  fresh "
		pf.url = "http://new.invalid"
	})
	assert.Nil(t, m.form)
	assert.Equal(t, "Added fresh", m.flash)
	require.Equal(t, 1, env.mon.Len())
	assert.Equal(t, "fresh", env.mon.Stakers()[0].Name)
	assert.Equal(t, env.mon.Stakers()[0].ID, m.SelectedID())

	m = drain(t, m)
	s, _ := m.SelectedStaker()
	require.NotNil(t, s.Stats)
	assert.Equal(t, 2.0, s.Stats.Balance)
}

func TestModel_AddFormRejectsInvalid(t *testing.T) {
	env := newEnv(t, nil)
	m := env.model()

	m, _ = press(t, m, "a")
	m = completeForm(m, func(pf *pendingForm) {
		pf.name = "x"
		pf.url = "ftp://nope"
	})
	assert.Equal(t, 0, env.mon.Len())
	assert.Contains(t, m.flash, "http:// or https://")
}

func TestModel_FormEscCancels(t *testing.T) {
	env := newEnv(t, nil)
	m := env.model()

	m, _ = press(t, m, "a")
	require.NotNil(t, m.form)

	m, _ = press(t, m, "esc")
	assert.Nil(t, m.form)
	assert.Equal(t, "Cancelled.", m.flash)
	assert.Equal(t, 0, env.mon.Len())
}

func TestModel_FormKeepsApplyingResults(t *testing.T) {
	env := newEnv(t, []node.Staker{staker("s1", "one", "http://one.invalid")})
	env.fetcher.set("http://one.invalid", reportBody(4, true))
	m := env.model()

	m, _ = press(t, m, "a")
	require.NotNil(t, m.form)

	m = drain(t, m)
	assert.NotNil(t, m.form, "results do not close the prompt")
	s, _ := m.SelectedStaker()
	assert.NotNil(t, s.Stats)
}

func TestModel_RefreshAnimatesWhileFormOpen(t *testing.T) {
	env := newEnv(t, []node.Staker{staker("s1", "one", "http://one.invalid")})
	env.fetcher.set("http://one.invalid", reportBody(4, true))
	m := env.model()
	require.True(t, m.Refreshing())

	m, _ = press(t, m, "a")
	require.NotNil(t, m.form)

	next, cmd := m.Update(spinner.TickMsg{})
	m = next.(Model)
	assert.NotNil(t, cmd, "spinner keeps ticking behind the prompt")
	assert.NotNil(t, m.form)

	m, _ = press(t, m, "esc")
	next, cmd = m.Update(spinner.TickMsg{})
	assert.NotNil(t, cmd, "spinner still ticks after the prompt closes")

	m = drain(t, next.(Model))
	_, cmd = m.Update(spinner.TickMsg{})
	assert.Nil(t, cmd, "ticks stop once the refresh is done")
}

func TestModel_RefreshProgressCountsFailures(t *testing.T) {
	env := newEnv(t, []node.Staker{
		staker("s1", "one", "http://one.invalid"),
		staker("s2", "two", "http://two.invalid"),
	})
	env.fetcher.set("http://one.invalid", reportBody(1, true))
	m := drain(t, env.model())

	require.NotNil(t, m.lastRefresh)
	assert.Equal(t, 2, m.lastRefresh.Done())
	assert.Equal(t, 1, m.lastRefresh.Failed())
	assert.Contains(t, m.View(), "fetched 1/2, 1 failed")
}

func TestModel_DeleteForm(t *testing.T) {
	env := newEnv(t, []node.Staker{
		staker("s1", "one", "http://one.invalid"),
		staker("s2", "two", "http://two.invalid"),
	})
	env.fetcher.set("http://one.invalid", reportBody(1, true))
	env.fetcher.set("http://two.invalid", reportBody(2, true))
	m := drain(t, env.model())

	m, _ = press(t, m, "j")
	assert.Equal(t, "s2", m.SelectedID())

	// declined
	m, _ = press(t, m, "d")
	require.NotNil(t, m.form)
	m = completeForm(m, func(pf *pendingForm) { pf.confirm = false })
	assert.Equal(t, 2, env.mon.Len())
	assert.Equal(t, "Cancelled.", m.flash)

	// confirmed
	m, _ = press(t, m, "d")
	m = completeForm(m, func(pf *pendingForm) { pf.confirm = true })
	assert.Equal(t, "Deleted two", m.flash)
	require.Equal(t, 1, env.mon.Len())
	assert.Equal(t, "s1", env.mon.Stakers()[0].ID)
	assert.Equal(t, "s1", m.SelectedID())
	assert.Equal(t, 0, m.history.Count("s2"))
	drain(t, m)
}

func TestModel_DeleteWithNothingSelected(t *testing.T) {
	env := newEnv(t, nil)
	m := env.model()

	m, cmd := press(t, m, "d")
	assert.Nil(t, cmd)
	assert.Nil(t, m.form)
	assert.Equal(t, "Nothing to delete", m.flash)
}

func TestModel_SortKeepsSelection(t *testing.T) {
	env := newEnv(t, []node.Staker{
		staker("s1", "zeta", "http://one.invalid"),
		staker("s2", "alpha", "http://two.invalid"),
		staker("s3", "mid", "http://three.invalid"),
	})
	env.fetcher.set("http://one.invalid", reportBody(5, true))
	env.fetcher.set("http://two.invalid", reportBody(1, true))
	m := drain(t, env.model())

	assert.Equal(t, SortByList, m.sortOrder)
	assert.Equal(t, "s1", m.SelectedID())

	m, _ = press(t, m, "s")
	assert.Equal(t, SortByName, m.sortOrder)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names(m.list))
	assert.Equal(t, "s1", m.SelectedID(), "selection follows the staker")

	m, _ = press(t, m, "s")
	assert.Equal(t, SortByBalance, m.sortOrder)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names(m.list), "no-stats staker sorts last")

	m, _ = press(t, m, "s")
	assert.Equal(t, SortByList, m.sortOrder)
}

func TestModel_Navigation(t *testing.T) {
	env := newEnv(t, []node.Staker{
		staker("s1", "one", "http://one.invalid"),
		staker("s2", "two", "http://two.invalid"),
		staker("s3", "three", "http://three.invalid"),
	})
	m := drain(t, env.model())

	m, _ = press(t, m, "k")
	assert.Equal(t, 0, m.selected, "stays at top")
	m, _ = press(t, m, "down")
	m, _ = press(t, m, "j")
	assert.Equal(t, 2, m.selected)
	m, _ = press(t, m, "j")
	assert.Equal(t, 2, m.selected, "stays at bottom")
	m, _ = press(t, m, "home")
	assert.Equal(t, 0, m.selected)
	m, _ = press(t, m, "end")
	assert.Equal(t, 2, m.selected)
	m, _ = press(t, m, "up")
	assert.Equal(t, 1, m.selected)
}

func TestModel_DetailAndHelp(t *testing.T) {
	env := newEnv(t, []node.Staker{staker("s1", "one", "http://one.invalid")})
	m := drain(t, env.model())

	m, _ = press(t, m, "enter")
	assert.Equal(t, ViewDetail, m.viewMode)
	m, _ = press(t, m, "esc")
	assert.Equal(t, ViewList, m.viewMode)

	m, _ = press(t, m, "?")
	assert.True(t, m.showHelp)
	m, _ = press(t, m, "esc")
	assert.False(t, m.showHelp)
}

func TestModel_QuitClosesMonitor(t *testing.T) {
	env := newEnv(t, []node.Staker{staker("s1", "one", "http://one.invalid")})
	m := drain(t, env.model())

	m, cmd := press(t, m, "q")
	assert.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Equal(t, "", m.View())
	assert.Equal(t, 0, env.mon.Refresh(nil), "closed monitor starts nothing")
}

func TestModel_CtrlCQuitsFromForm(t *testing.T) {
	env := newEnv(t, nil)
	m := env.model()

	m, _ = press(t, m, "a")
	m, cmd := press(t, m, "ctrl+c")
	assert.NotNil(t, cmd)
	assert.True(t, m.quitting)
}

func TestModel_LayoutMode(t *testing.T) {
	env := newEnv(t, nil)
	m := env.model()

	tests := []struct {
		width int
		want  LayoutMode
	}{
		{0, LayoutStandard},
		{60, LayoutMinimal},
		{100, LayoutStandard},
		{200, LayoutWide},
	}
	for _, tt := range tests {
		m.width = tt.width
		assert.Equal(t, tt.want, m.LayoutMode(), "width %d", tt.width)
	}
}

func TestFormatInterval(t *testing.T) {
	assert.Equal(t, "1m", formatInterval(60e9))
	assert.Equal(t, "2h", formatInterval(7200e9))
	assert.Equal(t, "1m30s", formatInterval(90e9))
}

func names(list []node.Staker) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.Name
	}
	return out
}
