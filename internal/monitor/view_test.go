package monitor

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nstake/nstake/internal/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestView_EmptyDashboard(t *testing.T) {
	env := newEnv(t, nil)
	view := env.model().View()

	assert.Contains(t, view, "nstake")
	assert.Contains(t, view, "0 stakers")
	assert.Contains(t, view, "No stakers yet")
	assert.Contains(t, view, "every 1m")
}

func TestView_CardsBeforeAndAfterFetch(t *testing.T) {
	env := newEnv(t, []node.Staker{staker("s1", "alpha", "http://alpha.invalid")})
	env.fetcher.set("http://alpha.invalid", reportBody(1234.5, true))
	m := env.model()

	view := m.View()
	assert.Contains(t, view, "alpha")
	assert.Contains(t, view, "waiting for first report")
	assert.Contains(t, view, StatusWaiting)
	assert.Contains(t, view, "fetching 0/1", "progress shows while fetching")

	m = drain(t, m)
	view = m.View()
	assert.Contains(t, view, StatusStaking)
	assert.Contains(t, view, "1,234.5")
	assert.Contains(t, view, "total 1,234.5")
	assert.Contains(t, view, "1 hour from now")
	assert.Contains(t, view, "2 hours ago", "last stake")
	assert.Contains(t, view, "updated now")
	assert.NotContains(t, view, "fetching 0/1")
	assert.Contains(t, view, "fetched 1/1")
}

func TestView_NotStakingCard(t *testing.T) {
	env := newEnv(t, []node.Staker{staker("s1", "idle", "http://idle.invalid")})
	env.fetcher.set("http://idle.invalid", reportBody(1, false))
	m := drain(t, env.model())

	view := m.View()
	assert.Contains(t, view, StatusIdle)
	assert.Contains(t, view, "not staking")
}

func TestView_HeaderBadgesAndFlash(t *testing.T) {
	env := newEnv(t, nil)
	m := env.model()

	m, _ = press(t, m, "p")
	view := m.View()
	assert.Contains(t, view, "PAUSED")
	assert.Contains(t, view, "Polling paused")

	m, _ = press(t, m, "+")
	assert.Contains(t, m.View(), "every 2m (×2)")
}

func TestView_HelpOverlay(t *testing.T) {
	env := newEnv(t, nil)
	m := env.model()
	m, _ = press(t, m, "?")

	view := m.View()
	assert.Contains(t, view, "Keyboard Shortcuts")
	assert.Contains(t, view, "add staker")
	assert.Contains(t, view, "toggle notifications")
}

func TestView_DetailView(t *testing.T) {
	env := newEnv(t, []node.Staker{staker("s1", "alpha", "http://alpha.invalid/")})
	env.fetcher.set("http://alpha.invalid/", reportBody(10, true))
	m := drain(t, env.model())

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 80})
	m = next.(Model)
	m, _ = press(t, m, "enter")

	view := m.View()
	assert.Contains(t, view, "alpha")
	assert.Contains(t, view, "http://alpha.invalid/report.json")
	assert.Contains(t, view, "Cold staking")
	assert.Contains(t, view, "Last 7 days")
	assert.Contains(t, view, "Collecting history")
	assert.Contains(t, view, "Balance 10 · next stake 1 hour from now")
}

func TestView_DetailHistoryGraph(t *testing.T) {
	env := newEnv(t, []node.Staker{staker("s1", "alpha", "http://alpha.invalid")})
	m := drain(t, env.model())
	for i, b := range []float64{1, 2, 3} {
		m.history.Push("s1", fixedNow.Add(-time.Duration(3-i)*time.Minute), b)
	}

	s, ok := m.SelectedStaker()
	require.True(t, ok)
	section := m.renderHistorySection(s, 60)
	assert.Contains(t, section, "3 samples")
	assert.Contains(t, section, "low 1  high 3")
}

func TestView_FormReplacesCards(t *testing.T) {
	env := newEnv(t, []node.Staker{staker("s1", "alpha", "http://alpha.invalid")})
	m := env.model()
	m, _ = press(t, m, "a")

	view := m.View()
	assert.Contains(t, view, "esc cancel")
	assert.NotContains(t, view, "waiting for first report")
	drain(t, m)
}

func TestView_CardsWrapByWidth(t *testing.T) {
	env := newEnv(t, []node.Staker{
		staker("s1", "one", "http://one.invalid"),
		staker("s2", "two", "http://two.invalid"),
	})
	m := drain(t, env.model())

	m.width = 200
	wide := m.renderStakerCards()
	m.width = 60
	narrow := m.renderStakerCards()

	assert.Greater(t, strings.Count(narrow, "\n"), strings.Count(wide, "\n"))
}
