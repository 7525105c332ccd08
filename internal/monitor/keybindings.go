package monitor

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// SortOrder defines how stakers are ordered on the dashboard.
type SortOrder int

const (
	// SortByList keeps the stored insertion order.
	SortByList SortOrder = iota
	SortByName
	SortByBalance
	sortOrderCount
)

// String returns a human-readable label for the sort order.
func (s SortOrder) String() string {
	switch s {
	case SortByName:
		return "name"
	case SortByBalance:
		return "balance"
	default:
		return "list"
	}
}

// Next cycles to the next sort order.
func (s SortOrder) Next() SortOrder {
	return (s + 1) % sortOrderCount
}

// ViewMode defines the current display mode of the dashboard.
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
)

// KeyMap holds every dashboard binding.
type KeyMap struct {
	Quit          key.Binding
	Refresh       key.Binding
	Add           key.Binding
	Delete        key.Binding
	Pause         key.Binding
	Slower        key.Binding
	Faster        key.Binding
	Notifications key.Binding
	CycleSort     key.Binding
	SelectPrev    key.Binding
	SelectNext    key.Binding
	SelectFirst   key.Binding
	SelectLast    key.Binding
	Expand        key.Binding
	Collapse      key.Binding
	ToggleHelp    key.Binding
}

// ShortHelp implements help.KeyMap for the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Refresh, k.Add, k.ToggleHelp}
}

// FullHelp implements help.KeyMap for the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Refresh, k.Add, k.Delete, k.Pause, k.Notifications},
		{k.Slower, k.Faster, k.CycleSort},
		{k.SelectPrev, k.SelectNext, k.SelectFirst, k.SelectLast, k.Expand, k.Collapse},
		{k.ToggleHelp, k.Quit},
	}
}

var keys = KeyMap{
	Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Refresh:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh now")),
	Add:           key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add staker")),
	Delete:        key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete selected")),
	Pause:         key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause / resume polling")),
	Slower:        key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "poll less often")),
	Faster:        key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "poll more often")),
	Notifications: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "toggle notifications")),
	CycleSort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle sort order")),
	SelectPrev:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "select previous")),
	SelectNext:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "select next")),
	SelectFirst:   key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home", "select first")),
	SelectLast:    key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end", "select last")),
	Expand:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open detail")),
	Collapse:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back / close")),
	ToggleHelp:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
}

// HandleKeyMsg processes keyboard input while no form is open.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	// Help toggle takes priority
	if key.Matches(msg, keys.ToggleHelp) {
		m.showHelp = !m.showHelp
		return true, nil
	}

	if m.showHelp && key.Matches(msg, keys.Collapse) {
		m.showHelp = false
		return true, nil
	}

	if m.viewMode == ViewDetail && key.Matches(msg, keys.Collapse) {
		m.viewMode = ViewList
		return true, nil
	}

	// The detail viewport scrolls with the arrow keys.
	if m.viewMode == ViewDetail && (key.Matches(msg, keys.SelectPrev) || key.Matches(msg, keys.SelectNext)) {
		var cmd tea.Cmd
		m.detailViewport, cmd = m.detailViewport.Update(msg)
		return true, cmd
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		m.mon.Close()
		return true, tea.Quit

	case key.Matches(msg, keys.Refresh):
		return true, m.startRefresh(true)

	case key.Matches(msg, keys.Add):
		return true, m.openAddForm()

	case key.Matches(msg, keys.Delete):
		return true, m.openDeleteForm()

	case key.Matches(msg, keys.Pause):
		m.togglePause()
		return true, nil

	case key.Matches(msg, keys.Slower):
		return true, m.changeMultiplier(1)

	case key.Matches(msg, keys.Faster):
		return true, m.changeMultiplier(-1)

	case key.Matches(msg, keys.Notifications):
		m.toggleNotifications()
		return true, nil

	case key.Matches(msg, keys.CycleSort):
		m.sortOrder = m.sortOrder.Next()
		m.sortStakers()
		return true, nil

	case key.Matches(msg, keys.SelectPrev):
		if m.selected > 0 {
			m.selected--
		}
		return true, nil

	case key.Matches(msg, keys.SelectNext):
		if m.selected < len(m.list)-1 {
			m.selected++
		}
		return true, nil

	case key.Matches(msg, keys.SelectFirst):
		m.selected = 0
		return true, nil

	case key.Matches(msg, keys.SelectLast):
		if len(m.list) > 0 {
			m.selected = len(m.list) - 1
		}
		return true, nil

	case key.Matches(msg, keys.Expand):
		if m.viewMode == ViewList && len(m.list) > 0 {
			m.viewMode = ViewDetail
			m.updateDetailViewportContent()
		}
		return true, nil

	case key.Matches(msg, keys.Collapse):
		m.viewMode = ViewList
		return true, nil
	}

	return false, nil
}
