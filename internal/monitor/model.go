package monitor

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nstake/nstake/internal/errors"
	"github.com/nstake/nstake/internal/logger"
	"github.com/nstake/nstake/internal/node"
	"github.com/nstake/nstake/internal/notify"
	"github.com/nstake/nstake/internal/ui"
)

// LayoutMode represents the responsive layout mode based on terminal size.
type LayoutMode int

const (
	// LayoutMinimal is for terminals < 80 columns: no sparklines, single column
	LayoutMinimal LayoutMode = iota
	// LayoutStandard is for terminals 80-160 columns
	LayoutStandard
	// LayoutWide is for terminals 160+ columns
	LayoutWide
)

// Width breakpoints for layout modes
const (
	BreakpointStandard = 80
	BreakpointWide     = 160
)

// Options configures the dashboard.
type Options struct {
	Monitor  *node.Monitor
	Schedule node.Schedule

	// Tray is rendered under the cards while notifications are on.
	Tray   *notify.Tray
	Logger logger.Logger

	// OnSchedule persists a multiplier change. An error is shown, and the
	// new schedule stays in effect for this session.
	OnSchedule func(node.Schedule) error

	Now func() time.Time
}

// Model is the Bubble Tea model for the staking dashboard.
//
// The model is the owner of its node.Monitor: every Monitor call happens
// from Update, and fetch results arrive as resultMsg.
type Model struct {
	ctx        context.Context
	mon        *node.Monitor
	schedule   node.Schedule
	tray       *notify.Tray
	log        logger.Logger
	onSchedule func(node.Schedule) error
	now        func() time.Time

	list      []node.Staker // display order
	selected  int
	sortOrder SortOrder
	history   *History

	width    int
	height   int
	quitting bool
	viewMode ViewMode
	showHelp bool
	help     help.Model
	flash    string

	// tickGen invalidates ticks scheduled before the last schedule change.
	tickGen     int
	refresh     *refreshState
	lastRefresh *ui.FetchProgress

	form *pendingForm

	initCmd tea.Cmd

	// Detail view viewport for scrollable content
	detailViewport viewport.Model
	viewportReady  bool
}

// refreshState ties the latest tracked refresh to its progress indicator.
// signalled counts completion tokens, so applyResult can tell which results
// belong to this refresh.
type refreshState struct {
	signalled int
	progress  *ui.FetchProgress
}

// tickMsg signals a periodic refresh.
type tickMsg struct {
	gen int
	at  time.Time
}

// resultMsg carries one fetch outcome from the monitor.
type resultMsg struct {
	res node.Result
}

// NewModel creates a dashboard over a hydrated monitor and starts the initial
// refresh.
func NewModel(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Schedule.Validate() != nil {
		opts.Schedule = node.DefaultSchedule()
	}

	m := Model{
		ctx:        context.Background(),
		mon:        opts.Monitor,
		schedule:   opts.Schedule,
		tray:       opts.Tray,
		log:        opts.Logger,
		onSchedule: opts.OnSchedule,
		now:        opts.Now,
		history:    NewHistory(DefaultHistorySize),
		help:       help.New(),
	}
	m.sortStakers()
	for _, s := range m.list {
		m.recordBalance(s)
	}
	m.initCmd = m.startRefresh(false)
	return m
}

// Init starts the tick timer, the result listener and the spinner for the
// initial refresh.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tickCmd(), listenCmd(m.mon.Results()), m.initCmd)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+c" {
		m.quitting = true
		m.mon.Close()
		return m, tea.Quit
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.flash = ""
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.resize(msg)

	case tickMsg:
		if msg.gen != m.tickGen {
			return m, nil
		}
		return m, tea.Batch(m.tickCmd(), m.startRefresh(false))

	case resultMsg:
		m.applyResult(msg.res)
		return m, listenCmd(m.mon.Results())

	case spinner.TickMsg:
		return m, m.animateRefresh(msg)
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.form != nil {
		return m.renderForm()
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	if m.viewMode == ViewDetail {
		return m.renderDetailView()
	}
	return m.renderDashboard()
}

// tickCmd returns a command that sends a tick after the poll interval.
func (m Model) tickCmd() tea.Cmd {
	gen := m.tickGen
	return tea.Tick(m.schedule.Interval(), func(t time.Time) tea.Msg {
		return tickMsg{gen: gen, at: t}
	})
}

// listenCmd waits for the next fetch result.
func listenCmd(results <-chan node.Result) tea.Cmd {
	return func() tea.Msg {
		res, ok := <-results
		if !ok {
			return nil
		}
		return resultMsg{res: res}
	}
}

func (m *Model) resize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width

	// Reserve space for header and footer
	headerHeight := 3
	footerHeight := 2
	viewportHeight := m.height - headerHeight - footerHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	if !m.viewportReady {
		m.detailViewport = viewport.New(m.width, viewportHeight)
		m.detailViewport.YPosition = headerHeight
		m.viewportReady = true
	} else {
		m.detailViewport.Width = m.width
		m.detailViewport.Height = viewportHeight
	}

	if m.viewMode == ViewDetail {
		m.updateDetailViewportContent()
	}
}

// startRefresh refreshes every staker and tracks completion with the spinner.
// manual refreshes explain why nothing started.
func (m *Model) startRefresh(manual bool) tea.Cmd {
	rs := &refreshState{}
	n := m.mon.Refresh(node.CompletionFunc(func() { rs.signalled++ }))
	if n == 0 {
		if manual {
			switch {
			case m.mon.Paused():
				m.flash = "Polling is paused, press p to resume"
			case m.mon.Len() == 0:
				m.flash = "No stakers yet, press a to add one"
			}
		}
		return nil
	}

	rs.progress = ui.NewFetchProgress(n, m.now())
	m.refresh = rs
	return rs.progress.Tick()
}

// animateRefresh forwards spinner ticks to the running refresh indicator.
func (m *Model) animateRefresh(msg spinner.TickMsg) tea.Cmd {
	if m.refresh == nil {
		return nil
	}
	return m.refresh.progress.Update(msg)
}

// applyResult hands a fetch result to the monitor and updates the view state.
func (m *Model) applyResult(res node.Result) {
	rs := m.refresh
	var before int
	if rs != nil {
		before = rs.signalled
	}

	if err := m.mon.Apply(m.ctx, res); err != nil {
		m.flash = errors.Summary(err)
	}

	m.sortStakers()
	if res.Err == nil {
		if s, ok := m.staker(res.StakerID); ok {
			m.recordBalance(s)
		}
	}

	if rs != nil && rs.signalled > before {
		rs.progress.Record(res.Err == nil, m.now())
		if rs.progress.Finished() {
			m.lastRefresh = rs.progress
			m.refresh = nil
		}
	}

	if m.viewMode == ViewDetail {
		m.updateDetailViewportContent()
	}
}

func (m *Model) recordBalance(s node.Staker) {
	if s.Stats == nil || s.Updated == nil {
		return
	}
	m.history.Push(s.ID, *s.Updated, s.Stats.Balance)
}

func (m *Model) togglePause() {
	want := !m.mon.Paused()
	if got := m.mon.SetPaused(want); got != want {
		m.flash = "Pause ignored: lifecycle.honor_pause is off"
		return
	}
	if want {
		m.flash = "Polling paused"
	} else {
		m.flash = "Polling resumed"
	}
}

// changeMultiplier moves the poll multiplier by delta and restarts the tick.
func (m *Model) changeMultiplier(delta int) tea.Cmd {
	s, err := m.schedule.WithMultiplier(m.schedule.Multiplier + delta)
	if err != nil {
		m.flash = "Poll multiplier can't go below 1"
		return nil
	}

	m.schedule = s
	m.tickGen++
	m.flash = "Polling every " + formatInterval(s.Interval())

	if m.onSchedule != nil {
		if err := m.onSchedule(s); err != nil {
			m.log.Error("%v", errors.Summary(err))
			m.flash = errors.Summary(err)
		}
	}
	return m.tickCmd()
}

func (m *Model) toggleNotifications() {
	on := !m.mon.NotificationsEnabled()
	if err := m.mon.SetNotifications(on); err != nil {
		m.log.Error("%v", errors.Summary(err))
		m.flash = errors.Summary(err)
		return
	}
	if on {
		m.flash = "Notifications on"
	} else {
		m.flash = "Notifications off"
	}
}

// sortStakers snapshots the monitor's list in the current sort order.
// Preserves the selected staker by id.
func (m *Model) sortStakers() {
	selectedID := m.SelectedID()

	m.list = m.mon.Stakers()
	switch m.sortOrder {
	case SortByName:
		sort.SliceStable(m.list, func(i, j int) bool {
			return strings.ToLower(m.list[i].Name) < strings.ToLower(m.list[j].Name)
		})
	case SortByBalance:
		sort.SliceStable(m.list, func(i, j int) bool {
			si, sj := m.list[i].Stats, m.list[j].Stats
			// Stakers without stats go to the end
			if si == nil || sj == nil {
				return si != nil && sj == nil
			}
			return si.Balance > sj.Balance
		})
	}

	if selectedID != "" {
		for i, s := range m.list {
			if s.ID == selectedID {
				m.selected = i
				return
			}
		}
	}
	if m.selected >= len(m.list) {
		m.selected = len(m.list) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// SelectedID returns the id of the selected staker, or "".
func (m Model) SelectedID() string {
	if m.selected >= 0 && m.selected < len(m.list) {
		return m.list[m.selected].ID
	}
	return ""
}

// SelectedStaker returns the selected staker.
func (m Model) SelectedStaker() (node.Staker, bool) {
	if m.selected >= 0 && m.selected < len(m.list) {
		return m.list[m.selected], true
	}
	return node.Staker{}, false
}

func (m Model) staker(id string) (node.Staker, bool) {
	for _, s := range m.list {
		if s.ID == id {
			return s, true
		}
	}
	return node.Staker{}, false
}

// monitorIndex maps a staker id to its position in the monitor's list.
func (m Model) monitorIndex(id string) int {
	for i, s := range m.mon.Stakers() {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Schedule returns the dashboard's poll schedule.
func (m Model) Schedule() node.Schedule {
	return m.schedule
}

// Refreshing reports whether a tracked refresh is still outstanding.
func (m Model) Refreshing() bool {
	return m.refresh != nil
}

// LayoutMode returns the current layout mode based on terminal width.
func (m Model) LayoutMode() LayoutMode {
	switch {
	case m.width >= BreakpointWide:
		return LayoutWide
	case m.width >= BreakpointStandard || m.width == 0:
		return LayoutStandard
	default:
		return LayoutMinimal
	}
}

// TotalBalance sums the balance of every staker with stats.
func (m Model) TotalBalance() float64 {
	var total float64
	for _, s := range m.list {
		if s.Stats != nil {
			total += s.Stats.Balance
		}
	}
	return total
}

// formatInterval renders a poll interval compactly, like 1m or 90s.
func formatInterval(d time.Duration) string {
	switch {
	case d%time.Hour == 0:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d%time.Minute == 0:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return d.String()
	}
}
