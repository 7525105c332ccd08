package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/nstake/nstake/internal/node"
	"github.com/nstake/nstake/internal/notify"
	"github.com/nstake/nstake/internal/ui"
)

// detailGraphHeight is the number of rows of the balance graph.
const detailGraphHeight = 5

// Detail view styles
var (
	detailContainerStyle = lipgloss.NewStyle().
				Padding(1, 2)

	detailSectionStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorder).
				Padding(0, 1).
				MarginBottom(1)
)

// renderDetailView renders the expanded single-staker view.
func (m Model) renderDetailView() string {
	s, ok := m.SelectedStaker()
	if !ok {
		return LabelStyle.Render("No staker selected")
	}

	var b strings.Builder
	b.WriteString(m.renderDetailHeader(s))
	b.WriteString("\n\n")

	if m.viewportReady {
		b.WriteString(m.detailViewport.View())
	} else {
		b.WriteString(m.renderDetailContent(s))
	}

	b.WriteString("\n")
	b.WriteString(m.renderDetailFooter())
	return detailContainerStyle.Render(b.String())
}

// updateDetailViewportContent re-renders the scrollable detail body.
func (m *Model) updateDetailViewportContent() {
	if !m.viewportReady {
		return
	}
	s, ok := m.SelectedStaker()
	if !ok {
		m.detailViewport.SetContent("")
		return
	}
	m.detailViewport.SetContent(m.renderDetailContent(s))
}

func (m Model) renderDetailHeader(s node.Staker) string {
	status := statusOf(s)
	return status.Glyph() + " " + StakerNameStyle.Render(s.Name) + " " +
		MutedStyle.Render("- "+status.String())
}

func (m Model) detailWidth() int {
	w := m.width - 6
	if w < 40 {
		w = 40
	}
	return w
}

// renderDetailContent renders every section of the detail body.
func (m Model) renderDetailContent(s node.Staker) string {
	width := m.detailWidth()
	now := m.now()

	var sections []string

	endpoint := [][2]string{
		{"ID", s.ID},
		{"URL", s.URL},
		{"Report", node.ReportURL(s.URL)},
	}
	if s.Updated != nil {
		endpoint = append(endpoint, [2]string{"Updated",
			fmt.Sprintf("%s (%s)", formatSince(*s.Updated, now), s.Updated.Format(time.RFC3339))})
	}
	sections = append(sections, m.renderSection("Endpoint", "", endpoint, width))

	if s.Stats == nil {
		sections = append(sections, detailSectionStyle.Width(width).Render(
			LabelStyle.Render("Waiting for the first report...")))
		return strings.Join(sections, "\n")
	}

	st := s.Stats
	sections = append(sections, m.renderSection("Wallet", notify.FormatBalance(st.Balance), [][2]string{
		{"Balance", notify.FormatBalance(st.Wallet.Balance)},
		{"Cold staking", notify.FormatBalance(st.Wallet.ColdStaking)},
		{"Immature", notify.FormatBalance(st.Wallet.Immature)},
		{"Unconfirmed", notify.FormatBalance(st.Wallet.Unconfirmed)},
	}, width))

	sections = append(sections, m.renderSection("Rewards", "", [][2]string{
		{"Last 7 days", fmt.Sprintf("%s (avg %s/day)", formatAmount(st.Last7d), formatAmount(st.Last7dAvg))},
		{"Last 30 days", fmt.Sprintf("%s (avg %s/day)", formatAmount(st.Last30d), formatAmount(st.Last30dAvg))},
		{"Last 365 days", fmt.Sprintf("%s (avg %s/day)", formatAmount(st.Last365d), formatAmount(st.Last365dAvg))},
		{"All-time", formatAmount(st.Alltime)},
	}, width))

	staking := "no"
	if st.Staking {
		staking = "yes"
	}
	sections = append(sections, m.renderSection("Staking", "", [][2]string{
		{"Staking", staking},
		{"Next stake", formatETA(st, now)},
		{"Last stake", formatSince(st.LastStake, now)},
	}, width))

	sections = append(sections, m.renderHistorySection(s, width))

	n := notify.Format(notify.Entry{ID: s.ID, Name: s.Name, Stats: st}, now)
	sections = append(sections, m.renderSection("Notification", "", [][2]string{
		{"Title", n.Title},
		{"Text", n.Text},
	}, width))

	return strings.Join(sections, "\n")
}

// renderSection renders a bordered key/value section.
func (m Model) renderSection(title, value string, pairs [][2]string, width int) string {
	var lines []string
	lines = append(lines, SectionHeader(title, value, width))
	for _, line := range strings.Split(strings.TrimRight(ui.RenderKeyValues(pairs), "\n"), "\n") {
		lines = append(lines, SectionContentLine(line, width))
	}
	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}

// renderHistorySection renders the balance graph with its range.
func (m Model) renderHistorySection(s node.Staker, width int) string {
	inner := width - 4
	data := m.history.Balances(s.ID, inner)

	value := fmt.Sprintf("%d samples", len(data))
	var lines []string
	lines = append(lines, SectionHeader("Balance history", value, width))

	if len(data) < 2 {
		lines = append(lines, SectionContentLine(LabelStyle.Render("Collecting history..."), width))
	} else {
		lo, hi := findMinMax(data)
		color := ui.TrendColor(data[0], data[len(data)-1])
		graph := RenderBalanceGraph(data, inner, detailGraphHeight, color)
		for _, row := range strings.Split(graph, "\n") {
			lines = append(lines, SectionContentLine(row, width))
		}
		lines = append(lines, SectionContentLine(MutedStyle.Render(
			fmt.Sprintf("low %s  high %s", notify.FormatBalance(lo), notify.FormatBalance(hi))), width))
	}

	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}

// renderDetailFooter renders help text and scroll position.
func (m Model) renderDetailFooter() string {
	hints := "esc back | d delete | r refresh | ? help"
	if m.viewportReady && m.detailViewport.TotalLineCount() > m.detailViewport.Height {
		hints += fmt.Sprintf(" | %3.0f%%", m.detailViewport.ScrollPercent()*100)
	}
	return FooterStyle.Render(hints)
}
