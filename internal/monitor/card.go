package monitor

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/nstake/nstake/internal/node"
	"github.com/nstake/nstake/internal/notify"
	"github.com/nstake/nstake/internal/report"
	"github.com/nstake/nstake/internal/ui"
)

// Card layout constants
const (
	cardLabelWidth = 11
	cardMinWidth   = 24
)

// cardDividerStyle creates a subtle divider line with matching background
var cardDividerStyle = lipgloss.NewStyle().
	Foreground(ColorBorder).
	Background(ColorSurfaceBg)

// renderCardDivider creates a subtle thin divider line
func renderCardDivider(width int) string {
	return cardDividerStyle.Render(strings.Repeat("─", width))
}

// truncateWithEllipsis truncates a string to maxLen runes, adding ellipsis if needed.
func truncateWithEllipsis(s string, maxLen int) string {
	if maxLen <= 3 {
		return s
	}
	r := []rune(s)
	if len(r) > maxLen {
		return string(r[:maxLen-3]) + "..."
	}
	return s
}

// renderCardLine renders a text line with proper background fill.
// Applies background to the entire line including content and padding.
func renderCardLine(content string, width int) string {
	contentWidth := lipgloss.Width(content)
	padding := ""
	if width > contentWidth {
		padding = strings.Repeat(" ", width-contentWidth)
	}
	lineStyle := lipgloss.NewStyle().Background(ColorSurfaceBg)
	return lineStyle.Render(content + padding)
}

// renderMetricLine renders "label  value" with a fixed label column.
func renderMetricLine(label, value string, width int) string {
	l := LabelStyle.Render(label + strings.Repeat(" ", max(cardLabelWidth-lipgloss.Width(label), 1)))
	return renderCardLine(l+value, width)
}

// statusOf maps a staker's last snapshot to its card glyph state.
func statusOf(s node.Staker) StakerStatus {
	switch {
	case s.Stats == nil:
		return StakerWaiting
	case s.Stats.Staking:
		return StakerStaking
	default:
		return StakerIdle
	}
}

// formatAmount renders a reward figure with four decimals.
func formatAmount(v float64) string {
	return humanize.CommafWithDigits(v, 4)
}

// formatETA renders the expected time to the next stake.
func formatETA(stats *report.Stats, now time.Time) string {
	if stats.ETA == nil {
		return "not staking"
	}
	return humanize.RelTime(*stats.ETA, now, "ago", "from now")
}

// formatSince renders a past time relative to now.
func formatSince(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// renderCard renders a single staker card.
func (m Model) renderCard(s node.Staker, width int, selected bool) string {
	style := CardStyle.Width(width)
	if selected {
		style = CardSelectedStyle.Width(width)
	}

	// Border and padding take 4 columns
	inner := width - 4
	if inner < cardMinWidth-4 {
		inner = cardMinWidth - 4
	}
	now := m.now()

	var lines []string
	lines = append(lines, m.renderStakerLine(s, inner))
	lines = append(lines, renderCardLine(MutedStyle.Render(truncateWithEllipsis(s.URL, inner)), inner))
	lines = append(lines, renderCardDivider(inner))

	if s.Stats == nil {
		lines = append(lines, renderCardLine(LabelStyle.Render("waiting for first report"), inner))
		return style.Render(strings.Join(lines, "\n"))
	}

	st := s.Stats
	lines = append(lines,
		renderMetricLine("Balance", BalanceStyle.Render(notify.FormatBalance(st.Balance)), inner),
	)

	if m.LayoutMode() == LayoutMinimal {
		lines = append(lines,
			renderMetricLine("Next stake", ValueStyle.Render(formatETA(st, now)), inner),
			m.renderUpdatedLine(s, inner),
		)
		return style.Render(strings.Join(lines, "\n"))
	}

	lines = append(lines,
		renderMetricLine("7d avg", ValueStyle.Render(formatAmount(st.Last7dAvg)), inner),
		renderMetricLine("30d avg", ValueStyle.Render(formatAmount(st.Last30dAvg)), inner),
		renderMetricLine("365d avg", ValueStyle.Render(formatAmount(st.Last365dAvg)), inner),
		renderMetricLine("All-time", ValueStyle.Render(formatAmount(st.Alltime)), inner),
		renderMetricLine("Next stake", ValueStyle.Render(formatETA(st, now)), inner),
		renderMetricLine("Last stake", ValueStyle.Render(formatSince(st.LastStake, now)), inner),
	)

	if spark := ui.RenderSparkline(m.history.Balances(s.ID, inner), inner); spark != "" {
		lines = append(lines, renderCardLine(spark, inner))
	}

	lines = append(lines, m.renderUpdatedLine(s, inner))
	return style.Render(strings.Join(lines, "\n"))
}

// renderStakerLine renders the status glyph and name.
func (m Model) renderStakerLine(s node.Staker, width int) string {
	status := statusOf(s)
	name := truncateWithEllipsis(s.Name, width-2)
	return renderCardLine(status.Glyph()+" "+StakerNameStyle.Render(name), width)
}

// renderUpdatedLine shows snapshot age. A staker is never shown as failed,
// only as stale once several intervals pass without a successful fetch.
func (m Model) renderUpdatedLine(s node.Staker, width int) string {
	if s.Updated == nil {
		return renderCardLine(LabelStyle.Render("waiting for first report"), width)
	}
	now := m.now()
	text := "updated " + formatSince(*s.Updated, now)

	style := MutedStyle
	if now.Sub(*s.Updated) > time.Duration(StaleAfter)*m.schedule.Interval() {
		style = lipgloss.NewStyle().Foreground(ColorWarning)
	}
	return renderCardLine(style.Render(text), width)
}
