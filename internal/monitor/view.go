package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nstake/nstake/internal/notify"
	"github.com/nstake/nstake/internal/ui"
	"github.com/nstake/nstake/internal/util"
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	b.WriteString(m.renderStakerCards())

	if tray := m.renderTray(); tray != "" {
		b.WriteString("\n")
		b.WriteString(tray)
	}

	if m.flash != "" {
		b.WriteString("\n")
		b.WriteString(FlashStyle.Render(m.flash))
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the dashboard header with summary stats.
func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("nstake")

	poll := "every " + formatInterval(m.schedule.Interval())
	if m.schedule.Multiplier > 1 {
		poll += fmt.Sprintf(" (×%d)", m.schedule.Multiplier)
	}

	stats := lipgloss.NewStyle().
		Foreground(ColorTextSecondary).
		Render(fmt.Sprintf(" | %s | total %s | %s",
			util.Stakers(len(m.list)), notify.FormatBalance(m.TotalBalance()), poll))

	header := title + stats
	if m.mon.Paused() {
		header += " " + PausedBadgeStyle.Render("PAUSED")
	}
	if m.mon.NotificationsEnabled() {
		header += " " + NotifyBadgeStyle.Render("NOTIFY")
	}
	switch {
	case m.refresh != nil:
		header += "  " + m.refresh.progress.View()
	case m.lastRefresh != nil:
		header += "  " + m.lastRefresh.View()
	}

	return HeaderStyle.Render(header)
}

// renderStakerCards renders the grid of staker cards.
func (m Model) renderStakerCards() string {
	if len(m.list) == 0 {
		return LabelStyle.Render("No stakers yet. Press a to add one.")
	}

	cardWidth := m.calculateCardWidth()

	cards := make([]string, 0, len(m.list))
	for i, s := range m.list {
		cards = append(cards, m.renderCard(s, cardWidth, i == m.selected))
	}

	return m.layoutCards(cards, cardWidth)
}

// calculateCardWidth determines the card width based on terminal width.
func (m Model) calculateCardWidth() int {
	if m.width == 0 {
		return 40 // Default width
	}
	if m.width >= BreakpointStandard {
		return 38
	}
	w := m.width - 4 // Single column with margin
	if w < cardMinWidth {
		w = cardMinWidth
	}
	return w
}

// layoutCards arranges cards in rows based on terminal width.
func (m Model) layoutCards(cards []string, cardWidth int) string {
	if len(cards) == 0 {
		return ""
	}

	cardsPerRow := 1
	if m.width > 0 {
		// Account for card margins and borders
		effectiveCardWidth := cardWidth + 3
		cardsPerRow = m.width / effectiveCardWidth
		if cardsPerRow < 1 {
			cardsPerRow = 1
		}
	}

	var rows []string
	for i := 0; i < len(cards); i += cardsPerRow {
		end := i + cardsPerRow
		if end > len(cards) {
			end = len(cards)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderTray lists the notifications currently shown by the tray.
func (m Model) renderTray() string {
	if m.tray == nil || !m.mon.NotificationsEnabled() {
		return ""
	}
	list := m.tray.List()
	if len(list) == 0 {
		return ""
	}

	var lines []string
	lines = append(lines, LabelStyle.Render("Notifications"))
	for _, n := range list {
		lines = append(lines, fmt.Sprintf("  %s %s  %s",
			ui.InfoStyle().Render(ui.SymbolProgress),
			StakerNameStyle.Render(n.Title),
			MutedStyle.Render(n.Text)))
	}
	return strings.Join(lines, "\n")
}

// renderFooter renders the keyboard help footer.
func (m Model) renderFooter() string {
	hints := m.help.ShortHelpView(keys.ShortHelp())
	sort := MutedStyle.Render("sort: " + m.sortOrder.String())
	return FooterStyle.Render(hints + "  " + sort)
}

// renderForm renders the open prompt over the header.
func (m Model) renderForm() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.form.form.View())
	b.WriteString("\n")
	b.WriteString(FooterStyle.Render("enter confirm | tab next field | esc cancel"))
	return b.String()
}
