package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Dashboard color palette
const (
	// Background colors
	ColorDarkBg    = lipgloss.Color("#0A0A0F") // Deep void
	ColorSurfaceBg = lipgloss.Color("#12121A") // Dark surface
	ColorBorder    = lipgloss.Color("#2A2A4A") // Glass border (purple tint)

	// Semantic colors
	ColorHealthy  = lipgloss.Color("#39FF14") // Neon green
	ColorWarning  = lipgloss.Color("#FFAA00") // Electric amber
	ColorCritical = lipgloss.Color("#FF0055") // Hot red-pink

	// Text colors
	ColorTextPrimary   = lipgloss.Color("#FFFFFF") // Pure white
	ColorTextSecondary = lipgloss.Color("#B4B4D0") // Lavender gray
	ColorTextMuted     = lipgloss.Color("#6B6B8D") // Purple-gray

	// Accent colors - neon pink primary, purple secondary
	ColorAccent    = lipgloss.Color("#FF2E97") // Neon pink
	ColorAccentDim = lipgloss.Color("#BF40FF") // Neon purple

	// Graph colors
	ColorGraph = lipgloss.Color("#00FFFF") // Neon cyan
)

// StaleAfter is how many poll intervals may pass without a successful
// fetch before a card's "updated" line turns amber.
const StaleAfter = 3

// Base styles for the dashboard
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	FlashStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Padding(0, 1)

	// Card styles - no background set here, each line handles its own
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginRight(1).
			MarginBottom(1)

	CardSelectedStyle = CardStyle.
				BorderForeground(ColorAccent)

	// Text styles
	StakerNameStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	BalanceStyle = lipgloss.NewStyle().
			Foreground(ColorGraph).
			Bold(true)

	// Status indicator styles
	StatusStakingStyle = lipgloss.NewStyle().
				Foreground(ColorHealthy)

	StatusIdleStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	StatusWaitingStyle = lipgloss.NewStyle().
				Foreground(ColorTextSecondary)

	PausedBadgeStyle = lipgloss.NewStyle().
				Foreground(ColorDarkBg).
				Background(ColorWarning).
				Bold(true).
				Padding(0, 1)

	NotifyBadgeStyle = lipgloss.NewStyle().
				Foreground(ColorDarkBg).
				Background(ColorAccentDim).
				Bold(true).
				Padding(0, 1)
)

// Status indicator characters
const (
	StatusStaking = "●" // Staking enabled on the node
	StatusIdle    = "○" // Reporting, but not staking
	StatusWaiting = "◇" // No successful fetch yet
)

// StakerStatus is the glyph state of a card.
type StakerStatus int

const (
	StakerWaiting StakerStatus = iota
	StakerIdle
	StakerStaking
)

// String returns a human-readable status string.
func (s StakerStatus) String() string {
	switch s {
	case StakerStaking:
		return "staking"
	case StakerIdle:
		return "not staking"
	default:
		return "waiting"
	}
}

// Glyph returns the styled status indicator.
func (s StakerStatus) Glyph() string {
	switch s {
	case StakerStaking:
		return StatusStakingStyle.Render(StatusStaking)
	case StakerIdle:
		return StatusIdleStyle.Render(StatusIdle)
	default:
		return StatusWaitingStyle.Render(StatusWaiting)
	}
}

// SectionHeader renders a section header with the title on the left and value on the right.
// Format: ╭─ Title ────────────────────────────────────── Value ╮
func SectionHeader(title, value string, width int) string {
	if width < 10 {
		width = 10
	}

	// Left: "╭─ " + title + " ", right: " " + value + " ╮"
	leftWidth := 3 + lipgloss.Width(title) + 1
	rightWidth := 1 + lipgloss.Width(value) + 2

	fillWidth := width - leftWidth - rightWidth
	if fillWidth < 1 {
		fillWidth = 1
	}
	middle := strings.Repeat("─", fillWidth)

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	titleStyle := lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(ColorGraph).Bold(true)

	return borderStyle.Render("╭─ ") +
		titleStyle.Render(title) +
		borderStyle.Render(" "+middle+" ") +
		valueStyle.Render(value) +
		borderStyle.Render(" ╮")
}

// SectionFooter renders the bottom border of a section.
// Format: ╰────────────────────────────────────────────────────╯
func SectionFooter(width int) string {
	if width < 2 {
		width = 2
	}
	middle := strings.Repeat("─", width-2)
	return lipgloss.NewStyle().Foreground(ColorBorder).Render("╰" + middle + "╯")
}

// SectionContentLine renders a content line with left and right borders, properly padded to width.
// Format: │ content                                              │
func SectionContentLine(content string, width int) string {
	if width < 4 {
		width = 4
	}

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)

	// Inner width is total width minus "│ " on the left and " │" on the right
	innerWidth := width - 4
	padding := innerWidth - lipgloss.Width(content)
	if padding < 0 {
		padding = 0
	}

	return borderStyle.Render("│") + " " + content + strings.Repeat(" ", padding) + " " + borderStyle.Render("│")
}
