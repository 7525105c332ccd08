package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// RenderTable renders rows under titles as a static table for CLI
// output. Each column is as wide as its longest cell, capped at maxWidth
// when maxWidth > 0. Rows shorter than titles get blank cells.
func RenderTable(titles []string, rows [][]string, maxWidth int) string {
	if len(rows) == 0 {
		return ""
	}

	body := make([]table.Row, len(rows))
	for i, row := range rows {
		cells := make(table.Row, len(titles))
		copy(cells, row)
		body[i] = cells
	}

	t := table.New(
		table.WithColumns(columnsFor(titles, body, maxWidth)),
		table.WithRows(body),
		table.WithFocused(false),
		table.WithHeight(len(body)+1),
	)
	t.SetStyles(tableStyles())
	return t.View()
}

func columnsFor(titles []string, rows []table.Row, maxWidth int) []table.Column {
	cols := make([]table.Column, len(titles))
	for i, title := range titles {
		w := lipgloss.Width(title)
		for _, row := range rows {
			w = max(w, lipgloss.Width(row[i]))
		}
		if maxWidth > 0 {
			w = min(w, maxWidth)
		}
		// one cell of padding so adjacent columns never touch
		cols[i] = table.Column{Title: title, Width: w + 1}
	}
	return cols
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.Foreground(ColorPrimary)
	// nothing is focused, but bubbles still paints row 0 as selected
	s.Selected = lipgloss.NewStyle().Foreground(ColorPrimary)
	return s
}

// RenderKeyValues renders one "key  value" line per pair with the keys
// muted and aligned.
func RenderKeyValues(pairs [][2]string) string {
	width := 0
	for _, p := range pairs {
		width = max(width, lipgloss.Width(p[0]))
	}

	key := MutedStyle().Width(width)
	var sb strings.Builder
	for _, p := range pairs {
		sb.WriteString(key.Render(p[0]))
		sb.WriteString("  ")
		sb.WriteString(p[1])
		sb.WriteByte('\n')
	}
	return sb.String()
}
