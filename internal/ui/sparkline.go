package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// sparkBlocks are the eight bar heights, lowest first.
var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// RenderSparkline draws the last width balances as one row of bars scaled
// between their own minimum and maximum, colored by TrendColor. Non-finite
// samples are skipped. It returns "" when nothing can be drawn.
func RenderSparkline(balances []float64, width int) string {
	tail := finiteTail(balances, width)
	if len(tail) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, l := range sparkLevels(tail) {
		sb.WriteRune(sparkBlocks[l])
	}
	color := TrendColor(tail[0], tail[len(tail)-1])
	return lipgloss.NewStyle().Foreground(color).Render(sb.String())
}

// finiteTail returns up to width of the most recent finite values.
func finiteTail(values []float64, width int) []float64 {
	if width <= 0 {
		return nil
	}
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	if len(out) > width {
		out = out[len(out)-width:]
	}
	return out
}

// sparkLevels maps values to indexes into sparkBlocks. A flat series sits
// at mid height.
func sparkLevels(values []float64) []int {
	if len(values) == 0 {
		return nil
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	top := len(sparkBlocks) - 1
	levels := make([]int, len(values))
	for i, v := range values {
		if hi == lo {
			levels[i] = len(sparkBlocks) / 2
			continue
		}
		l := int((v - lo) / (hi - lo) * float64(top))
		levels[i] = max(0, min(top, l))
	}
	return levels
}

// TrendColor is green when the balance grew, red when it shrank and cyan
// when it held.
func TrendColor(first, last float64) lipgloss.Color {
	switch {
	case last > first:
		return ColorSuccess
	case last < first:
		return ColorError
	default:
		return ColorInfo
	}
}
