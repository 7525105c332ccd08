package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// findMinMax returns the minimum and maximum values in a slice.
func findMinMax(data []float64) (minVal, maxVal float64) {
	if len(data) == 0 {
		return 0, 0
	}
	minVal, maxVal = data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

// normalizeValue converts a value to 0-1 range given min/max bounds.
func normalizeValue(val, minVal, maxVal float64) float64 {
	if maxVal > minVal {
		return (val - minVal) / (maxVal - minVal)
	}
	return 0.5
}

// clampInt clamps an integer to a range [0, maxVal].
func clampInt(val, maxVal int) int {
	if val < 0 {
		return 0
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// RenderBalanceGraph renders a multi-row graph of balance history.
// Values are scaled between the series minimum and maximum, so small
// reward deltas on a large balance stay visible. Each column is one
// resampled point, filled from the bottom with block characters.
func RenderBalanceGraph(data []float64, width, height int, color lipgloss.Color) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minVal, maxVal := findMinMax(data)

	resampled := data
	if len(data) > width {
		resampled = resampleData(data, width)
	}

	// Right-align when there is less history than width
	offset := width - len(resampled)

	rows := make([]strings.Builder, height)
	fillChars := []rune{'█', '▓', '▒', '░'}
	totalLevels := height * 2 // half-row resolution via the partial char

	for col := 0; col < width; col++ {
		if col < offset {
			for row := range rows {
				rows[row].WriteRune(' ')
			}
			continue
		}

		val := resampled[col-offset]
		// Flat series sit at mid height
		levels := clampInt(int(normalizeValue(val, minVal, maxVal)*float64(totalLevels)), totalLevels)
		if levels == 0 {
			levels = 1 // keep the baseline visible
		}
		full := levels / 2
		half := levels % 2

		for row := 0; row < height; row++ {
			fromBottom := height - 1 - row
			switch {
			case fromBottom < full:
				charIdx := clampInt(fromBottom*len(fillChars)/height, len(fillChars)-2)
				rows[row].WriteRune(fillChars[charIdx])
			case fromBottom == full && half == 1:
				rows[row].WriteRune(fillChars[len(fillChars)-1])
			default:
				rows[row].WriteRune(' ')
			}
		}
	}

	style := lipgloss.NewStyle().Foreground(color)
	lines := make([]string, height)
	for i := range rows {
		lines[i] = style.Render(rows[i].String())
	}
	return strings.Join(lines, "\n")
}

// resampleData resamples data to the target size.
// When downsampling (compressing), uses max-based sampling to preserve peaks/spikes.
// When upsampling (expanding), uses linear interpolation.
func resampleData(data []float64, targetSize int) []float64 {
	if len(data) == 0 || targetSize <= 0 {
		return nil
	}

	if len(data) == targetSize {
		return data
	}

	result := make([]float64, targetSize)

	if len(data) == 1 {
		for i := range result {
			result[i] = data[0]
		}
		return result
	}

	// Downsampling: use max within each bucket to preserve peaks
	if len(data) > targetSize {
		bucketSize := float64(len(data)) / float64(targetSize)
		for i := 0; i < targetSize; i++ {
			start := int(float64(i) * bucketSize)
			end := int(float64(i+1) * bucketSize)
			if end > len(data) {
				end = len(data)
			}
			if start >= end {
				start = end - 1
			}
			if start < 0 {
				start = 0
			}

			maxVal := data[start]
			for j := start + 1; j < end; j++ {
				if data[j] > maxVal {
					maxVal = data[j]
				}
			}
			result[i] = maxVal
		}
		return result
	}

	// Upsampling: linear interpolation
	if targetSize == 1 {
		result[0] = data[len(data)-1]
		return result
	}
	scale := float64(len(data)-1) / float64(targetSize-1)
	for i := 0; i < targetSize; i++ {
		pos := float64(i) * scale
		idx := int(pos)
		frac := pos - float64(idx)

		if idx >= len(data)-1 {
			result[i] = data[len(data)-1]
		} else {
			result[i] = data[idx]*(1-frac) + data[idx+1]*frac
		}
	}

	return result
}
