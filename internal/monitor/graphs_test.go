package monitor

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMinMax(t *testing.T) {
	lo, hi := findMinMax([]float64{3, 1, 4, 1, 5})
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 5.0, hi)

	lo, hi = findMinMax(nil)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 0.0, hi)
}

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		name          string
		val, min, max float64
		expect        float64
	}{
		{"min", 10, 10, 20, 0},
		{"max", 20, 10, 20, 1},
		{"mid", 15, 10, 20, 0.5},
		{"flat range", 7, 7, 7, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expect, normalizeValue(tt.val, tt.min, tt.max), 1e-9)
		})
	}
}

func TestClampInt(t *testing.T) {
	assert.Equal(t, 0, clampInt(-3, 10))
	assert.Equal(t, 10, clampInt(30, 10))
	assert.Equal(t, 4, clampInt(4, 10))
}

func TestResampleData(t *testing.T) {
	assert.Nil(t, resampleData(nil, 5))
	assert.Nil(t, resampleData([]float64{1}, 0))
	assert.Equal(t, []float64{1, 2, 3}, resampleData([]float64{1, 2, 3}, 3))
	assert.Equal(t, []float64{7, 7, 7}, resampleData([]float64{7}, 3))
}

func TestResampleData_DownsamplingPreservesPeaks(t *testing.T) {
	data := []float64{1, 9, 1, 1, 1, 1, 1, 8}
	out := resampleData(data, 4)
	require.Len(t, out, 4)
	assert.Equal(t, 9.0, out[0])
	assert.Equal(t, 8.0, out[3])
}

func TestResampleData_UpsamplingInterpolates(t *testing.T) {
	out := resampleData([]float64{0, 10}, 3)
	assert.Equal(t, []float64{0, 5, 10}, out)
}

func TestRenderBalanceGraph(t *testing.T) {
	assert.Equal(t, "", RenderBalanceGraph(nil, 10, 3, ColorGraph))
	assert.Equal(t, "", RenderBalanceGraph([]float64{1}, 0, 3, ColorGraph))

	graph := RenderBalanceGraph([]float64{100, 100.5, 101}, 3, 3, lipgloss.Color("#00FFFF"))
	rows := strings.Split(graph, "\n")
	require.Len(t, rows, 3)

	// the maximum fills its column, the minimum keeps a baseline
	assert.NotEqual(t, ' ', []rune(rows[0])[2])
	assert.Equal(t, ' ', []rune(rows[0])[0])
	assert.NotEqual(t, ' ', []rune(rows[2])[0])
}

func TestRenderBalanceGraph_RightAligned(t *testing.T) {
	graph := RenderBalanceGraph([]float64{1, 2}, 6, 2, ColorGraph)
	rows := strings.Split(graph, "\n")
	require.Len(t, rows, 2)

	bottom := []rune(rows[1])
	require.Len(t, bottom, 6)
	assert.Equal(t, "    ", string(bottom[:4]))
	assert.NotEqual(t, ' ', bottom[5])
}

func TestRenderBalanceGraph_FlatSeriesMidHeight(t *testing.T) {
	graph := RenderBalanceGraph([]float64{5, 5, 5, 5}, 4, 4, ColorGraph)
	rows := strings.Split(graph, "\n")
	require.Len(t, rows, 4)
	assert.Equal(t, "    ", rows[0])
	assert.Equal(t, "    ", rows[1])
	assert.NotContains(t, rows[3], " ")
}
