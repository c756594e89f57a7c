package stats

import (
	"os"

	"golang.org/x/term"
)

const (
	trendLabel          = "Accuracy |"
	minTrendWidth       = 10
	terminalWidthBackup = 80
)

// TrendWidthFor returns the sparkline width left after reserved cells.
func TrendWidthFor(totalWidth, reserved int) int {
	if totalWidth <= 0 {
		totalWidth = terminalWidthBackup
	}
	width := totalWidth - reserved
	if width < minTrendWidth {
		width = minTrendWidth
	}
	return width
}

// TerminalWidth reports the stdout width, or a fallback when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// Downsample averages values into at most width buckets. Shorter input is returned as is.
func Downsample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := int(float64(i) * float64(len(values)) / float64(width))
		end := int(float64(i+1) * float64(len(values)) / float64(width))
		if end <= start {
			end = start + 1
		}
		if end > len(values) {
			end = len(values)
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}
