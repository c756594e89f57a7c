// Package stats contains history calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/lrn/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Accuracy is the share of validated attempts that were correct.
func Accuracy(correct, incorrect int) float64 {
	den := correct + incorrect
	if den <= 0 {
		return 0
	}
	return float64(correct) / float64(den)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints totals across sessions.
func RenderSummary(w io.Writer, sessions []model.SessionRecord) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var wins, correct, incorrect int
	var totalAcc float64
	for _, s := range sessions {
		if s.Outcome == model.OutcomeWon {
			wins++
		}
		correct += s.Correct
		incorrect += s.Incorrect
		totalAcc += Accuracy(s.Correct, s.Incorrect)
	}
	count := float64(len(sessions))
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Won: %d", wins),
		fmt.Sprintf("Correct answers: %d", correct),
		fmt.Sprintf("Incorrect answers: %d", incorrect),
		fmt.Sprintf("Avg Accuracy: %.2f%%", (totalAcc/count)*100),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderAccuracyTrend prints a smoothed accuracy sparkline that fits totalWidth.
func RenderAccuracyTrend(w io.Writer, sessions []model.SessionRecord, window, totalWidth int) error {
	if len(sessions) == 0 {
		return nil
	}
	accs := make([]float64, len(sessions))
	for i, s := range sessions {
		accs[i] = Accuracy(s.Correct, s.Incorrect) * 100
	}
	accs = MovingAverage(accs, window)
	last := accs[len(accs)-1]
	suffix := fmt.Sprintf(" %.1f%%", last)
	accs = Downsample(accs, TrendWidthFor(totalWidth, displayWidth(trendLabel)+1+displayWidth(suffix)))

	if _, err := fmt.Fprintln(w, "Accuracy Trend"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%s|%s\n", trendLabel, Sparkline(accs), suffix); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderSessionTable prints one row per session.
func RenderSessionTable(w io.Writer, sessions []model.SessionRecord) error {
	if len(sessions) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Sessions"); err != nil {
		return err
	}
	headers := []string{"Ended", "Mode", "Lang", "Outcome", "Solved", "Correct", "Incorrect", "Accuracy"}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			string(s.Mode),
			string(s.Lang),
			string(s.Outcome),
			fmt.Sprintf("%d/%d", s.Solved, s.Entries),
			fmt.Sprintf("%d", s.Correct),
			fmt.Sprintf("%d", s.Incorrect),
			fmt.Sprintf("%.2f%%", Accuracy(s.Correct, s.Incorrect)*100),
		})
	}
	rightAlign := map[int]bool{4: true, 5: true, 6: true, 7: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
