package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// wrapText breaks text at spaces so no line exceeds width cells, then styles
// each line. Words wider than width are split. A width of zero disables wrapping.
func wrapText(text string, width int, style lipgloss.Style) string {
	lines := wrapLines(text, width)
	for i, line := range lines {
		lines[i] = style.Render(line)
	}
	return strings.Join(lines, "\n")
}

func wrapLines(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	var lines []string
	var line strings.Builder
	lineWidth := 0
	for _, word := range strings.Fields(text) {
		for _, piece := range splitWord(word, width) {
			pieceWidth := runewidth.StringWidth(piece)
			if lineWidth > 0 && lineWidth+1+pieceWidth > width {
				lines = append(lines, line.String())
				line.Reset()
				lineWidth = 0
			}
			if lineWidth > 0 {
				line.WriteByte(' ')
				lineWidth++
			}
			line.WriteString(piece)
			lineWidth += pieceWidth
		}
	}
	if lineWidth > 0 || len(lines) == 0 {
		lines = append(lines, line.String())
	}
	return lines
}

func splitWord(word string, width int) []string {
	if runewidth.StringWidth(word) <= width {
		return []string{word}
	}
	var pieces []string
	var piece strings.Builder
	pieceWidth := 0
	for _, r := range word {
		w := runewidth.RuneWidth(r)
		if pieceWidth > 0 && pieceWidth+w > width {
			pieces = append(pieces, piece.String())
			piece.Reset()
			pieceWidth = 0
		}
		piece.WriteRune(r)
		pieceWidth += w
	}
	if pieceWidth > 0 {
		pieces = append(pieces, piece.String())
	}
	return pieces
}
