// Package display holds terminal styles and small rendering helpers.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const clearSequence = "\x1b[H\x1b[2J"

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
)

var (
	tenseLabels = []string{"Past", "Present", "Future"}
	kindLabels  = []string{"Question", "Affirmation", "Negation"}
)

// Success renders text in the success highlight.
func Success(s string) string { return successStyle.Render(s) }

// Failure renders text in the error colour.
func Failure(s string) string { return failureStyle.Render(s) }

// Hint renders muted helper text.
func Hint(s string) string { return hintStyle.Render(s) }

// Prompt renders the question text.
func Prompt(s string) string { return promptStyle.Render(s) }

// TenseLine renders the tense labels with the entry's tense highlighted.
func TenseLine(tense string) string {
	return labelLine(tenseLabels, tense, "      ")
}

// KindLine renders the sentence type labels with the entry's type highlighted.
func KindLine(kind string) string {
	return labelLine(kindLabels, kind, "  ")
}

func labelLine(labels []string, active, sep string) string {
	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		if strings.EqualFold(label, strings.TrimSpace(active)) {
			parts = append(parts, activeStyle.Render(label))
			continue
		}
		parts = append(parts, labelStyle.Render(label))
	}
	return strings.Join(parts, sep)
}

// OptionLines numbers options starting at 1.
func OptionLines(options []string) []string {
	lines := make([]string, 0, len(options))
	for i, opt := range options {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, opt))
	}
	return lines
}

// Screen clears the terminal between rounds.
type Screen struct {
	out io.Writer
	tty bool
}

// NewScreen returns a Screen that only emits escape sequences to terminals.
func NewScreen(out io.Writer) *Screen {
	tty := false
	if f, ok := out.(*os.File); ok {
		tty = term.IsTerminal(int(f.Fd()))
	}
	return &Screen{out: out, tty: tty}
}

// Clear wipes the screen and homes the cursor.
func (s *Screen) Clear() {
	if !s.tty {
		return
	}
	if _, err := io.WriteString(s.out, clearSequence); err != nil {
		// Best-effort clear.
		_ = err
	}
}
