// Package tui provides the Bubble Tea drill interface.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/lrn/internal/display"
	"github.com/verte-zerg/lrn/internal/model"
	"github.com/verte-zerg/lrn/internal/quiz"
)

// Model implements the Bubble Tea drill UI.
type Model struct {
	ctx     context.Context
	session *quiz.Session
	speaker quiz.Speaker
	logger  *zap.Logger

	input    textinput.Model
	round    *quiz.Round
	feedback string
	notice   string
	busy     bool
	err      error

	width  int
	height int
}

var (
	promptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	optionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	jumbledStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

type speechDoneMsg struct {
	err     error
	advance bool
}

// NewModel constructs a drill model and draws the first round.
func NewModel(ctx context.Context, session *quiz.Session, speaker quiz.Speaker, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	input := textinput.New()
	input.Prompt = quiz.AnswerPrompt(session.Mode())
	input.CharLimit = 256
	input.Focus()

	m := &Model{
		ctx:     ctx,
		session: session,
		speaker: speaker,
		logger:  logger,
		input:   input,
	}
	m.advance()
	return m
}

// Err returns the error that stopped the program, if any.
func (m *Model) Err() error {
	return m.err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.session.Done() {
		return tea.Quit
	}
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if w := m.contentWidth() - lipgloss.Width(m.input.Prompt) - 1; w > 0 {
			m.input.Width = w
		}
		return m, nil
	case speechDoneMsg:
		return m.handleSpeechDone(msg)
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.session.Quit()
			return m, tea.Quit
		case tea.KeyEnter:
			if m.busy {
				return m, nil
			}
			return m.submit()
		}
		if m.busy {
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submit() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	m.input.Reset()
	verdict, err := m.session.Submit(value)
	if err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.notice = ""
	switch verdict {
	case quiz.VerdictQuit:
		return m, tea.Quit
	case quiz.VerdictSpeak:
		return m, m.speak(false)
	case quiz.VerdictCorrect:
		m.feedback = correctStyle.Render(quiz.CorrectMessage)
		return m, m.speak(true)
	default:
		m.feedback = incorrectStyle.Render(quiz.IncorrectMessage)
		return m, nil
	}
}

func (m *Model) speak(advance bool) tea.Cmd {
	if m.speaker == nil || m.round == nil {
		return func() tea.Msg { return speechDoneMsg{advance: advance} }
	}
	m.busy = true
	ctx := m.ctx
	speaker := m.speaker
	text := m.round.Entry.Source
	return func() tea.Msg {
		return speechDoneMsg{err: speaker.Speak(ctx, text), advance: advance}
	}
}

func (m *Model) handleSpeechDone(msg speechDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		m.logger.Warn("speech synthesis failed", zap.Error(msg.err))
		m.notice = "Speech unavailable: " + msg.err.Error()
	}
	if !msg.advance {
		return m, nil
	}
	if err := m.advance(); err != nil {
		m.err = err
		return m, tea.Quit
	}
	if m.session.Done() {
		return m, tea.Quit
	}
	m.feedback = ""
	return m, tea.ClearScreen
}

func (m *Model) advance() error {
	if m.session.State() != quiz.StateAwaitingEntry {
		return nil
	}
	round, err := m.session.Next()
	if err != nil {
		return err
	}
	m.round = round
	return nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.round == nil || m.session.Done() {
		return ""
	}
	width := m.contentWidth()
	lines := []string{display.Hint(quiz.HintMessage), ""}
	if m.session.Mode() == model.ModeScramble {
		lines = append(lines,
			display.TenseLine(m.round.Entry.Tense),
			display.KindLine(m.round.Entry.Kind),
			"",
			wrapText(m.round.Prompt, width, promptStyle),
			wrapText(m.round.Jumbled, width, jumbledStyle),
		)
	} else {
		lines = append(lines, wrapText("Translation: "+m.round.Prompt, width, promptStyle), "")
		for _, line := range display.OptionLines(m.round.Options) {
			lines = append(lines, wrapText(line, width, optionStyle))
		}
	}
	lines = append(lines, "")
	if m.feedback != "" {
		lines = append(lines, m.feedback)
	}
	if m.notice != "" {
		lines = append(lines, wrapText(m.notice, width, noticeStyle))
	}
	lines = append(lines, m.input.View())
	content := lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))

	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	width := int(float64(m.width) * 0.70)
	if width < 20 {
		width = m.width
	}
	return width
}

func (m *Model) renderFooter() string {
	tally := m.session.Tally()
	segments := []string{
		fmt.Sprintf("Learned %d/%d", m.session.Solved(), m.session.Size()),
		fmt.Sprintf("Correct %d", tally.Correct),
		fmt.Sprintf("Incorrect %d", tally.Incorrect),
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
