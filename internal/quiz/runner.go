package quiz

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/verte-zerg/lrn/internal/display"
	"github.com/verte-zerg/lrn/internal/model"
)

// Messages shared by the line and full-screen front-ends.
const (
	HintMessage      = "Enter 's' to speak the word, 'q' to quit the game."
	CorrectMessage   = "Correct!"
	IncorrectMessage = "Incorrect. Try again."
	WonMessage       = "You win! All words have been learned."
	QuitMessage      = "Quitting the game."
)

// Speaker pronounces text.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Screen clears the display between rounds.
type Screen interface {
	Clear()
}

// Runner drives a session over line-oriented input and output.
type Runner struct {
	In      io.Reader
	Out     io.Writer
	Speaker Speaker
	Screen  Screen
	Logger  *zap.Logger
}

// AnswerPrompt returns the input prompt for mode.
func AnswerPrompt(mode model.Mode) string {
	if mode == model.ModeScramble {
		return "> "
	}
	return "Your answer: "
}

// Run plays rounds until the session is won or quit. End of input or a
// canceled ctx quits without scoring the pending line.
func (r *Runner) Run(ctx context.Context, s *Session) error {
	out := &errWriter{w: r.Out}
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()
	lines := readLines(readCtx, r.In)

	out.println(display.Hint(HintMessage))
rounds:
	for !s.Done() {
		round, err := s.Next()
		if err != nil {
			return err
		}
		if round == nil {
			break
		}
		writeRound(out, s.Mode(), round)

		for s.State() == StateAwaitingInput {
			out.print(AnswerPrompt(s.Mode()))
			var res lineResult
			var ok bool
			select {
			case <-ctx.Done():
			case res, ok = <-lines:
			}
			if ctx.Err() != nil || !ok {
				out.println("")
				s.Quit()
				break rounds
			}
			if res.err != nil {
				if !errors.Is(res.err, io.EOF) {
					return fmt.Errorf("failed to read answer: %w", res.err)
				}
				if res.line == "" {
					out.println("")
					s.Quit()
					break rounds
				}
			}
			verdict, err := s.Submit(res.line)
			if err != nil {
				return err
			}
			switch verdict {
			case VerdictSpeak:
				r.speak(ctx, logger, round.Entry.Source)
			case VerdictCorrect:
				out.println(display.Success(CorrectMessage))
				r.speak(ctx, logger, round.Entry.Source)
				if r.Screen != nil {
					r.Screen.Clear()
				}
			case VerdictIncorrect:
				out.println(display.Failure(IncorrectMessage))
			}
		}
	}

	if err := WriteSummary(out, s); err != nil {
		return err
	}
	return out.err
}

type lineResult struct {
	line string
	err  error
}

// readLines delivers input lines until a read fails or ctx is canceled.
// A read already in progress when ctx is canceled is discarded.
func readLines(ctx context.Context, in io.Reader) <-chan lineResult {
	lines := make(chan lineResult)
	go func() {
		defer close(lines)
		reader := bufio.NewReader(in)
		for {
			line, err := reader.ReadString('\n')
			select {
			case lines <- lineResult{line: line, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return lines
}

func (r *Runner) speak(ctx context.Context, logger *zap.Logger, text string) {
	if r.Speaker == nil {
		return
	}
	if err := r.Speaker.Speak(ctx, text); err != nil {
		logger.Warn("speech synthesis failed", zap.String("text", text), zap.Error(err))
	}
}

func writeRound(out *errWriter, mode model.Mode, round *Round) {
	if mode == model.ModeScramble {
		out.println(display.TenseLine(round.Entry.Tense))
		out.println(display.KindLine(round.Entry.Kind))
		out.println("")
		out.println(display.Prompt(round.Prompt))
		out.println(round.Jumbled)
		return
	}
	out.println("")
	out.println("Translation: " + display.Prompt(round.Prompt))
	for _, line := range display.OptionLines(round.Options) {
		out.println(line)
	}
}

// WriteSummary prints the closing message and the final tally.
func WriteSummary(w io.Writer, s *Session) error {
	lines := []string{QuitMessage}
	if s.State() == StateWon {
		lines = []string{display.Success(WonMessage)}
	}
	tally := s.Tally()
	lines = append(lines,
		fmt.Sprintf("Correct answers: %d", tally.Correct),
		fmt.Sprintf("Incorrect answers: %d", tally.Incorrect),
	)
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}

func (e *errWriter) print(s string) {
	_, _ = io.WriteString(e, s)
}

func (e *errWriter) println(s string) {
	e.print(s + "\n")
}
