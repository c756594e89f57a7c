// Package quiz runs vocabulary drill sessions.
package quiz

import (
	"errors"

	"github.com/verte-zerg/lrn/internal/generator"
	"github.com/verte-zerg/lrn/internal/model"
)

// Input tokens recognised in every round.
const (
	QuitToken  = "q"
	SpeakToken = "s"
)

// ErrInvalidState is returned when an operation does not apply to the current state.
var ErrInvalidState = errors.New("invalid session state")

// State is the session's position in the round cycle.
type State int

// Session states. Won and Quit are terminal.
const (
	StateAwaitingEntry State = iota
	StateAwaitingInput
	StateWon
	StateQuit
)

func (s State) String() string {
	switch s {
	case StateAwaitingEntry:
		return "awaiting-entry"
	case StateAwaitingInput:
		return "awaiting-input"
	case StateWon:
		return "won"
	case StateQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Verdict is the result of submitting one line of input.
type Verdict int

// Verdicts returned by Submit.
const (
	VerdictCorrect Verdict = iota
	VerdictIncorrect
	VerdictSpeak
	VerdictQuit
)

// Tally counts validated attempts.
type Tally struct {
	Correct   int
	Incorrect int
}

// Attempts is the number of validated submissions.
func (t Tally) Attempts() int {
	return t.Correct + t.Incorrect
}

// Round is the question currently on screen.
type Round struct {
	Entry  model.Entry
	Prompt string
	// Options is set in word mode.
	Options []string
	// Jumbled is set in scramble mode.
	Jumbled string
	Misses  int
}

// Session holds the state of one run.
type Session struct {
	bank    []model.Entry
	gen     *generator.Generator
	mode    model.Mode
	lang    model.Language
	options int

	used  map[string]struct{}
	tally Tally
	round *Round
	state State
}

// NewSession prepares a session over bank. Mode, Lang and Options are taken from cfg.
func NewSession(bank []model.Entry, gen *generator.Generator, cfg model.Config) *Session {
	mode := cfg.Mode
	if mode == "" {
		mode = model.ModeWords
	}
	lang := cfg.Lang
	if lang == "" {
		lang = model.LangEN
	}
	options := cfg.Options
	if options <= 0 {
		options = generator.DefaultOptions
	}
	return &Session{
		bank:    bank,
		gen:     gen,
		mode:    mode,
		lang:    lang,
		options: options,
		used:    make(map[string]struct{}, len(bank)),
		state:   StateAwaitingEntry,
	}
}

// Next draws the next round. It returns a nil round once every entry is solved,
// leaving the session in StateWon.
func (s *Session) Next() (*Round, error) {
	if s.state != StateAwaitingEntry {
		return nil, ErrInvalidState
	}
	entry, ok := s.gen.Choose(s.bank, s.used)
	if !ok {
		s.round = nil
		s.state = StateWon
		return nil, nil
	}
	round := &Round{
		Entry:  entry,
		Prompt: entry.Prompt(s.lang),
	}
	switch s.mode {
	case model.ModeScramble:
		round.Jumbled = s.gen.Scramble(entry, s.lang)
	default:
		round.Options = s.gen.Options(entry, s.bank, s.lang, s.options)
	}
	s.round = round
	s.state = StateAwaitingInput
	return round, nil
}

// Submit handles one line of input for the current round.
func (s *Session) Submit(input string) (Verdict, error) {
	if s.state != StateAwaitingInput || s.round == nil {
		return 0, ErrInvalidState
	}
	switch normalize(input) {
	case QuitToken:
		s.state = StateQuit
		return VerdictQuit, nil
	case SpeakToken:
		return VerdictSpeak, nil
	}

	entry := s.round.Entry
	if Check(input, entry.Source, entry.Target, s.lang, s.round.Options) {
		s.tally.Correct++
		s.used[entry.Key()] = struct{}{}
		s.state = StateAwaitingEntry
		return VerdictCorrect, nil
	}
	s.tally.Incorrect++
	s.round.Misses++
	return VerdictIncorrect, nil
}

// Quit ends the session from any non-terminal state.
func (s *Session) Quit() {
	if s.Done() {
		return
	}
	s.state = StateQuit
}

// Done reports whether the session reached a terminal state.
func (s *Session) Done() bool {
	return s.state == StateWon || s.state == StateQuit
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Tally returns the attempt counts so far.
func (s *Session) Tally() Tally { return s.tally }

// Round returns the current round, or the last one answered while awaiting the next.
func (s *Session) Round() *Round { return s.round }

// Mode returns the drill mode.
func (s *Session) Mode() model.Mode { return s.mode }

// Lang returns the answer language.
func (s *Session) Lang() model.Language { return s.lang }

// Solved returns how many entries were answered correctly.
func (s *Session) Solved() int { return len(s.used) }

// Size returns the number of entries in the bank.
func (s *Session) Size() int { return len(s.bank) }

// Outcome maps the terminal state to a history outcome.
func (s *Session) Outcome() model.Outcome {
	if s.state == StateWon {
		return model.OutcomeWon
	}
	return model.OutcomeQuit
}
