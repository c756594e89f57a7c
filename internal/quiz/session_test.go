package quiz

import (
	"errors"
	"strconv"
	"testing"

	"github.com/verte-zerg/lrn/internal/generator"
	"github.com/verte-zerg/lrn/internal/model"
)

func petBank() []model.Entry {
	return []model.Entry{
		{Source: "cat", Target: "кіт"},
		{Source: "dog", Target: "пес"},
	}
}

func optionNumber(t *testing.T, round *Round, answer string) string {
	t.Helper()
	for i, opt := range round.Options {
		if opt == answer {
			return strconv.Itoa(i + 1)
		}
	}
	t.Fatalf("answer %q missing from options %v", answer, round.Options)
	return ""
}

func TestSessionPlaysUntilWon(t *testing.T) {
	s := NewSession(petBank(), generator.NewWithSeed(11), model.Config{Lang: model.LangEN})
	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		round, err := s.Next()
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if round == nil {
			t.Fatalf("expected round %d", i+1)
		}
		if seen[round.Entry.Key()] {
			t.Fatalf("entry %q drawn twice", round.Entry.Key())
		}
		seen[round.Entry.Key()] = true
		if round.Prompt != round.Entry.Target {
			t.Fatalf("expected ukrainian prompt, got %q", round.Prompt)
		}
		verdict, err := s.Submit(optionNumber(t, round, round.Entry.Source))
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if verdict != VerdictCorrect {
			t.Fatalf("expected correct verdict, got %v", verdict)
		}
		if s.State() != StateAwaitingEntry {
			t.Fatalf("expected awaiting entry, got %s", s.State())
		}
	}
	round, err := s.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if round != nil {
		t.Fatalf("expected no round after all entries are solved")
	}
	if s.State() != StateWon || s.Outcome() != model.OutcomeWon {
		t.Fatalf("expected won, got %s", s.State())
	}
	if got := s.Tally(); got.Correct != 2 || got.Incorrect != 0 {
		t.Fatalf("unexpected tally %+v", got)
	}
	if s.Solved() != 2 {
		t.Fatalf("expected 2 solved, got %d", s.Solved())
	}
}

func TestSessionDogByIndex(t *testing.T) {
	s := NewSession(petBank(), generator.NewWithSeed(2), model.Config{Lang: model.LangEN})
	for {
		round, err := s.Next()
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if round == nil {
			t.Fatalf("dog was never drawn")
		}
		if round.Entry.Source != "dog" {
			if _, err := s.Submit(round.Entry.Source); err != nil {
				t.Fatalf("submit: %v", err)
			}
			continue
		}
		before := s.Tally().Correct
		verdict, err := s.Submit(optionNumber(t, round, "dog"))
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if verdict != VerdictCorrect {
			t.Fatalf("expected correct, got %v", verdict)
		}
		if s.Tally().Correct != before+1 {
			t.Fatalf("expected correct count to increase")
		}
		if _, used := s.used["dog"]; !used {
			t.Fatalf("expected dog marked used")
		}
		return
	}
}

func TestSessionIncorrectKeepsRound(t *testing.T) {
	s := NewSession(petBank(), generator.NewWithSeed(3), model.Config{Lang: model.LangUA})
	round, err := s.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	for i := 1; i <= 2; i++ {
		verdict, err := s.Submit("wrong")
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if verdict != VerdictIncorrect {
			t.Fatalf("expected incorrect, got %v", verdict)
		}
		if s.Round() != round {
			t.Fatalf("expected the same round after a miss")
		}
		if round.Misses != i {
			t.Fatalf("expected %d misses, got %d", i, round.Misses)
		}
	}
	if s.State() != StateAwaitingInput {
		t.Fatalf("expected awaiting input, got %s", s.State())
	}
	if _, err := s.Next(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState from Next mid-round, got %v", err)
	}
	verdict, err := s.Submit(round.Entry.Target)
	if err != nil || verdict != VerdictCorrect {
		t.Fatalf("expected correct typed answer, got %v %v", verdict, err)
	}
	if got := s.Tally(); got.Correct != 1 || got.Incorrect != 2 {
		t.Fatalf("unexpected tally %+v", got)
	}
}

func TestSessionSpeakAndQuitTokens(t *testing.T) {
	s := NewSession(petBank(), generator.NewWithSeed(4), model.Config{})
	if _, err := s.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	verdict, err := s.Submit("S")
	if err != nil || verdict != VerdictSpeak {
		t.Fatalf("expected speak verdict, got %v %v", verdict, err)
	}
	if s.Tally().Attempts() != 0 {
		t.Fatalf("speak must not count as an attempt")
	}
	if s.State() != StateAwaitingInput {
		t.Fatalf("speak must keep the round open")
	}
	verdict, err = s.Submit(" q ")
	if err != nil || verdict != VerdictQuit {
		t.Fatalf("expected quit verdict, got %v %v", verdict, err)
	}
	if !s.Done() || s.Outcome() != model.OutcomeQuit {
		t.Fatalf("expected quit state, got %s", s.State())
	}
	if _, err := s.Submit("cat"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState after quit, got %v", err)
	}
}

func TestSessionSubmitBeforeNext(t *testing.T) {
	s := NewSession(petBank(), generator.NewWithSeed(5), model.Config{})
	if _, err := s.Submit("cat"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestSessionOutOfRangeIndexIsIncorrect(t *testing.T) {
	s := NewSession(petBank(), generator.NewWithSeed(6), model.Config{})
	if _, err := s.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	verdict, err := s.Submit("9")
	if err != nil || verdict != VerdictIncorrect {
		t.Fatalf("expected incorrect, got %v %v", verdict, err)
	}
}

func TestSessionTallyMatchesAttempts(t *testing.T) {
	bank := []model.Entry{
		{Source: "one", Target: "один"},
		{Source: "two", Target: "два"},
		{Source: "three", Target: "три"},
	}
	s := NewSession(bank, generator.NewWithSeed(8), model.Config{Options: 2})
	inputs := []string{"x", "s", "1", "y", "2", "s", "z", "1", "2", "1", "2"}
	validated := 0
	for _, input := range inputs {
		if s.State() == StateAwaitingEntry {
			round, err := s.Next()
			if err != nil {
				t.Fatalf("next: %v", err)
			}
			if round == nil {
				break
			}
			if len(round.Options) != 2 {
				t.Fatalf("expected 2 options, got %v", round.Options)
			}
		}
		verdict, err := s.Submit(input)
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if verdict == VerdictCorrect || verdict == VerdictIncorrect {
			validated++
		}
	}
	if s.Tally().Attempts() != validated {
		t.Fatalf("tally %+v does not match %d validated attempts", s.Tally(), validated)
	}
}

func TestSessionScrambleRound(t *testing.T) {
	bank := []model.Entry{{Source: "I am happy", Target: "Я щасливий", Tense: "Present"}}
	s := NewSession(bank, generator.NewWithSeed(9), model.Config{Mode: model.ModeScramble, Lang: model.LangEN})
	round, err := s.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if round.Options != nil {
		t.Fatalf("expected no options in scramble mode")
	}
	if round.Jumbled == "" {
		t.Fatalf("expected jumbled sentence")
	}
	if verdict, _ := s.Submit("1"); verdict != VerdictIncorrect {
		t.Fatalf("expected numeral to be compared as text in scramble mode")
	}
	if verdict, _ := s.Submit("I AM HAPPY"); verdict != VerdictCorrect {
		t.Fatalf("expected sentence to be accepted")
	}
	if round, _ := s.Next(); round != nil || s.State() != StateWon {
		t.Fatalf("expected won after the only sentence")
	}
}
