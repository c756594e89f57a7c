// Package model defines shared data structures.
package model

import (
	"strings"
	"time"
)

// Language is the language the user answers in.
type Language string

// Supported answer languages.
const (
	LangEN Language = "en"
	LangUA Language = "ua"
)

// ParseLanguage validates a language code.
func ParseLanguage(s string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LangEN:
		return LangEN, true
	case LangUA:
		return LangUA, true
	default:
		return "", false
	}
}

// Mode selects the kind of drill.
type Mode string

// Drill modes.
const (
	ModeWords    Mode = "words"
	ModeScramble Mode = "scramble"
)

// Entry is one vocabulary unit with an English and a Ukrainian rendering.
type Entry struct {
	Source string
	Target string
	Tense  string
	Kind   string
}

// Key identifies the entry within a session.
func (e Entry) Key() string {
	return e.Source
}

// Answer returns the text expected when answering in lang.
func (e Entry) Answer(lang Language) string {
	if lang == LangUA {
		return e.Target
	}
	return e.Source
}

// Prompt returns the text shown when answering in lang.
func (e Entry) Prompt(lang Language) string {
	if lang == LangUA {
		return e.Source
	}
	return e.Target
}

// Config defines quiz settings.
type Config struct {
	Mode     Mode
	Lang     Language
	DataPath string
	Options  int
	Speech   bool
	Programs []string
	Plain    bool
	History  bool
	LogLevel string
}

// Outcome is how a session ended.
type Outcome string

// Session outcomes.
const (
	OutcomeWon  Outcome = "won"
	OutcomeQuit Outcome = "quit"
)

// SessionRecord captures a finished quiz session.
type SessionRecord struct {
	ID        string
	StartedAt time.Time
	EndedAt   time.Time
	Mode      Mode
	Lang      Language
	DataPath  string
	Entries   int
	Solved    int
	Correct   int
	Incorrect int
	Outcome   Outcome
}

// HistoryFilter narrows the sessions returned for stats.
type HistoryFilter struct {
	Mode Mode
	Last int
}
