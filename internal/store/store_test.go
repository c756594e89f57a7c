package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/lrn/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "lrn.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	})
	return s
}

func record(mode model.Mode, endedAt time.Time, correct, incorrect int) model.SessionRecord {
	return model.SessionRecord{
		ID:        uuid.NewString(),
		StartedAt: endedAt.Add(-time.Minute),
		EndedAt:   endedAt,
		Mode:      mode,
		Lang:      model.LangEN,
		DataPath:  "data.json",
		Entries:   3,
		Solved:    correct,
		Correct:   correct,
		Incorrect: incorrect,
		Outcome:   model.OutcomeQuit,
	}
}

func TestInsertAndListSessions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	first := record(model.ModeWords, base, 3, 1)
	first.Outcome = model.OutcomeWon
	second := record(model.ModeScramble, base.Add(time.Hour), 1, 2)
	for _, rec := range []model.SessionRecord{second, first} {
		if err := s.InsertSession(ctx, rec); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	sessions, err := s.ListSessions(ctx, model.HistoryFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].ID != first.ID || sessions[1].ID != second.ID {
		t.Fatalf("expected oldest first, got %s then %s", sessions[0].ID, sessions[1].ID)
	}
	got := sessions[0]
	if !got.EndedAt.Equal(first.EndedAt) || !got.StartedAt.Equal(first.StartedAt) {
		t.Fatalf("timestamps not preserved: %+v", got)
	}
	if got.Mode != model.ModeWords || got.Lang != model.LangEN || got.Outcome != model.OutcomeWon {
		t.Fatalf("unexpected record %+v", got)
	}
	if got.Correct != 3 || got.Incorrect != 1 || got.Entries != 3 || got.Solved != 3 || got.DataPath != "data.json" {
		t.Fatalf("unexpected counts %+v", got)
	}
}

func TestListSessionsFilters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	var words []model.SessionRecord
	for i := 0; i < 4; i++ {
		rec := record(model.ModeWords, base.Add(time.Duration(i)*time.Hour), i, 0)
		words = append(words, rec)
		if err := s.InsertSession(ctx, rec); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	if err := s.InsertSession(ctx, record(model.ModeScramble, base.Add(10*time.Hour), 1, 0)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	scramble, err := s.ListSessions(ctx, model.HistoryFilter{Mode: model.ModeScramble})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(scramble) != 1 || scramble[0].Mode != model.ModeScramble {
		t.Fatalf("expected one scramble session, got %+v", scramble)
	}

	last, err := s.ListSessions(ctx, model.HistoryFilter{Mode: model.ModeWords, Last: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(last) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(last))
	}
	if last[0].ID != words[2].ID || last[1].ID != words[3].ID {
		t.Fatalf("expected the two most recent word sessions in order")
	}
}

func TestInsertSessionRequiresID(t *testing.T) {
	s := openTestStore(t)
	rec := record(model.ModeWords, time.Now(), 1, 0)
	rec.ID = ""
	if err := s.InsertSession(context.Background(), rec); err == nil {
		t.Fatalf("expected error for record without id")
	}
}

func TestOpenReusesExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lrn.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.InsertSession(context.Background(), record(model.ModeWords, time.Now(), 1, 0)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() {
		if err := reopened.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}()
	sessions, err := reopened.ListSessions(context.Background(), model.HistoryFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session after reopen, got %d", len(sessions))
	}
}
