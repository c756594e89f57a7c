// Package store handles SQLite persistence of session history.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/verte-zerg/lrn/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

const driverName = "sqlite"

// timeLayout has fixed-width fractions so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func init() {
	sqlx.BindDriver(driverName, sqlx.QUESTION)
}

// Store wraps SQLite access for session history.
type Store struct {
	db *sqlx.DB
}

type sessionRow struct {
	ID        string `db:"id"`
	StartedAt string `db:"started_at"`
	EndedAt   string `db:"ended_at"`
	Mode      string `db:"mode"`
	Lang      string `db:"lang"`
	DataPath  string `db:"data_path"`
	Entries   int    `db:"entries"`
	Solved    int    `db:"solved"`
	Correct   int    `db:"correct"`
	Incorrect int    `db:"incorrect"`
	Outcome   string `db:"outcome"`
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sqlx.Open(driverName, path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			mode TEXT NOT NULL,
			lang TEXT NOT NULL,
			data_path TEXT NOT NULL,
			entries INTEGER NOT NULL,
			solved INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			outcome TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_mode ON sessions(mode);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a finished session.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("session record has no id")
	}
	row := sessionRow{
		ID:        rec.ID,
		StartedAt: rec.StartedAt.UTC().Format(timeLayout),
		EndedAt:   rec.EndedAt.UTC().Format(timeLayout),
		Mode:      string(rec.Mode),
		Lang:      string(rec.Lang),
		DataPath:  rec.DataPath,
		Entries:   rec.Entries,
		Solved:    rec.Solved,
		Correct:   rec.Correct,
		Incorrect: rec.Incorrect,
		Outcome:   string(rec.Outcome),
	}
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO sessions (id, started_at, ended_at, mode, lang, data_path, entries, solved, correct, incorrect, outcome)
		 VALUES (:id, :started_at, :ended_at, :mode, :lang, :data_path, :entries, :solved, :correct, :incorrect, :outcome)`,
		row)
	return err
}

// ListSessions returns sessions matching filter, oldest first. A positive
// filter.Last keeps only the most recent sessions.
func (s *Store) ListSessions(ctx context.Context, filter model.HistoryFilter) ([]model.SessionRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Mode != "" {
		clauses = append(clauses, "mode = ?")
		args = append(args, string(filter.Mode))
	}
	query := fmt.Sprintf(`SELECT id, started_at, ended_at, mode, lang, data_path, entries, solved, correct, incorrect, outcome
		FROM sessions
		WHERE %s
		ORDER BY ended_at DESC, id DESC`, strings.Join(clauses, " AND "))
	if filter.Last > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Last)
	}

	var rows []sessionRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	sessions := make([]model.SessionRecord, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		rec, err := rows[i].record()
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, rec)
	}
	return sessions, nil
}

func (r sessionRow) record() (model.SessionRecord, error) {
	startedAt, err := time.Parse(timeLayout, r.StartedAt)
	if err != nil {
		return model.SessionRecord{}, err
	}
	endedAt, err := time.Parse(timeLayout, r.EndedAt)
	if err != nil {
		return model.SessionRecord{}, err
	}
	return model.SessionRecord{
		ID:        r.ID,
		StartedAt: startedAt,
		EndedAt:   endedAt,
		Mode:      model.Mode(r.Mode),
		Lang:      model.Language(r.Lang),
		DataPath:  r.DataPath,
		Entries:   r.Entries,
		Solved:    r.Solved,
		Correct:   r.Correct,
		Incorrect: r.Incorrect,
		Outcome:   model.Outcome(r.Outcome),
	}, nil
}
