package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	venueout "anticafe/internal/modules/venue/port/out"

	_ "modernc.org/sqlite"
)

// storedTime is fixed width so text comparison in ORDER BY matches time order.
const storedTime = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteSessionProjector struct {
	db *sql.DB
}

func NewSQLiteSessionProjector(dbPath string) (*SQLiteSessionProjector, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	projector := &SQLiteSessionProjector{db: db}
	if err := projector.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return projector, nil
}

func (s *SQLiteSessionProjector) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  table_number INTEGER NOT NULL,
  started_at TEXT NOT NULL,
  ended_at TEXT NOT NULL,
  minutes INTEGER NOT NULL,
  rate REAL NOT NULL,
  cost REAL NOT NULL,
  path TEXT
);
CREATE INDEX IF NOT EXISTS sessions_ended_at ON sessions (ended_at);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

func (s *SQLiteSessionProjector) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("reset sessions: %w", err)
	}
	return nil
}

func (s *SQLiteSessionProjector) UpsertSession(ctx context.Context, entry venueout.JournalEntry) error {
	const stmt = `
INSERT INTO sessions (id, table_number, started_at, ended_at, minutes, rate, cost, path)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  table_number=excluded.table_number,
  started_at=excluded.started_at,
  ended_at=excluded.ended_at,
  minutes=excluded.minutes,
  rate=excluded.rate,
  cost=excluded.cost,
  path=excluded.path;
`
	_, err := s.db.ExecContext(ctx, stmt,
		entry.SessionID,
		entry.Table,
		entry.StartedAt.UTC().Format(storedTime),
		entry.EndedAt.UTC().Format(storedTime),
		entry.Minutes,
		entry.Rate,
		entry.Cost,
		entry.Path,
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *SQLiteSessionProjector) ListRecent(ctx context.Context, limit int) ([]venueout.JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, table_number, started_at, ended_at, minutes, rate, cost, COALESCE(path, '')
FROM sessions
ORDER BY ended_at DESC, id DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	out := []venueout.JournalEntry{}
	for rows.Next() {
		var (
			entry            venueout.JournalEntry
			started, stopped string
		)
		if err := rows.Scan(&entry.SessionID, &entry.Table, &started, &stopped, &entry.Minutes, &entry.Rate, &entry.Cost, &entry.Path); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if entry.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if entry.EndedAt, err = time.Parse(time.RFC3339Nano, stopped); err != nil {
			return nil, fmt.Errorf("parse ended_at: %w", err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

func (s *SQLiteSessionProjector) Close() error {
	return s.db.Close()
}
