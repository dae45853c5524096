package out

import (
	"context"
	"database/sql"
	"fmt"

	venueout "anticafe/internal/modules/venue/port/out"

	_ "github.com/lib/pq"
)

// PostgresSessionProjector keeps the session index in a shared Postgres
// database so several venues can report into one place.
type PostgresSessionProjector struct {
	db *sql.DB
}

func NewPostgresSessionProjector(ctx context.Context, dsn string) (*PostgresSessionProjector, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	projector := &PostgresSessionProjector{db: db}
	if err := projector.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return projector, nil
}

func (p *PostgresSessionProjector) ensureSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS anticafe_sessions (
			id TEXT PRIMARY KEY,
			table_number INTEGER NOT NULL,
			started_at TIMESTAMP WITH TIME ZONE NOT NULL,
			ended_at TIMESTAMP WITH TIME ZONE NOT NULL,
			minutes BIGINT NOT NULL,
			rate DOUBLE PRECISION NOT NULL,
			cost DOUBLE PRECISION NOT NULL,
			path TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS anticafe_sessions_ended_at ON anticafe_sessions (ended_at DESC)`,
	}
	for _, q := range queries {
		if _, err := p.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create sessions table: %w", err)
		}
	}
	return nil
}

func (p *PostgresSessionProjector) Reset(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, `TRUNCATE anticafe_sessions`); err != nil {
		return fmt.Errorf("reset sessions: %w", err)
	}
	return nil
}

func (p *PostgresSessionProjector) UpsertSession(ctx context.Context, entry venueout.JournalEntry) error {
	const stmt = `
INSERT INTO anticafe_sessions (id, table_number, started_at, ended_at, minutes, rate, cost, path)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO UPDATE SET
  table_number = EXCLUDED.table_number,
  started_at = EXCLUDED.started_at,
  ended_at = EXCLUDED.ended_at,
  minutes = EXCLUDED.minutes,
  rate = EXCLUDED.rate,
  cost = EXCLUDED.cost,
  path = EXCLUDED.path`
	_, err := p.db.ExecContext(ctx, stmt,
		entry.SessionID,
		entry.Table,
		entry.StartedAt.UTC(),
		entry.EndedAt.UTC(),
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

func (p *PostgresSessionProjector) ListRecent(ctx context.Context, limit int) ([]venueout.JournalEntry, error) {
	rows, err := p.db.QueryContext(ctx, `
SELECT id, table_number, started_at, ended_at, minutes, rate, cost, path
FROM anticafe_sessions
ORDER BY ended_at DESC, id DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	out := []venueout.JournalEntry{}
	for rows.Next() {
		var entry venueout.JournalEntry
		if err := rows.Scan(&entry.SessionID, &entry.Table, &entry.StartedAt, &entry.EndedAt, &entry.Minutes, &entry.Rate, &entry.Cost, &entry.Path); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		entry.StartedAt = entry.StartedAt.UTC()
		entry.EndedAt = entry.EndedAt.UTC()
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

func (p *PostgresSessionProjector) Close() error {
	return p.db.Close()
}
