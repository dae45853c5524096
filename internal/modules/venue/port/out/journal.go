package out

import (
	"context"
	"time"

	"anticafe/internal/modules/venue/domain"
)

// JournalEntry is a completed session as written to the journal.
type JournalEntry struct {
	SessionID string
	Table     int
	StartedAt time.Time
	EndedAt   time.Time
	Minutes   int64
	Rate      float64
	Cost      float64
	Path      string
}

func EntryFromRecord(record domain.SessionRecord, path string) JournalEntry {
	return JournalEntry{
		SessionID: record.ID(),
		Table:     record.TableNumber(),
		StartedAt: record.StartedAt(),
		EndedAt:   record.EndedAt(),
		Minutes:   record.Minutes(),
		Rate:      record.Rate(),
		Cost:      record.Cost(),
		Path:      path,
	}
}

// SessionStore writes one note per completed session and returns its path.
type SessionStore interface {
	Save(ctx context.Context, record domain.SessionRecord) (string, error)
	List(ctx context.Context) ([]JournalEntry, error)
}

type SessionIndexProjector interface {
	Reset(ctx context.Context) error
	UpsertSession(ctx context.Context, entry JournalEntry) error
	ListRecent(ctx context.Context, limit int) ([]JournalEntry, error)
	Close() error
}
