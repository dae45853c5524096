package domain

import (
	"fmt"
	"time"

	apperrors "anticafe/internal/platform/errors"
)

// Table is one billable table of the venue.
type Table struct {
	number    int
	rate      float64
	occupied  bool
	startedAt time.Time
	endedAt   time.Time
	elapsed   ElapsedView
	totalCost float64
}

func NewTable(number int, rate float64) (*Table, error) {
	if number <= 0 {
		return nil, fmt.Errorf("%w: table number must be positive, got %d", apperrors.ErrInvalidInput, number)
	}
	if rate < 0 {
		return nil, fmt.Errorf("%w: rate must be non-negative, got %v", apperrors.ErrInvalidInput, rate)
	}
	return &Table{number: number, rate: rate, elapsed: Frozen(0)}, nil
}

func (t *Table) Number() int          { return t.number }
func (t *Table) Rate() float64        { return t.rate }
func (t *Table) Occupied() bool       { return t.occupied }
func (t *Table) StartedAt() time.Time { return t.startedAt }
func (t *Table) EndedAt() time.Time   { return t.endedAt }

// StartSession occupies the table from now. Starting an occupied table
// restarts the clock and the open session is discarded without billing.
// The returned flag reports whether that happened.
func (t *Table) StartSession(now time.Time) (restarted bool) {
	restarted = t.occupied
	t.occupied = true
	t.startedAt = now
	t.elapsed = Live(now)
	return restarted
}

// EndSession frees the table and returns the finalized session. sessionID
// becomes the record's ID.
func (t *Table) EndSession(sessionID string, now time.Time) (SessionRecord, error) {
	if !t.occupied {
		return SessionRecord{}, fmt.Errorf("table %d: %w", t.number, apperrors.ErrTableNotOccupied)
	}
	minutes := WholeMinutes(now.Sub(t.startedAt))
	t.occupied = false
	t.endedAt = now
	t.elapsed = Frozen(minutes)
	t.totalCost = t.elapsed.Cost(now, t.rate)
	return SessionRecord{
		id:        sessionID,
		table:     t.number,
		startedAt: t.startedAt,
		endedAt:   now,
		minutes:   minutes,
		rate:      t.rate,
		cost:      t.totalCost,
	}, nil
}

// Elapsed returns the live or frozen time base of the current/last session.
func (t *Table) Elapsed() ElapsedView { return t.elapsed }

// TimeSpentMinutes is live while occupied and frozen at the last completed
// session otherwise.
func (t *Table) TimeSpentMinutes(now time.Time) int64 {
	return t.elapsed.Minutes(now)
}

func (t *Table) TotalCost(now time.Time) float64 {
	if !t.elapsed.IsLive() {
		return t.totalCost
	}
	return t.elapsed.Cost(now, t.rate)
}
