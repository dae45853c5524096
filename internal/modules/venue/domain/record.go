package domain

import "time"

// SessionRecord is a completed session. Only Table.EndSession produces one,
// so the aggregator can never be fed an in-progress session.
type SessionRecord struct {
	id        string
	table     int
	startedAt time.Time
	endedAt   time.Time
	minutes   int64
	rate      float64
	cost      float64
}

func (r SessionRecord) ID() string           { return r.id }
func (r SessionRecord) TableNumber() int     { return r.table }
func (r SessionRecord) StartedAt() time.Time { return r.startedAt }
func (r SessionRecord) EndedAt() time.Time   { return r.endedAt }
func (r SessionRecord) Minutes() int64       { return r.minutes }
func (r SessionRecord) Rate() float64        { return r.rate }
func (r SessionRecord) Cost() float64        { return r.cost }

// IsZero reports whether r was not produced by EndSession.
func (r SessionRecord) IsZero() bool { return r.table == 0 }
