package dto

import "time"

type TableOutput struct {
	Number    int
	Occupied  bool
	Minutes   int64
	Cost      float64
	Rate      float64
	StartedAt time.Time
	EndedAt   time.Time
}

type SessionOutput struct {
	SessionID string
	Table     int
	StartedAt time.Time
	EndedAt   time.Time
	Minutes   int64
	Rate      float64
	Cost      float64
	Path      string
}

// ToggleOutput describes one transition. Session is set when the toggle
// ended a session.
type ToggleOutput struct {
	Table     TableOutput
	Started   bool
	Restarted bool
	Session   *SessionOutput
}

type CurrentStatisticsOutput struct {
	Tables []TableOutput
	Total  float64
	At     time.Time
}

type TableArchiveOutput struct {
	Number   int
	Sessions int
	Earnings float64
}

type ArchivedStatisticsOutput struct {
	TotalEarnings     float64
	TotalSessions     int
	TotalMinutes      int64
	AverageMinutes    float64
	MostUsedTable     int
	HasMostUsed       bool
	MostProfitable    int
	HasMostProfitable bool
	Tables            []TableArchiveOutput
}

type HistoryInput struct {
	Limit int
}

type ReindexOutput struct {
	Sessions int
}
