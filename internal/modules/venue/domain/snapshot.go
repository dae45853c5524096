package domain

import "time"

// TableState is a point-in-time reading of one table.
type TableState struct {
	Number    int
	Occupied  bool
	Minutes   int64
	Cost      float64
	Rate      float64
	StartedAt time.Time
	EndedAt   time.Time
}

func (t *Table) State(now time.Time) TableState {
	return TableState{
		Number:    t.number,
		Occupied:  t.occupied,
		Minutes:   t.TimeSpentMinutes(now),
		Cost:      t.TotalCost(now),
		Rate:      t.rate,
		StartedAt: t.startedAt,
		EndedAt:   t.endedAt,
	}
}

// Snapshot is the current statistics of the venue. Total is the live cost of
// the occupied tables; the aggregator is never consulted.
type Snapshot struct {
	At     time.Time
	Tables []TableState
	Total  float64
}

func TakeSnapshot(tables []*Table, now time.Time) Snapshot {
	snap := Snapshot{At: now, Tables: make([]TableState, 0, len(tables))}
	for _, t := range tables {
		state := t.State(now)
		snap.Tables = append(snap.Tables, state)
		if state.Occupied {
			snap.Total += state.Cost
		}
	}
	return snap
}

// TableTotals is the archived activity of one table.
type TableTotals struct {
	Number   int
	Sessions int
	Earnings float64
}

// ArchiveSummary is the archived statistics of the venue.
type ArchiveSummary struct {
	TotalEarnings     float64
	TotalSessions     int
	TotalMinutes      int64
	AverageMinutes    float64
	MostUsed          int
	HasMostUsed       bool
	MostProfitable    int
	HasMostProfitable bool
	Tables            []TableTotals
}

func (a *Aggregator) Summary() ArchiveSummary {
	summary := ArchiveSummary{
		TotalEarnings:  a.totalEarnings,
		TotalSessions:  a.totalSessions,
		TotalMinutes:   a.totalMinutes,
		AverageMinutes: a.AverageSessionTime(),
	}
	summary.MostUsed, summary.HasMostUsed = a.MostUsedTable()
	summary.MostProfitable, summary.HasMostProfitable = a.HighestEarningTable()
	for _, n := range a.Tables() {
		summary.Tables = append(summary.Tables, TableTotals{Number: n, Sessions: a.usage[n], Earnings: a.earnings[n]})
	}
	return summary
}
