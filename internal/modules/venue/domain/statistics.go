package domain

import (
	"sort"

	apperrors "anticafe/internal/platform/errors"
)

// Aggregator folds completed sessions into venue-wide running totals.
type Aggregator struct {
	totalEarnings float64
	totalSessions int
	totalMinutes  int64
	usage         map[int]int
	earnings      map[int]float64
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		usage:    make(map[int]int),
		earnings: make(map[int]float64),
	}
}

// Record folds one completed session into the totals. Records are not
// deduplicated; feeding the same record twice counts it twice.
func (a *Aggregator) Record(r SessionRecord) error {
	if r.IsZero() {
		return apperrors.ErrInvalidRecord
	}
	a.totalEarnings += r.cost
	a.totalSessions++
	a.totalMinutes += r.minutes
	a.usage[r.table]++
	a.earnings[r.table] += r.cost
	return nil
}

func (a *Aggregator) TotalEarnings() float64 { return a.totalEarnings }
func (a *Aggregator) TotalSessions() int     { return a.totalSessions }
func (a *Aggregator) TotalMinutes() int64    { return a.totalMinutes }

func (a *Aggregator) Usage(table int) int        { return a.usage[table] }
func (a *Aggregator) Earnings(table int) float64 { return a.earnings[table] }

// AverageSessionTime is the mean billed minutes per completed session, or 0
// when nothing has completed yet.
func (a *Aggregator) AverageSessionTime() float64 {
	if a.totalSessions == 0 {
		return 0
	}
	return float64(a.totalMinutes) / float64(a.totalSessions)
}

// MostUsedTable returns the table with the most completed sessions. Ties go
// to the lowest table number. ok is false before the first session.
func (a *Aggregator) MostUsedTable() (table int, ok bool) {
	return argmax(a.usage)
}

// HighestEarningTable returns the table with the largest cumulative
// earnings, with the same tie-break as MostUsedTable.
func (a *Aggregator) HighestEarningTable() (table int, ok bool) {
	return argmax(a.earnings)
}

// Tables lists every table that has completed at least one session, in
// ascending order.
func (a *Aggregator) Tables() []int {
	out := make([]int, 0, len(a.usage))
	for n := range a.usage {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

func argmax[V int | float64](m map[int]V) (int, bool) {
	best, found := 0, false
	var bestValue V
	for n, v := range m {
		if !found || v > bestValue || (v == bestValue && n < best) {
			best, bestValue, found = n, v, true
		}
	}
	return best, found
}
