package domain

import "time"

// ElapsedView is the time base of a session: Live while the table is
// occupied (measured against the instant of the query), Frozen once the
// session has ended.
type ElapsedView struct {
	live    bool
	start   time.Time
	minutes int64
}

func Live(start time.Time) ElapsedView {
	return ElapsedView{live: true, start: start}
}

func Frozen(minutes int64) ElapsedView {
	if minutes < 0 {
		minutes = 0
	}
	return ElapsedView{minutes: minutes}
}

func (v ElapsedView) IsLive() bool { return v.live }

// Minutes returns the elapsed whole minutes. now is ignored for frozen views.
func (v ElapsedView) Minutes(now time.Time) int64 {
	if !v.live {
		return v.minutes
	}
	return WholeMinutes(now.Sub(v.start))
}

// Cost bills the elapsed whole minutes at rate.
func (v ElapsedView) Cost(now time.Time, rate float64) float64 {
	return float64(v.Minutes(now)) * rate
}

// WholeMinutes truncates d to whole minutes. Negative durations count as zero.
func WholeMinutes(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64(d / time.Minute)
}
