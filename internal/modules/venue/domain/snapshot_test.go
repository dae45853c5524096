package domain_test

import (
	"testing"
	"time"

	"anticafe/internal/modules/venue/domain"
)

func TestSnapshotTotalsOccupiedTables(t *testing.T) {
	t.Parallel()
	first := mustTable(t, 1, 5)
	second := mustTable(t, 2, 5)
	third := mustTable(t, 3, 5)

	first.StartSession(t0)
	if _, err := first.EndSession("s-1", t0.Add(4*time.Minute)); err != nil {
		t.Fatalf("end session: %v", err)
	}
	second.StartSession(t0.Add(time.Minute))

	snap := domain.TakeSnapshot([]*domain.Table{first, second, third}, t0.Add(10*time.Minute))
	if len(snap.Tables) != 3 {
		t.Fatalf("expected 3 tables, got %d", len(snap.Tables))
	}
	if snap.Tables[0].Occupied || snap.Tables[0].Cost != 20 {
		t.Fatalf("unexpected frozen table state: %+v", snap.Tables[0])
	}
	if !snap.Tables[1].Occupied || snap.Tables[1].Minutes != 9 || snap.Tables[1].Cost != 45 {
		t.Fatalf("unexpected live table state: %+v", snap.Tables[1])
	}
	if snap.Tables[2].Cost != 0 {
		t.Fatalf("untouched table must cost nothing")
	}
	if snap.Total != 45 {
		t.Fatalf("expected total 45 from the occupied table only, got %v", snap.Total)
	}
}

func TestArchiveSummary(t *testing.T) {
	t.Parallel()
	agg := domain.NewAggregator()
	empty := agg.Summary()
	if empty.HasMostUsed || empty.HasMostProfitable || len(empty.Tables) != 0 {
		t.Fatalf("expected empty summary, got %+v", empty)
	}

	record(t, agg, completed(t, 2, 4), completed(t, 1, 6), completed(t, 2, 1))
	summary := agg.Summary()
	if summary.TotalSessions != 3 || summary.TotalEarnings != 55 || summary.TotalMinutes != 11 {
		t.Fatalf("unexpected totals: %+v", summary)
	}
	if !summary.HasMostUsed || summary.MostUsed != 2 {
		t.Fatalf("expected table 2 most used, got %+v", summary)
	}
	if !summary.HasMostProfitable || summary.MostProfitable != 1 {
		t.Fatalf("expected table 1 most profitable, got %+v", summary)
	}
	want := []domain.TableTotals{{Number: 1, Sessions: 1, Earnings: 30}, {Number: 2, Sessions: 2, Earnings: 25}}
	if len(summary.Tables) != len(want) {
		t.Fatalf("expected %d table rows, got %d", len(want), len(summary.Tables))
	}
	for i := range want {
		if summary.Tables[i] != want[i] {
			t.Fatalf("row %d: expected %+v, got %+v", i, want[i], summary.Tables[i])
		}
	}
}
