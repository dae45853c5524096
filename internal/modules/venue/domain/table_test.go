package domain_test

import (
	"errors"
	"testing"
	"time"

	"anticafe/internal/modules/venue/domain"
	apperrors "anticafe/internal/platform/errors"
)

var t0 = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

func mustTable(t *testing.T, number int, rate float64) *domain.Table {
	t.Helper()
	table, err := domain.NewTable(number, rate)
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	return table
}

func TestNewTableIsFree(t *testing.T) {
	t.Parallel()
	table := mustTable(t, 1, 5)
	if table.Occupied() {
		t.Fatalf("new table must be free")
	}
	if got := table.TimeSpentMinutes(t0); got != 0 {
		t.Fatalf("expected 0 minutes before any session, got %d", got)
	}
	if got := table.TotalCost(t0); got != 0 {
		t.Fatalf("expected 0 cost before any session, got %v", got)
	}
}

func TestNewTableRejectsInvalidInput(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		number int
		rate   float64
	}{
		{name: "zero number", number: 0, rate: 5},
		{name: "negative number", number: -3, rate: 5},
		{name: "negative rate", number: 1, rate: -0.5},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := domain.NewTable(tc.number, tc.rate); !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}
}

func TestSessionLifecycleBillsWholeMinutes(t *testing.T) {
	t.Parallel()
	table := mustTable(t, 4, 5)
	if restarted := table.StartSession(t0); restarted {
		t.Fatalf("first start must not report a restart")
	}
	if !table.Occupied() {
		t.Fatalf("table must be occupied after start")
	}

	record, err := table.EndSession("s-1", t0.Add(7*time.Minute+59*time.Second))
	if err != nil {
		t.Fatalf("end session: %v", err)
	}
	if table.Occupied() {
		t.Fatalf("table must be free after end")
	}
	if record.Minutes() != 7 || record.Cost() != 35 {
		t.Fatalf("expected 7 minutes costing 35, got %d/%v", record.Minutes(), record.Cost())
	}
	if record.ID() != "s-1" || record.TableNumber() != 4 || record.Rate() != 5 {
		t.Fatalf("unexpected record identity: %+v", record)
	}
	if !record.StartedAt().Equal(t0) || !record.EndedAt().Equal(table.EndedAt()) {
		t.Fatalf("record timestamps do not match table")
	}

	later := t0.Add(3 * time.Hour)
	if got := table.TotalCost(later); got != 35 {
		t.Fatalf("cost must stay frozen after end, got %v", got)
	}
	if got := table.TimeSpentMinutes(later); got != 7 {
		t.Fatalf("minutes must stay frozen after end, got %d", got)
	}
}

func TestSubMinuteSessionCostsNothing(t *testing.T) {
	t.Parallel()
	table := mustTable(t, 1, 5)
	table.StartSession(t0)
	record, err := table.EndSession("s-1", t0.Add(59*time.Second))
	if err != nil {
		t.Fatalf("end session: %v", err)
	}
	if record.Minutes() != 0 || record.Cost() != 0 {
		t.Fatalf("expected free sub-minute session, got %d/%v", record.Minutes(), record.Cost())
	}
}

func TestLiveCostGrowsWhileOccupied(t *testing.T) {
	t.Parallel()
	table := mustTable(t, 2, 5)
	table.StartSession(t0)

	var prev float64
	for _, offset := range []time.Duration{0, 30 * time.Second, time.Minute, 90 * time.Second, 11 * time.Minute} {
		cost := table.TotalCost(t0.Add(offset))
		if cost < prev {
			t.Fatalf("live cost decreased at %s: %v < %v", offset, cost, prev)
		}
		prev = cost
	}
	if prev != 55 {
		t.Fatalf("expected 55 after 11 minutes, got %v", prev)
	}
	if !table.Elapsed().IsLive() {
		t.Fatalf("elapsed view must be live while occupied")
	}
}

func TestEndingFreeTableFails(t *testing.T) {
	t.Parallel()
	table := mustTable(t, 1, 5)
	if _, err := table.EndSession("s-1", t0); !errors.Is(err, apperrors.ErrTableNotOccupied) {
		t.Fatalf("expected not occupied error, got %v", err)
	}

	table.StartSession(t0)
	if _, err := table.EndSession("s-1", t0.Add(time.Minute)); err != nil {
		t.Fatalf("end session: %v", err)
	}
	if _, err := table.EndSession("s-2", t0.Add(2*time.Minute)); !errors.Is(err, apperrors.ErrTableNotOccupied) {
		t.Fatalf("expected not occupied error on double end, got %v", err)
	}
}

func TestStartWhileOccupiedRestartsClock(t *testing.T) {
	t.Parallel()
	table := mustTable(t, 1, 5)
	table.StartSession(t0)
	if restarted := table.StartSession(t0.Add(20 * time.Minute)); !restarted {
		t.Fatalf("expected restart to be reported")
	}
	record, err := table.EndSession("s-1", t0.Add(25*time.Minute))
	if err != nil {
		t.Fatalf("end session: %v", err)
	}
	if record.Minutes() != 5 {
		t.Fatalf("expected the discarded session to be dropped, got %d minutes", record.Minutes())
	}
}

func TestClockSkewClampsToZero(t *testing.T) {
	t.Parallel()
	table := mustTable(t, 1, 5)
	table.StartSession(t0)
	if got := table.TotalCost(t0.Add(-time.Hour)); got != 0 {
		t.Fatalf("expected 0 for negative elapsed time, got %v", got)
	}
	record, err := table.EndSession("s-1", t0.Add(-time.Minute))
	if err != nil {
		t.Fatalf("end session: %v", err)
	}
	if record.Minutes() != 0 || record.Cost() != 0 {
		t.Fatalf("expected clamped record, got %d/%v", record.Minutes(), record.Cost())
	}
}
