package report_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/fatih/color"

	venuedto "anticafe/internal/modules/venue/dto"
	"anticafe/internal/ui/report"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestAmount(t *testing.T) {
	cases := map[float64]string{0: "0.0", 60: "60.0", 12.5: "12.5", 10.25: "10.25"}
	for in, want := range cases {
		if got := report.Amount(in); got != want {
			t.Fatalf("Amount(%v): expected %q, got %q", in, want, got)
		}
	}
}

func TestRenderCurrent(t *testing.T) {
	stats := venuedto.CurrentStatisticsOutput{
		Tables: []venuedto.TableOutput{
			{Number: 1},
			{Number: 2, Occupied: true, Minutes: 11, Cost: 55},
			{Number: 3, Cost: 20},
		},
		Total: 55,
	}
	var buf bytes.Buffer
	if err := report.RenderCurrent(&buf, stats, "rub"); err != nil {
		t.Fatalf("render current: %v", err)
	}
	want := "Current statistics:\n" +
		"Table 1: is free.\n" +
		"Table 2: is not free, time: 11 minute, sum: 55.0 rub.\n" +
		"Table 3: is free.\n" +
		"Money from every tables: 55.0 rub.\n"
	if buf.String() != want {
		t.Fatalf("unexpected report:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestRenderArchive(t *testing.T) {
	stats := venuedto.ArchivedStatisticsOutput{
		TotalEarnings:     60,
		TotalSessions:     1,
		AverageMinutes:    12,
		MostUsedTable:     3,
		HasMostUsed:       true,
		MostProfitable:    3,
		HasMostProfitable: true,
	}
	var buf bytes.Buffer
	if err := report.RenderArchive(&buf, stats, "rub"); err != nil {
		t.Fatalf("render archive: %v", err)
	}
	want := "Archive statistics:\n" +
		"Total earned: 60.0 rub.\n" +
		"Average time of using tables: 12.0 minute.\n" +
		"The most popular table: 3\n" +
		"The most profitable table: 3\n"
	if buf.String() != want {
		t.Fatalf("unexpected report:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestArchiveLinesWithoutSessions(t *testing.T) {
	lines := report.ArchiveLines(venuedto.ArchivedStatisticsOutput{}, "rub")
	if lines[3].Text != "The most popular table: none" || lines[4].Text != "The most profitable table: none" {
		t.Fatalf("expected none placeholders, got %+v", lines)
	}
	if lines[2].Text != "Average time of using tables: 0.0 minute." {
		t.Fatalf("unexpected average line %q", lines[2].Text)
	}
}
