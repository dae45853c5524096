// Package report renders the venue statistics as text.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/fatih/color"

	venuedto "anticafe/internal/modules/venue/dto"
)

type Kind int

const (
	KindHeading Kind = iota
	KindFree
	KindBusy
	KindSummary
)

// Line is one report line tagged with what it describes, so terminal and
// TUI renderers can style it differently.
type Line struct {
	Kind Kind
	Text string
}

// Amount formats money and averages with at least one decimal place.
func Amount(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func CurrentLines(stats venuedto.CurrentStatisticsOutput, currency string) []Line {
	lines := make([]Line, 0, len(stats.Tables)+2)
	lines = append(lines, Line{Kind: KindHeading, Text: "Current statistics:"})
	for _, table := range stats.Tables {
		if !table.Occupied {
			lines = append(lines, Line{Kind: KindFree, Text: fmt.Sprintf("Table %d: is free.", table.Number)})
			continue
		}
		lines = append(lines, Line{
			Kind: KindBusy,
			Text: fmt.Sprintf("Table %d: is not free, time: %d minute, sum: %s %s.", table.Number, table.Minutes, Amount(table.Cost), currency),
		})
	}
	lines = append(lines, Line{Kind: KindSummary, Text: fmt.Sprintf("Money from every tables: %s %s.", Amount(stats.Total), currency)})
	return lines
}

func ArchiveLines(stats venuedto.ArchivedStatisticsOutput, currency string) []Line {
	return []Line{
		{Kind: KindHeading, Text: "Archive statistics:"},
		{Kind: KindSummary, Text: fmt.Sprintf("Total earned: %s %s.", Amount(stats.TotalEarnings), currency)},
		{Kind: KindSummary, Text: fmt.Sprintf("Average time of using tables: %s minute.", Amount(stats.AverageMinutes))},
		{Kind: KindSummary, Text: "The most popular table: " + optionalTable(stats.MostUsedTable, stats.HasMostUsed)},
		{Kind: KindSummary, Text: "The most profitable table: " + optionalTable(stats.MostProfitable, stats.HasMostProfitable)},
	}
}

func optionalTable(number int, ok bool) string {
	if !ok {
		return "none"
	}
	return strconv.Itoa(number)
}

var palette = map[Kind]*color.Color{
	KindHeading: color.New(color.FgCyan, color.Bold),
	KindFree:    color.New(color.FgGreen),
	KindBusy:    color.New(color.FgYellow),
	KindSummary: color.New(color.Bold),
}

func render(w io.Writer, lines []Line) error {
	for _, line := range lines {
		if _, err := palette[line.Kind].Fprintln(w, line.Text); err != nil {
			return err
		}
	}
	return nil
}

func RenderCurrent(w io.Writer, stats venuedto.CurrentStatisticsOutput, currency string) error {
	return render(w, CurrentLines(stats, currency))
}

func RenderArchive(w io.Writer, stats venuedto.ArchivedStatisticsOutput, currency string) error {
	return render(w, ArchiveLines(stats, currency))
}
