// Package replay runs scripted venue activity against a manual clock.
package replay

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	venuein "anticafe/internal/modules/venue/port/in"
	"anticafe/internal/platform/clock"
	apperrors "anticafe/internal/platform/errors"
	"anticafe/internal/ui/report"
)

const (
	ReportCurrent = "current"
	ReportArchive = "archive"
)

// Script is a replay file. Offsets in At are relative to Start.
type Script struct {
	Tables        int       `yaml:"tables"`
	RatePerMinute *float64  `yaml:"rate_per_minute"`
	Start         time.Time `yaml:"start"`
	Events        []Event   `yaml:"events"`
}

// Event sets exactly one of Toggle, StartTable, EndTable and Report.
type Event struct {
	At         Offset `yaml:"at"`
	Toggle     int    `yaml:"toggle"`
	StartTable int    `yaml:"start"`
	EndTable   int    `yaml:"end"`
	Report     string `yaml:"report"`
}

// Offset is a duration written the way time.ParseDuration reads it.
type Offset time.Duration

func (o *Offset) UnmarshalYAML(node *yaml.Node) error {
	d, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*o = Offset(d)
	return nil
}

func Load(path string) (Script, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("read replay script: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (Script, error) {
	script := Script{}
	if err := yaml.Unmarshal(raw, &script); err != nil {
		return Script{}, fmt.Errorf("%w: decode replay script: %v", apperrors.ErrInvalidInput, err)
	}
	if script.Start.IsZero() {
		script.Start = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if err := script.validate(); err != nil {
		return Script{}, err
	}
	return script, nil
}

func (s Script) validate() error {
	var last Offset
	for i, event := range s.Events {
		if event.At < last {
			return fmt.Errorf("%w: event %d goes back in time", apperrors.ErrInvalidInput, i+1)
		}
		last = event.At
		set := 0
		for _, v := range []bool{event.Toggle != 0, event.StartTable != 0, event.EndTable != 0, event.Report != ""} {
			if v {
				set++
			}
		}
		if set != 1 {
			return fmt.Errorf("%w: event %d must set exactly one of toggle, start, end, report", apperrors.ErrInvalidInput, i+1)
		}
		if event.Report != "" && event.Report != ReportCurrent && event.Report != ReportArchive {
			return fmt.Errorf("%w: event %d: unknown report %q", apperrors.ErrInvalidInput, i+1, event.Report)
		}
	}
	return nil
}

// Runner plays a script against a venue whose clock it controls.
type Runner struct {
	Venue    venuein.Usecase
	Clock    *clock.Manual
	Out      io.Writer
	Currency string
}

func (r Runner) Run(ctx context.Context, script Script) error {
	for i, event := range script.Events {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.Clock.Set(script.Start.Add(time.Duration(event.At)))
		if err := r.apply(ctx, event); err != nil {
			return fmt.Errorf("event %d: %w", i+1, err)
		}
	}
	return nil
}

func (r Runner) apply(ctx context.Context, event Event) error {
	switch {
	case event.Toggle != 0:
		out, err := r.Venue.Toggle(ctx, event.Toggle)
		if err != nil {
			return err
		}
		state := "free"
		if out.Table.Occupied {
			state = "occupied"
		}
		_, err = fmt.Fprintf(r.Out, "Table %d is %s.\n", out.Table.Number, state)
		return err
	case event.StartTable != 0:
		_, err := r.Venue.StartSession(ctx, event.StartTable)
		return err
	case event.EndTable != 0:
		_, err := r.Venue.EndSession(ctx, event.EndTable)
		return err
	case event.Report == ReportCurrent:
		stats, err := r.Venue.CurrentStatistics(ctx)
		if err != nil {
			return err
		}
		return report.RenderCurrent(r.Out, stats, r.Currency)
	default:
		stats, err := r.Venue.ArchivedStatistics(ctx)
		if err != nil {
			return err
		}
		return report.RenderArchive(r.Out, stats, r.Currency)
	}
}
