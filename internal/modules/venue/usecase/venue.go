package usecase

import (
	"context"

	"anticafe/internal/modules/venue/domain"
	venuedto "anticafe/internal/modules/venue/dto"
	venuein "anticafe/internal/modules/venue/port/in"
	"anticafe/internal/modules/venue/service"
)

type Interactor struct {
	svc *service.VenueService
}

func NewInteractor(svc *service.VenueService) venuein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Toggle(ctx context.Context, number int) (venuedto.ToggleOutput, error) {
	tr, err := i.svc.Toggle(ctx, number)
	return toToggleOutput(tr), err
}

func (i *Interactor) StartSession(ctx context.Context, number int) (venuedto.ToggleOutput, error) {
	tr, err := i.svc.Start(ctx, number)
	return toToggleOutput(tr), err
}

func (i *Interactor) EndSession(ctx context.Context, number int) (venuedto.ToggleOutput, error) {
	tr, err := i.svc.End(ctx, number)
	return toToggleOutput(tr), err
}

func (i *Interactor) ListTables(ctx context.Context) ([]venuedto.TableOutput, error) {
	states := i.svc.Tables(ctx)
	out := make([]venuedto.TableOutput, 0, len(states))
	for _, state := range states {
		out = append(out, toTableOutput(state))
	}
	return out, nil
}

func (i *Interactor) CurrentStatistics(ctx context.Context) (venuedto.CurrentStatisticsOutput, error) {
	snap := i.svc.Current(ctx)
	out := venuedto.CurrentStatisticsOutput{At: snap.At, Total: snap.Total, Tables: make([]venuedto.TableOutput, 0, len(snap.Tables))}
	for _, state := range snap.Tables {
		out.Tables = append(out.Tables, toTableOutput(state))
	}
	return out, nil
}

func (i *Interactor) ArchivedStatistics(ctx context.Context) (venuedto.ArchivedStatisticsOutput, error) {
	summary := i.svc.Archive(ctx)
	out := venuedto.ArchivedStatisticsOutput{
		TotalEarnings:     summary.TotalEarnings,
		TotalSessions:     summary.TotalSessions,
		TotalMinutes:      summary.TotalMinutes,
		AverageMinutes:    summary.AverageMinutes,
		MostUsedTable:     summary.MostUsed,
		HasMostUsed:       summary.HasMostUsed,
		MostProfitable:    summary.MostProfitable,
		HasMostProfitable: summary.HasMostProfitable,
		Tables:            make([]venuedto.TableArchiveOutput, 0, len(summary.Tables)),
	}
	for _, row := range summary.Tables {
		out.Tables = append(out.Tables, venuedto.TableArchiveOutput{Number: row.Number, Sessions: row.Sessions, Earnings: row.Earnings})
	}
	return out, nil
}

func (i *Interactor) History(ctx context.Context, input venuedto.HistoryInput) ([]venuedto.SessionOutput, error) {
	entries, err := i.svc.History(ctx, input.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]venuedto.SessionOutput, 0, len(entries))
	for _, entry := range entries {
		out = append(out, venuedto.SessionOutput{
			SessionID: entry.SessionID,
			Table:     entry.Table,
			StartedAt: entry.StartedAt,
			EndedAt:   entry.EndedAt,
			Minutes:   entry.Minutes,
			Rate:      entry.Rate,
			Cost:      entry.Cost,
			Path:      entry.Path,
		})
	}
	return out, nil
}

func (i *Interactor) Reindex(ctx context.Context) (venuedto.ReindexOutput, error) {
	count, err := i.svc.Reindex(ctx)
	if err != nil {
		return venuedto.ReindexOutput{}, err
	}
	return venuedto.ReindexOutput{Sessions: count}, nil
}

func toTableOutput(state domain.TableState) venuedto.TableOutput {
	return venuedto.TableOutput{
		Number:    state.Number,
		Occupied:  state.Occupied,
		Minutes:   state.Minutes,
		Cost:      state.Cost,
		Rate:      state.Rate,
		StartedAt: state.StartedAt,
		EndedAt:   state.EndedAt,
	}
}

func toToggleOutput(tr service.Transition) venuedto.ToggleOutput {
	out := venuedto.ToggleOutput{Table: toTableOutput(tr.State), Started: tr.Started, Restarted: tr.Restarted}
	if !tr.Record.IsZero() {
		out.Session = &venuedto.SessionOutput{
			SessionID: tr.Record.ID(),
			Table:     tr.Record.TableNumber(),
			StartedAt: tr.Record.StartedAt(),
			EndedAt:   tr.Record.EndedAt(),
			Minutes:   tr.Record.Minutes(),
			Rate:      tr.Record.Rate(),
			Cost:      tr.Record.Cost(),
			Path:      tr.Path,
		}
	}
	return out
}
