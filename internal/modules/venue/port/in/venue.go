package in

import (
	"context"

	"anticafe/internal/modules/venue/dto"
)

type Usecase interface {
	Toggle(ctx context.Context, number int) (dto.ToggleOutput, error)
	StartSession(ctx context.Context, number int) (dto.ToggleOutput, error)
	EndSession(ctx context.Context, number int) (dto.ToggleOutput, error)
	ListTables(ctx context.Context) ([]dto.TableOutput, error)
	CurrentStatistics(ctx context.Context) (dto.CurrentStatisticsOutput, error)
	ArchivedStatistics(ctx context.Context) (dto.ArchivedStatisticsOutput, error)
	History(ctx context.Context, input dto.HistoryInput) ([]dto.SessionOutput, error)
	Reindex(ctx context.Context) (dto.ReindexOutput, error)
}
