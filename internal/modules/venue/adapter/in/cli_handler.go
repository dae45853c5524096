package in

import (
	"context"

	venuedto "anticafe/internal/modules/venue/dto"
	venuein "anticafe/internal/modules/venue/port/in"
)

type CLIHandler struct {
	usecase venuein.Usecase
}

func NewCLIHandler(usecase venuein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Toggle(ctx context.Context, number int) (venuedto.ToggleOutput, error) {
	return h.usecase.Toggle(ctx, number)
}

func (h CLIHandler) Start(ctx context.Context, number int) (venuedto.ToggleOutput, error) {
	return h.usecase.StartSession(ctx, number)
}

func (h CLIHandler) End(ctx context.Context, number int) (venuedto.ToggleOutput, error) {
	return h.usecase.EndSession(ctx, number)
}

func (h CLIHandler) Tables(ctx context.Context) ([]venuedto.TableOutput, error) {
	return h.usecase.ListTables(ctx)
}

func (h CLIHandler) Current(ctx context.Context) (venuedto.CurrentStatisticsOutput, error) {
	return h.usecase.CurrentStatistics(ctx)
}

func (h CLIHandler) Archive(ctx context.Context) (venuedto.ArchivedStatisticsOutput, error) {
	return h.usecase.ArchivedStatistics(ctx)
}

func (h CLIHandler) History(ctx context.Context, limit int) ([]venuedto.SessionOutput, error) {
	return h.usecase.History(ctx, venuedto.HistoryInput{Limit: limit})
}

func (h CLIHandler) Reindex(ctx context.Context) (venuedto.ReindexOutput, error) {
	return h.usecase.Reindex(ctx)
}
