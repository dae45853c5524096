package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"anticafe/internal/modules/venue/domain"
	venueout "anticafe/internal/modules/venue/port/out"
	"anticafe/internal/platform/clock"
	apperrors "anticafe/internal/platform/errors"
	"anticafe/internal/platform/id"
	"anticafe/internal/platform/metrics"
)

// Deps are the collaborators of VenueService. Store and Projector may be nil,
// in which case completed sessions are not journaled.
type Deps struct {
	Clock     clock.Clock
	IDs       id.Generator
	Store     venueout.SessionStore
	Projector venueout.SessionIndexProjector
	Metrics   metrics.Recorder
	Logger    zerolog.Logger
}

// Transition is the outcome of starting or ending a session.
type Transition struct {
	State     domain.TableState
	Started   bool
	Restarted bool
	Record    domain.SessionRecord
	Path      string
}

// VenueService owns the tables and the aggregator. Callers from several
// goroutines are serialized by mu.
type VenueService struct {
	mu     sync.Mutex
	tables []*domain.Table
	stats  *domain.Aggregator

	clock     clock.Clock
	idGen     id.Generator
	store     venueout.SessionStore
	projector venueout.SessionIndexProjector
	metrics   metrics.Recorder
	logger    zerolog.Logger
}

// NewVenueService creates tables numbered 1..count sharing rate.
func NewVenueService(count int, rate float64, deps Deps) (*VenueService, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: table count must be positive, got %d", apperrors.ErrInvalidInput, count)
	}
	tables := make([]*domain.Table, 0, count)
	for n := 1; n <= count; n++ {
		table, err := domain.NewTable(n, rate)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	if deps.Clock == nil {
		deps.Clock = clock.SystemClock{}
	}
	if deps.IDs == nil {
		deps.IDs = id.UUID{}
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.Noop{}
	}
	return &VenueService{
		tables:    tables,
		stats:     domain.NewAggregator(),
		clock:     deps.Clock,
		idGen:     deps.IDs,
		store:     deps.Store,
		projector: deps.Projector,
		metrics:   deps.Metrics,
		logger:    deps.Logger.With().Str("component", "venue").Logger(),
	}, nil
}

func (s *VenueService) TableCount() int { return len(s.tables) }

func (s *VenueService) table(number int) (*domain.Table, error) {
	if number < 1 || number > len(s.tables) {
		return nil, fmt.Errorf("%w: %d", apperrors.ErrTableNotFound, number)
	}
	return s.tables[number-1], nil
}

// Toggle starts a session on a free table and ends the session of an
// occupied one.
func (s *VenueService) Toggle(ctx context.Context, number int) (Transition, error) {
	s.mu.Lock()
	table, err := s.table(number)
	if err != nil {
		s.mu.Unlock()
		return Transition{}, err
	}
	if !table.Occupied() {
		tr := s.startLocked(table)
		s.mu.Unlock()
		return tr, nil
	}
	tr, err := s.endLocked(table)
	s.mu.Unlock()
	if err != nil {
		return Transition{}, err
	}
	return s.journal(ctx, tr)
}

func (s *VenueService) Start(_ context.Context, number int) (Transition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	table, err := s.table(number)
	if err != nil {
		return Transition{}, err
	}
	return s.startLocked(table), nil
}

func (s *VenueService) End(ctx context.Context, number int) (Transition, error) {
	s.mu.Lock()
	table, err := s.table(number)
	if err != nil {
		s.mu.Unlock()
		return Transition{}, err
	}
	tr, err := s.endLocked(table)
	s.mu.Unlock()
	if err != nil {
		return Transition{}, err
	}
	return s.journal(ctx, tr)
}

func (s *VenueService) startLocked(table *domain.Table) Transition {
	now := s.clock.Now()
	restarted := table.StartSession(now)
	if restarted {
		s.logger.Warn().Int("table", table.Number()).Msg("session restarted, open session discarded")
	} else {
		s.logger.Info().Int("table", table.Number()).Time("started_at", now).Msg("session started")
	}
	s.metrics.SessionStarted(table.Number())
	return Transition{State: table.State(now), Started: true, Restarted: restarted}
}

func (s *VenueService) endLocked(table *domain.Table) (Transition, error) {
	now := s.clock.Now()
	record, err := table.EndSession(s.idGen.New(), now)
	if err != nil {
		return Transition{}, err
	}
	if err := s.stats.Record(record); err != nil {
		return Transition{}, err
	}
	s.metrics.SessionEnded(record.TableNumber(), record.Minutes(), record.Cost())
	s.logger.Info().
		Int("table", record.TableNumber()).
		Str("session_id", record.ID()).
		Int64("minutes", record.Minutes()).
		Float64("cost", record.Cost()).
		Msg("session ended")
	return Transition{State: table.State(now), Record: record}, nil
}

// journal persists a completed session. The aggregator is already updated,
// so a failure here is reported alongside a valid transition.
func (s *VenueService) journal(ctx context.Context, tr Transition) (Transition, error) {
	if s.store == nil {
		return tr, nil
	}
	path, err := s.store.Save(ctx, tr.Record)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", tr.Record.ID()).Msg("journal session note")
		return tr, fmt.Errorf("journal session %s: %w", tr.Record.ID(), err)
	}
	tr.Path = path
	if s.projector == nil {
		return tr, nil
	}
	if err := s.projector.UpsertSession(ctx, venueout.EntryFromRecord(tr.Record, path)); err != nil {
		s.logger.Error().Err(err).Str("session_id", tr.Record.ID()).Msg("index session")
		return tr, fmt.Errorf("index session %s: %w", tr.Record.ID(), err)
	}
	return tr, nil
}

// Tables reads every table at the current instant.
func (s *VenueService) Tables(ctx context.Context) []domain.TableState {
	return s.Current(ctx).Tables
}

// Current returns live per-table figures and their grand total.
func (s *VenueService) Current(_ context.Context) domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.TakeSnapshot(s.tables, s.clock.Now())
}

// Archive returns the aggregated statistics of completed sessions.
func (s *VenueService) Archive(_ context.Context) domain.ArchiveSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.Summary()
}

// History lists the most recent journaled sessions, newest first.
func (s *VenueService) History(ctx context.Context, limit int) ([]venueout.JournalEntry, error) {
	if s.projector == nil {
		return nil, apperrors.ErrJournalDisabled
	}
	if limit <= 0 {
		limit = 20
	}
	return s.projector.ListRecent(ctx, limit)
}

// Reindex rebuilds the session index from the journal notes and returns the
// number of indexed sessions. The aggregator is left untouched.
func (s *VenueService) Reindex(ctx context.Context) (int, error) {
	if s.store == nil || s.projector == nil {
		return 0, apperrors.ErrJournalDisabled
	}
	entries, err := s.store.List(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.projector.Reset(ctx); err != nil {
		return 0, err
	}
	for _, entry := range entries {
		if err := s.projector.UpsertSession(ctx, entry); err != nil {
			return 0, err
		}
	}
	s.logger.Info().Int("sessions", len(entries)).Msg("session index rebuilt")
	return len(entries), nil
}
