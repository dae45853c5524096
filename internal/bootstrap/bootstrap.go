package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	venueinadapter "anticafe/internal/modules/venue/adapter/in"
	venueoutadapter "anticafe/internal/modules/venue/adapter/out"
	venueout "anticafe/internal/modules/venue/port/out"
	venueservice "anticafe/internal/modules/venue/service"
	venueusecase "anticafe/internal/modules/venue/usecase"
	"anticafe/internal/platform/clock"
	"anticafe/internal/platform/config"
	"anticafe/internal/platform/id"
	"anticafe/internal/platform/metrics"
	"anticafe/internal/replay"
	uiapp "anticafe/internal/ui/app"
)

const connectTimeout = 5 * time.Second

type App struct {
	VenueCLI  venueinadapter.CLIHandler
	VenueHTTP *venueinadapter.HTTPHandler
	Registry  *prometheus.Registry
	Config    config.Config
	Logger    zerolog.Logger

	closers []io.Closer
}

type options struct {
	clock clock.Clock
}

type Option func(*options)

// WithClock replaces the system clock.
func WithClock(clk clock.Clock) Option {
	return func(o *options) { o.clock = clk }
}

func New(cfg config.Config, logger zerolog.Logger, opts ...Option) (*App, error) {
	o := options{clock: clock.SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder, err := metrics.NewPrometheus(registry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	app := &App{Registry: registry, Config: cfg, Logger: logger}

	projector, err := newProjector(cfg)
	if err != nil {
		return nil, err
	}
	if projector != nil {
		app.closers = append(app.closers, projector)
	}

	svc, err := venueservice.NewVenueService(cfg.Venue.Tables, cfg.Venue.RatePerMinute, venueservice.Deps{
		Clock:     o.clock,
		IDs:       id.UUID{},
		Store:     venueoutadapter.NewVaultSessionStore(cfg.Journal.Dir, cfg.Venue.CurrencyLabel),
		Projector: projector,
		Metrics:   recorder,
		Logger:    logger,
	})
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("new venue service: %w", err)
	}
	venueUC := venueusecase.NewInteractor(svc)

	app.VenueCLI = venueinadapter.NewCLIHandler(venueUC)
	app.VenueHTTP = venueinadapter.NewHTTPHandler(venueUC, logger)
	return app, nil
}

// newProjector returns a nil interface when the index is disabled.
func newProjector(cfg config.Config) (venueout.SessionIndexProjector, error) {
	switch cfg.Journal.Index {
	case config.IndexSQLite:
		p, err := venueoutadapter.NewSQLiteSessionProjector(cfg.Journal.DBPath)
		if err != nil {
			return nil, fmt.Errorf("new session projector: %w", err)
		}
		return p, nil
	case config.IndexRedis:
		p, err := venueoutadapter.NewRedisSessionProjector(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("new session projector: %w", err)
		}
		return p, nil
	case config.IndexPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		p, err := venueoutadapter.NewPostgresSessionProjector(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("new session projector: %w", err)
		}
		return p, nil
	default:
		return nil, nil
	}
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func RunTUI(ctx context.Context, app *App) error {
	if app.Config.HTTP.Addr != "" {
		server := NewStatusServer(app)
		if err := server.Start(); err != nil {
			return err
		}
		defer func() {
			if err := server.Stop(context.Background()); err != nil {
				app.Logger.Warn().Err(err).Msg("stop status server")
			}
		}()
	}

	model := uiapp.NewModel(app.VenueCLI, app.Config.Venue.CurrencyLabel)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// RunReplay plays script against a fresh venue driven by a manual clock.
// Replays never journal, so they leave no notes or index rows behind.
func RunReplay(ctx context.Context, cfg config.Config, script replay.Script, out io.Writer, logger zerolog.Logger) error {
	tables := cfg.Venue.Tables
	if script.Tables > 0 {
		tables = script.Tables
	}
	rate := cfg.Venue.RatePerMinute
	if script.RatePerMinute != nil {
		rate = *script.RatePerMinute
	}

	clk := clock.NewManual(script.Start)
	svc, err := venueservice.NewVenueService(tables, rate, venueservice.Deps{
		Clock:  clk,
		IDs:    id.UUID{},
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("new venue service: %w", err)
	}

	runner := replay.Runner{
		Venue:    venueusecase.NewInteractor(svc),
		Clock:    clk,
		Out:      out,
		Currency: cfg.Venue.CurrencyLabel,
	}
	return runner.Run(ctx, script)
}
