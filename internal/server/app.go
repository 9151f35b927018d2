// Package server composes the regrab components and runs them.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/vmunix/regrabarr/internal/arr"
	"github.com/vmunix/regrabarr/internal/config"
	"github.com/vmunix/regrabarr/internal/events"
	"github.com/vmunix/regrabarr/internal/handlers"
	"github.com/vmunix/regrabarr/internal/history"
	"github.com/vmunix/regrabarr/internal/migrations"
	"github.com/vmunix/regrabarr/internal/notify/discord"
	"github.com/vmunix/regrabarr/internal/regrab"
	"github.com/vmunix/regrabarr/internal/session"
	"github.com/vmunix/regrabarr/internal/wizard"
)

// App holds the wired components of a regrab process. Movies and Series are
// nil when the matching backend is not configured; Notifier is nil when
// Discord announcements are disabled.
type App struct {
	DB       *sql.DB
	Bus      *events.Bus
	EventLog *events.EventLog
	History  *history.Store
	Movies   *arr.MovieClient
	Series   *arr.SeriesClient
	Wizard   *wizard.Wizard
	Sessions *session.Manager
	Notifier *discord.Notifier

	log *slog.Logger
}

// Option configures Open.
type Option func(*options)

type options struct {
	movieDefaults  arr.DefaultsSource
	seriesDefaults arr.DefaultsSource
	sessionOpts    []session.Option
}

// WithDefaultsSources makes the catalog clients read add settings from the
// given sources on every call instead of the startup config.
func WithDefaultsSources(movies, series arr.DefaultsSource) Option {
	return func(o *options) {
		o.movieDefaults = movies
		o.seriesDefaults = series
	}
}

// WithSessionOptions passes extra options to the session manager.
func WithSessionOptions(opts ...session.Option) Option {
	return func(o *options) {
		o.sessionOpts = append(o.sessionOpts, opts...)
	}
}

// Open opens the database and builds every component from cfg.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	o := &options{
		movieDefaults:  arr.StaticDefaults(cfg.MovieDefaults()),
		seriesDefaults: arr.StaticDefaults(cfg.SeriesDefaults()),
	}
	for _, opt := range opts {
		opt(o)
	}

	db, err := openDB(ctx, cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	app := &App{
		DB:       db,
		EventLog: events.NewEventLog(db),
		History:  history.NewStore(db),
		log:      logger,
	}
	app.Bus = events.NewBus(app.EventLog, logger.With("component", "bus"))

	// Typed nils must not leak into the catalog interfaces.
	var movies arr.MovieCatalog
	var series arr.SeriesCatalog
	if cfg.Radarr.URL != "" {
		app.Movies = arr.NewMovieClient(cfg.Radarr.URL, cfg.Radarr.APIKey,
			arr.WithTimeout(cfg.Radarr.Timeout.Duration),
			arr.WithDefaults(o.movieDefaults),
			arr.WithLogger(logger),
		)
		movies = app.Movies
	}
	if cfg.Sonarr.URL != "" {
		app.Series = arr.NewSeriesClient(cfg.Sonarr.URL, cfg.Sonarr.APIKey,
			arr.WithTimeout(cfg.Sonarr.Timeout.Duration),
			arr.WithDefaults(o.seriesDefaults),
			arr.WithLogger(logger),
		)
		series = app.Series
	}

	orch := regrab.New(movies, series, regrab.WithLogger(logger))
	app.Wizard = wizard.New(movies, series, orch,
		wizard.WithPoll(cfg.Session.EpisodePollInterval.Duration, cfg.Session.EpisodePollMaxWait.Duration),
		wizard.WithRanking(cfg.Session.RankResults),
		wizard.WithLogger(logger),
	)

	sessOpts := append([]session.Option{
		session.WithBus(app.Bus),
		session.WithLogger(logger),
	}, o.sessionOpts...)
	app.Sessions = session.NewManager(app.Wizard, session.Config{
		Timeout:       cfg.Session.Timeout.Duration,
		SweepInterval: cfg.Session.SweepInterval.Duration,
		Retention:     cfg.Session.Retention.Duration,
	}, sessOpts...)

	if d := cfg.Notifications.Discord; d.Enabled {
		app.Notifier = discord.New(discord.Settings{
			WebhookURL: d.WebhookURL,
			Username:   d.Username,
		}, discord.WithLogger(logger))
	}

	return app, nil
}

// Backends reports which catalog backends are configured.
func (a *App) Backends() map[string]bool {
	return map[string]bool{
		"radarr": a.Movies != nil,
		"sonarr": a.Series != nil,
	}
}

// Handlers returns the bus handlers this app runs.
func (a *App) Handlers() []handlers.Handler {
	hs := []handlers.Handler{
		handlers.NewHistoryHandler(a.Bus, a.History, a.log),
	}
	if a.Notifier != nil {
		hs = append(hs, handlers.NewNotifyHandler(a.Bus, a.Notifier, a.log))
	}
	return hs
}

// Close stops the bus and closes the database.
func (a *App) Close() error {
	return errors.Join(a.Bus.Close(), a.DB.Close())
}

func openDB(ctx context.Context, path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// A single connection keeps writes serialized and :memory: databases shared.
	db.SetMaxOpenConns(1)

	if err := migrations.Apply(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}
