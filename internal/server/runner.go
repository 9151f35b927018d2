package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-co-op/gocron/v2"
	"golang.org/x/sync/errgroup"

	v1 "github.com/vmunix/regrabarr/internal/api/v1"
)

const (
	shutdownTimeout    = 30 * time.Second
	eventPruneInterval = time.Hour
)

// Config for the runner.
type Config struct {
	// Addr is the HTTP listen address. Empty disables the API.
	Addr    string
	Version string
	// Commands resolves front-end command names to kinds.
	Commands v1.CommandResolver
	// EventRetention bounds how long persisted events are kept. Zero keeps them forever.
	EventRetention time.Duration
}

// Runner manages the long-running components of an App.
type Runner struct {
	app    *App
	config Config
	logger *slog.Logger
}

// NewRunner creates a new runner.
func NewRunner(app *App, cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		app:    app,
		config: cfg,
		logger: logger,
	}
}

// Run starts all components.
// It blocks until the context is canceled or a component fails.
func (r *Runner) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, h := range r.app.Handlers() {
		g.Go(func() error {
			r.logger.Info("handler started", "handler", h.Name())
			if err := h.Start(ctx); err != nil {
				return fmt.Errorf("%s handler: %w", h.Name(), err)
			}
			return nil
		})
	}

	g.Go(func() error {
		return r.app.Sessions.RunJanitor(ctx)
	})

	if r.config.EventRetention > 0 {
		g.Go(func() error {
			return r.pruneEvents(ctx)
		})
	}

	if r.config.Addr != "" {
		srv, err := r.httpServer()
		if err != nil {
			return err
		}
		g.Go(func() error {
			r.logger.Info("http server starting", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("http shutdown: %w", err)
			}
			r.logger.Info("http server stopped")
			return nil
		})
	}

	return g.Wait()
}

func (r *Runner) httpServer() (*http.Server, error) {
	api, err := v1.NewWithDeps(v1.ServerDeps{
		Sessions: r.app.Sessions,
		Commands: r.config.Commands,
		History:  r.app.History,
		EventLog: r.app.EventLog,
	}, v1.Config{
		Version:  r.config.Version,
		Backends: r.app.Backends(),
	}, r.logger)
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}

	mux := http.NewServeMux()
	api.RegisterRoutes(mux)
	return &http.Server{
		Addr:              r.config.Addr,
		Handler:           v1.LogRequests(mux, r.logger.With("component", "http")),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// pruneEvents drops persisted events older than EventRetention every hour.
func (r *Runner) pruneEvents(ctx context.Context) error {
	log := r.logger.With("component", "events")
	s, err := gocron.NewScheduler(gocron.WithLogger(log))
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(eventPruneInterval),
		gocron.NewTask(func() {
			n, err := r.app.EventLog.Prune(ctx, r.config.EventRetention)
			if err != nil {
				log.Error("event prune failed", "error", err)
				return
			}
			if n > 0 {
				log.Info("events pruned", "count", n)
			}
		}),
		gocron.WithName("event-prune"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return fmt.Errorf("schedule prune: %w", err)
	}

	s.Start()
	<-ctx.Done()
	return s.Shutdown()
}
