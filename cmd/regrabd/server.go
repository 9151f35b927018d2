package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vmunix/regrabarr/internal/arr"
	"github.com/vmunix/regrabarr/internal/config"
	"github.com/vmunix/regrabarr/internal/logging"
	"github.com/vmunix/regrabarr/internal/server"
)

func runServer(configPath string) error {
	if configPath == "" {
		var err error
		if configPath, err = config.Discover(); err != nil {
			return err
		}
	}

	// Load config once up front so the logger exists before the watcher.
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := logging.New(os.Stdout, cfg.Server.LogLevel, cfg.Log)
	defer func() { _ = logger.Close() }()

	// Backend add settings and command names follow edits to the file.
	// Listen address, database and credentials need a restart.
	watcher, err := config.NewWatcher(configPath, logger.Logger, func(c *config.Config) {
		logger.Info("config reloaded", "path", configPath,
			"movie_command", c.Commands.Movie, "episode_command", c.Commands.Episode)
	})
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer func() { _ = watcher.Stop() }()
	cfg = watcher.Current()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := server.Open(ctx, cfg, logger.Logger,
		server.WithDefaultsSources(watcher.MovieDefaults(), watcher.SeriesDefaults()))
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting",
		"addr", addr,
		"database", cfg.Database.Path,
		"radarr", app.Movies != nil,
		"sonarr", app.Series != nil,
		"discord", app.Notifier != nil,
		"log_level", cfg.Server.LogLevel,
	)

	runner := server.NewRunner(app, server.Config{
		Addr:    addr,
		Version: version,
		Commands: func(name string) (arr.Kind, bool) {
			return watcher.Current().KindForCommand(name)
		},
		EventRetention: cfg.Database.EventRetention.Duration,
	}, logger.Logger)

	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("server stopped")
	return nil
}
