package main

import (
	"context"
	"fmt"
	"io"

	"github.com/vmunix/regrabarr/internal/config"
	"github.com/vmunix/regrabarr/internal/logging"
	"github.com/vmunix/regrabarr/internal/server"
)

// resolveConfigPath returns --config or the discovered config file.
func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.Discover()
}

// openApp loads the config and wires a local session stack. Console log
// output goes to console; the configured log file always gets a copy.
// Overrides adjust the loaded config before anything is built.
func openApp(ctx context.Context, console io.Writer, overrides ...func(*config.Config)) (*server.App, func(), error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	for _, o := range overrides {
		o(cfg)
	}

	logger := logging.New(console, cfg.Server.LogLevel, cfg.Log)
	app, err := server.Open(ctx, cfg, logger.Logger)
	if err != nil {
		_ = logger.Close()
		return nil, nil, err
	}

	// History and announcements run in-process for the length of the command.
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	handlers := app.Handlers()
	for _, h := range handlers {
		go func() {
			_ = h.Start(runCtx)
			done <- struct{}{}
		}()
	}

	// Closing the bus lets the handlers drain what was published before exiting.
	cleanup := func() {
		_ = app.Bus.Close()
		for range handlers {
			<-done
		}
		cancel()
		_ = app.Close()
		_ = logger.Close()
	}
	return app, cleanup, nil
}
