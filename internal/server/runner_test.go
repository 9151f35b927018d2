package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/regrabarr/internal/arr"
	"github.com/vmunix/regrabarr/internal/config"
	"github.com/vmunix/regrabarr/internal/events"
	"github.com/vmunix/regrabarr/internal/history"
	"github.com/vmunix/regrabarr/internal/regrab"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Database.Path = ":memory:"
	cfg.Radarr.URL = "http://radarr.test"
	cfg.Radarr.APIKey = "key"
	return cfg
}

func openTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	app, err := Open(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestOpen_WiresConfiguredBackendsOnly(t *testing.T) {
	app := openTestApp(t, testConfig())

	assert.NotNil(t, app.Movies)
	assert.Nil(t, app.Series)
	assert.Nil(t, app.Notifier)
	assert.Equal(t, map[string]bool{"radarr": true, "sonarr": false}, app.Backends())
	assert.Len(t, app.Handlers(), 1)
}

func TestOpen_DiscordAddsNotifyHandler(t *testing.T) {
	cfg := testConfig()
	cfg.Notifications.Discord.Enabled = true
	cfg.Notifications.Discord.WebhookURL = "https://discord.test/api/webhooks/1/x"

	app := openTestApp(t, cfg)

	require.NotNil(t, app.Notifier)
	names := make([]string, 0)
	for _, h := range app.Handlers() {
		names = append(names, h.Name())
	}
	assert.Equal(t, []string{"history", "notify"}, names)
}

func TestRunner_StartsAndStops(t *testing.T) {
	app := openTestApp(t, testConfig())
	runner := NewRunner(app, Config{EventRetention: time.Hour}, nil)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- runner.Run(ctx)
	}()

	// Give handlers time to start
	time.Sleep(50 * time.Millisecond)

	// Cancel and wait for clean shutdown
	cancel()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for runner to stop")
	}
}

func TestRunner_RecordsHistoryFromBus(t *testing.T) {
	app := openTestApp(t, testConfig())
	runner := NewRunner(app, Config{}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = runner.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)

	target := regrab.Target{Kind: arr.KindMovie, ExternalID: 603, Title: "The Matrix", Year: 1999}
	require.NoError(t, app.Bus.Publish(ctx, events.NewRegrabOutcome("s1", target, regrab.Succeeded("done"))))

	require.Eventually(t, func() bool {
		entries, err := app.History.List(ctx, history.Filter{SessionID: "s1"})
		return err == nil && len(entries) == 1
	}, 2*time.Second, 20*time.Millisecond)
}

func TestNewRunner_DefaultLogger(t *testing.T) {
	app := openTestApp(t, testConfig())

	// Should not panic with nil logger
	runner := NewRunner(app, Config{}, nil)
	require.NotNil(t, runner)
	require.NotNil(t, runner.logger)
}
