package session

import (
	"context"
	"fmt"

	"github.com/go-co-op/gocron/v2"
)

// RunJanitor sweeps sessions every SweepInterval until ctx is done.
func (m *Manager) RunJanitor(ctx context.Context) error {
	s, err := gocron.NewScheduler(gocron.WithLogger(m.log))
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(m.cfg.SweepInterval),
		gocron.NewTask(func() {
			m.Sweep(ctx)
		}),
		gocron.WithName("session-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return fmt.Errorf("schedule sweep: %w", err)
	}

	m.log.Info("janitor started", "interval", m.cfg.SweepInterval, "timeout", m.cfg.Timeout)
	s.Start()
	<-ctx.Done()

	if err := s.Shutdown(); err != nil {
		return fmt.Errorf("shutdown scheduler: %w", err)
	}
	m.log.Info("janitor stopped")
	return nil
}
