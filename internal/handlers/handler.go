// Package handlers reacts to session and regrab events on the bus.
package handlers

import (
	"context"
	"log/slog"

	"github.com/vmunix/regrabarr/internal/events"
)

// outcomeBuffer is the subscription size for regrab outcome events.
const outcomeBuffer = 100

// Handler is a bus consumer. regrabd runs handlers in its errgroup; the CLI
// runs them for the length of one command.
type Handler interface {
	// Start consumes events until the bus closes its subscriptions or ctx
	// is cancelled. It blocks.
	Start(ctx context.Context) error

	Name() string
}

// BaseHandler holds what the history and notify handlers share: the bus, a
// logger tagged with the handler name and the outcome drain loop.
type BaseHandler struct {
	bus    *events.Bus
	name   string
	logger *slog.Logger
}

// NewBaseHandler creates a base handler named name.
func NewBaseHandler(bus *events.Bus, name string, logger *slog.Logger) *BaseHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BaseHandler{
		bus:    bus,
		name:   name,
		logger: logger.With("handler", name),
	}
}

// Name returns the handler name used in logs.
func (h *BaseHandler) Name() string { return h.name }

// Bus returns the event bus.
func (h *BaseHandler) Bus() *events.Bus { return h.bus }

// Logger returns the handler's logger.
func (h *BaseHandler) Logger() *slog.Logger { return h.logger }

// drainOutcomes passes every regrab.completed and regrab.failed event to the
// matching func. It returns nil once the bus has closed both subscriptions,
// so outcomes published before Bus.Close are never dropped.
func (h *BaseHandler) drainOutcomes(
	ctx context.Context,
	onCompleted func(context.Context, *events.RegrabCompleted),
	onFailed func(context.Context, *events.RegrabFailed),
) error {
	completed := h.bus.Subscribe(events.EventRegrabCompleted, outcomeBuffer)
	failed := h.bus.Subscribe(events.EventRegrabFailed, outcomeBuffer)

	for completed != nil || failed != nil {
		select {
		case e, ok := <-completed:
			if !ok {
				completed = nil
				continue
			}
			onCompleted(ctx, e.(*events.RegrabCompleted))
		case e, ok := <-failed:
			if !ok {
				failed = nil
				continue
			}
			onFailed(ctx, e.(*events.RegrabFailed))
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	h.logger.Debug("outcome subscriptions closed")
	return nil
}
