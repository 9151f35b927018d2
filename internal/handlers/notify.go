package handlers

import (
	"context"
	"log/slog"

	"github.com/vmunix/regrabarr/internal/events"
)

// Announcer publishes regrab outcomes to an external channel.
type Announcer interface {
	OnRegrabCompleted(ctx context.Context, e *events.RegrabCompleted) error
	OnRegrabFailed(ctx context.Context, e *events.RegrabFailed) error
}

// NotifyHandler forwards regrab outcomes to an Announcer.
type NotifyHandler struct {
	*BaseHandler
	announcer Announcer
}

// NewNotifyHandler creates a notify handler.
func NewNotifyHandler(bus *events.Bus, announcer Announcer, logger *slog.Logger) *NotifyHandler {
	return &NotifyHandler{
		BaseHandler: NewBaseHandler(bus, "notify", logger),
		announcer:   announcer,
	}
}

// Start forwards outcomes until the bus closes. Announcements are best effort.
func (h *NotifyHandler) Start(ctx context.Context) error {
	return h.drainOutcomes(ctx,
		func(ctx context.Context, e *events.RegrabCompleted) {
			h.warn(h.announcer.OnRegrabCompleted(ctx, e), e.SessionID())
		},
		func(ctx context.Context, e *events.RegrabFailed) {
			h.warn(h.announcer.OnRegrabFailed(ctx, e), e.SessionID())
		},
	)
}

func (h *NotifyHandler) warn(err error, sessionID string) {
	if err != nil {
		h.Logger().Warn("announcement failed", "session_id", sessionID, "error", err)
	}
}
