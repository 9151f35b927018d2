package handlers

import (
	"context"
	"log/slog"

	"github.com/vmunix/regrabarr/internal/events"
	"github.com/vmunix/regrabarr/internal/history"
	"github.com/vmunix/regrabarr/internal/regrab"
)

// HistoryHandler records every finished regrab in the history store.
type HistoryHandler struct {
	*BaseHandler
	store *history.Store
}

// NewHistoryHandler creates a history handler.
func NewHistoryHandler(bus *events.Bus, store *history.Store, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{
		BaseHandler: NewBaseHandler(bus, "history", logger),
		store:       store,
	}
}

// Start records outcomes until the bus closes.
func (h *HistoryHandler) Start(ctx context.Context) error {
	return h.drainOutcomes(ctx,
		func(ctx context.Context, e *events.RegrabCompleted) { h.record(ctx, successEntry(e)) },
		func(ctx context.Context, e *events.RegrabFailed) { h.record(ctx, failureEntry(e)) },
	)
}

func (h *HistoryHandler) record(ctx context.Context, entry *history.Entry) {
	if err := h.store.Add(ctx, entry); err != nil {
		h.Logger().Error("failed to record history", "session_id", entry.SessionID, "target", entry.Target, "error", err)
		return
	}
	h.Logger().Debug("recorded history", "id", entry.ID, "status", entry.Status, "target", entry.Target)
}

func baseEntry(sessionID string, t regrab.Target) *history.Entry {
	return &history.Entry{
		SessionID:    sessionID,
		Kind:         string(t.Kind),
		Target:       t.String(),
		ExternalID:   t.ExternalID,
		SeriesID:     t.SeriesID,
		SeasonNumber: t.SeasonNumber,
		EpisodeID:    t.EpisodeID,
	}
}

func successEntry(e *events.RegrabCompleted) *history.Entry {
	entry := baseEntry(e.SessionID(), e.Target)
	entry.Status = history.StatusSuccess
	entry.Message = e.Summary
	return entry
}

func failureEntry(e *events.RegrabFailed) *history.Entry {
	entry := baseEntry(e.SessionID(), e.Target)
	entry.Status = history.StatusFailed
	entry.Stage = e.Stage
	entry.Message = e.Reason
	entry.Error = e.Error
	entry.Uncertain = e.Uncertain
	return entry
}
