package events

import (
	"github.com/vmunix/regrabarr/internal/arr"
	"github.com/vmunix/regrabarr/internal/regrab"
)

// Regrab event types.
const (
	EventSeriesRegistered = "series.registered"
	EventRegrabRequested  = "regrab.requested"
	EventRegrabCompleted  = "regrab.completed"
	EventRegrabFailed     = "regrab.failed"
)

// SeriesRegistered is emitted when the wizard adds an untracked series.
type SeriesRegistered struct {
	BaseEvent
	TvdbID   int    `json:"tvdb_id"`
	SeriesID int    `json:"series_id"`
	Title    string `json:"title"`
}

// RegrabRequested is emitted after the user confirms, before any backend call.
type RegrabRequested struct {
	BaseEvent
	Target regrab.Target `json:"target"`
}

// RegrabCompleted is emitted when the regrab succeeded.
type RegrabCompleted struct {
	BaseEvent
	Target  regrab.Target `json:"target"`
	Summary string        `json:"summary"`
}

// RegrabFailed is emitted when a regrab stage failed.
type RegrabFailed struct {
	BaseEvent
	Target    regrab.Target `json:"target"`
	Stage     string        `json:"stage"`
	Reason    string        `json:"reason"`
	Error     string        `json:"error,omitempty"`
	Completed []string      `json:"completed,omitempty"`
	Uncertain bool          `json:"uncertain,omitempty"`
}

// EntityFor returns the entity type and id used to key events about t.
func EntityFor(t regrab.Target) (string, int64) {
	if t.Kind == arr.KindSeries {
		return EntityEpisode, t.EntityID()
	}
	return EntityMovie, t.EntityID()
}

// NewRegrabOutcome builds the completed or failed event for an outcome.
func NewRegrabOutcome(sessionID string, t regrab.Target, out regrab.Outcome) Event {
	entity, id := EntityFor(t)
	if out.OK() {
		return &RegrabCompleted{
			BaseEvent: NewBaseEvent(EventRegrabCompleted, entity, id, sessionID),
			Target:    t,
			Summary:   out.Summary,
		}
	}
	e := &RegrabFailed{
		BaseEvent: NewBaseEvent(EventRegrabFailed, entity, id, sessionID),
		Target:    t,
	}
	if f := out.Failure; f != nil {
		e.Stage = string(f.Stage)
		e.Reason = f.Reason
		e.Uncertain = f.Uncertain
		if f.Err != nil {
			e.Error = f.Err.Error()
		}
		for _, s := range f.Completed {
			e.Completed = append(e.Completed, string(s))
		}
	}
	return e
}
