package v1

import (
	"net/http"
	"time"

	"github.com/vmunix/regrabarr/internal/events"
)

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	if limit < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be non-negative")
		return
	}
	const maxLimit = 1000
	if limit > maxLimit {
		limit = maxLimit
	}

	evs, err := s.deps.EventLog.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toEventsResponse(evs, limit))
}

func (s *Server) listSessionEvents(w http.ResponseWriter, r *http.Request) {
	evs, err := s.deps.EventLog.ForSession(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
		return
	}
	if len(evs) == 0 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "No events for session")
		return
	}
	writeJSON(w, http.StatusOK, toEventsResponse(evs, len(evs)))
}

func toEventsResponse(evs []events.RawEvent, limit int) listEventsResponse {
	resp := listEventsResponse{
		Items: make([]EventResponse, len(evs)),
		Total: len(evs),
		Limit: limit,
	}
	for i, e := range evs {
		resp.Items[i] = EventResponse{
			ID:         e.ID,
			EventType:  e.EventType,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			SessionID:  e.SessionID,
			Payload:    e.Payload,
			OccurredAt: e.OccurredAt.Format(time.RFC3339),
		}
	}
	return resp
}
