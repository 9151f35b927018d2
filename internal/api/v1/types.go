package v1

import (
	"time"

	"github.com/vmunix/regrabarr/internal/history"
	"github.com/vmunix/regrabarr/internal/wizard"
)

// startSessionRequest is the body for POST /sessions.
type startSessionRequest struct {
	Kind  string `json:"kind"`
	Query string `json:"query"`
}

// commandRequest is the body for POST /commands/{name}.
type commandRequest struct {
	Query string `json:"query"`
}

// selectRequest is the body for POST /sessions/{id}/select.
type selectRequest struct {
	Index *int `json:"index"`
}

// sessionResponse is the API representation of a session.
type sessionResponse struct {
	ID        string      `json:"id"`
	Kind      string      `json:"kind"`
	Query     string      `json:"query"`
	State     string      `json:"state"`
	View      wizard.View `json:"view"`
	Status    string      `json:"status,omitempty"`
	Notices   []string    `json:"notices,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// notFoundResponse is returned when a search produced no session.
type notFoundResponse struct {
	Error string      `json:"error"`
	Code  string      `json:"code"`
	View  wizard.View `json:"view"`
}

type noticesResponse struct {
	Notices []string `json:"notices"`
}

type listHistoryResponse struct {
	Items []*history.Entry `json:"items"`
	Total int              `json:"total"`
	Limit int              `json:"limit"`
}

// EventResponse is a persisted event.
type EventResponse struct {
	ID         int64  `json:"id"`
	EventType  string `json:"event_type"`
	EntityType string `json:"entity_type"`
	EntityID   int64  `json:"entity_id"`
	SessionID  string `json:"session_id,omitempty"`
	Payload    string `json:"payload"`
	OccurredAt string `json:"occurred_at"`
}

type listEventsResponse struct {
	Items []EventResponse `json:"items"`
	Total int             `json:"total"`
	Limit int             `json:"limit"`
}

type statusResponse struct {
	Status   string          `json:"status"`
	Version  string          `json:"version"`
	Sessions int             `json:"active_sessions"`
	Backends map[string]bool `json:"backends"`
}
