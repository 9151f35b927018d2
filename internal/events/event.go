// Package events provides the in-process event bus and its SQLite log.
package events

import "time"

// Entity types carried by events.
const (
	EntitySession = "session"
	EntityMovie   = "movie"
	EntitySeries  = "series"
	EntityEpisode = "episode"
)

// Event is the base interface all events implement.
type Event interface {
	EventType() string
	EntityType() string // "session", "movie", "series", "episode"
	EntityID() int64
	SessionID() string
	OccurredAt() time.Time
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	Type      string    `json:"type"`
	Entity    string    `json:"entity_type"`
	ID        int64     `json:"entity_id"`
	Session   string    `json:"session_id,omitempty"`
	Timestamp time.Time `json:"occurred_at"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) EntityType() string    { return e.Entity }
func (e BaseEvent) EntityID() int64       { return e.ID }
func (e BaseEvent) SessionID() string     { return e.Session }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent creates a BaseEvent for a session with the current timestamp.
func NewBaseEvent(eventType, entityType string, entityID int64, sessionID string) BaseEvent {
	return BaseEvent{
		Type:      eventType,
		Entity:    entityType,
		ID:        entityID,
		Session:   sessionID,
		Timestamp: time.Now(),
	}
}
