package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// EventLog persists events to SQLite.
type EventLog struct {
	db *sql.DB
}

// NewEventLog creates a new event log.
func NewEventLog(db *sql.DB) *EventLog {
	return &EventLog{db: db}
}

// Append persists an event and returns its ID.
func (l *EventLog) Append(ctx context.Context, e Event) (int64, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return 0, fmt.Errorf("marshal event: %w", err)
	}

	result, err := l.db.ExecContext(ctx, `
		INSERT INTO events (event_type, entity_type, entity_id, session_id, payload, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.EventType(), e.EntityType(), e.EntityID(), e.SessionID(), string(payload), e.OccurredAt(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}

	return result.LastInsertId()
}

// RawEvent represents a persisted event with its raw payload.
type RawEvent struct {
	ID         int64
	EventType  string
	EntityType string
	EntityID   int64
	SessionID  string
	Payload    string
	OccurredAt time.Time
	CreatedAt  time.Time
}

const selectEvents = `
	SELECT id, event_type, entity_type, entity_id, session_id, payload, occurred_at, created_at
	FROM events`

// Since returns all events since the given time.
func (l *EventLog) Since(ctx context.Context, t time.Time) ([]RawEvent, error) {
	return l.query(ctx, selectEvents+` WHERE occurred_at >= ? ORDER BY id ASC`, t)
}

// ForSession returns the events of one wizard session in order.
func (l *EventLog) ForSession(ctx context.Context, sessionID string) ([]RawEvent, error) {
	return l.query(ctx, selectEvents+` WHERE session_id = ? ORDER BY id ASC`, sessionID)
}

// ForEntity returns all events for a specific entity.
func (l *EventLog) ForEntity(ctx context.Context, entityType string, entityID int64) ([]RawEvent, error) {
	return l.query(ctx, selectEvents+` WHERE entity_type = ? AND entity_id = ? ORDER BY id ASC`, entityType, entityID)
}

// Recent returns the newest events first.
func (l *EventLog) Recent(ctx context.Context, limit int) ([]RawEvent, error) {
	return l.query(ctx, selectEvents+` ORDER BY id DESC LIMIT ?`, limit)
}

// Prune removes events older than the given duration.
func (l *EventLog) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result, err := l.db.ExecContext(ctx, `DELETE FROM events WHERE occurred_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	return result.RowsAffected()
}

func (l *EventLog) query(ctx context.Context, q string, args ...any) ([]RawEvent, error) {
	rows, err := l.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []RawEvent
	for rows.Next() {
		var e RawEvent
		if err := rows.Scan(&e.ID, &e.EventType, &e.EntityType, &e.EntityID, &e.SessionID, &e.Payload, &e.OccurredAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
