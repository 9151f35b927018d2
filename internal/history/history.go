// Package history stores one record per finished regrab attempt.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Status values recorded for an attempt.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Entry is one regrab attempt.
type Entry struct {
	ID           int64     `json:"id"`
	SessionID    string    `json:"session_id"`
	Kind         string    `json:"kind"`
	Target       string    `json:"target"`
	ExternalID   int       `json:"external_id,omitempty"`
	SeriesID     int       `json:"series_id,omitempty"`
	SeasonNumber int       `json:"season_number,omitempty"`
	EpisodeID    int       `json:"episode_id,omitempty"`
	Status       string    `json:"status"`
	Stage        string    `json:"stage,omitempty"`
	Message      string    `json:"message"`
	Error        string    `json:"error,omitempty"`
	Uncertain    bool      `json:"uncertain,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Filter narrows List.
type Filter struct {
	Kind      string
	Status    string
	SessionID string
	Limit     int
}

// Store persists history entries.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore creates a history store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Add inserts h and fills in its ID and CreatedAt.
func (s *Store) Add(ctx context.Context, h *Entry) error {
	now := s.now()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO regrab_history (session_id, kind, target, external_id, series_id, season_number,
			episode_id, status, stage, message, error, uncertain, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.SessionID, h.Kind, h.Target, h.ExternalID, h.SeriesID, h.SeasonNumber,
		h.EpisodeID, h.Status, h.Stage, h.Message, h.Error, h.Uncertain, now,
	)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	h.ID = id
	h.CreatedAt = now
	return nil
}

// List returns entries matching f, most recent first.
func (s *Store) List(ctx context.Context, f Filter) ([]*Entry, error) {
	var conditions []string
	var args []any

	if f.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, f.Kind)
	}
	if f.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, f.Status)
	}
	if f.SessionID != "" {
		conditions = append(conditions, "session_id = ?")
		args = append(args, f.SessionID)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := `SELECT id, session_id, kind, target, external_id, series_id, season_number,
			episode_id, status, stage, message, error, uncertain, created_at
		FROM regrab_history ` + whereClause + ` ORDER BY created_at DESC, id DESC`

	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Entry
	for rows.Next() {
		h := &Entry{}
		if err := rows.Scan(&h.ID, &h.SessionID, &h.Kind, &h.Target, &h.ExternalID, &h.SeriesID,
			&h.SeasonNumber, &h.EpisodeID, &h.Status, &h.Stage, &h.Message, &h.Error,
			&h.Uncertain, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		results = append(results, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	return results, nil
}
