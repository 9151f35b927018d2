package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client wraps HTTP calls to regrabd.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new regrabd API client.
func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: serverURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) get(path string, result any) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

// API response types (mirror server types)

type StatusResponse struct {
	Status   string          `json:"status"`
	Version  string          `json:"version"`
	Sessions int             `json:"active_sessions"`
	Backends map[string]bool `json:"backends"`
}

type HistoryEntry struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Kind      string    `json:"kind"`
	Target    string    `json:"target"`
	Status    string    `json:"status"`
	Stage     string    `json:"stage,omitempty"`
	Message   string    `json:"message"`
	Error     string    `json:"error,omitempty"`
	Uncertain bool      `json:"uncertain,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ListHistoryResponse struct {
	Items []HistoryEntry `json:"items"`
	Total int            `json:"total"`
	Limit int            `json:"limit"`
}

type EventResponse struct {
	ID         int64  `json:"id"`
	EventType  string `json:"event_type"`
	EntityType string `json:"entity_type"`
	EntityID   int64  `json:"entity_id"`
	SessionID  string `json:"session_id,omitempty"`
	Payload    string `json:"payload"`
	OccurredAt string `json:"occurred_at"`
}

type ListEventsResponse struct {
	Items []EventResponse `json:"items"`
	Total int             `json:"total"`
	Limit int             `json:"limit"`
}

// Status returns the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.get("/api/v1/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// History returns recent regrab outcomes, optionally filtered.
func (c *Client) History(limit int, kind, status string) (*ListHistoryResponse, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if kind != "" {
		q.Set("kind", kind)
	}
	if status != "" {
		q.Set("status", status)
	}
	var resp ListHistoryResponse
	if err := c.get("/api/v1/history?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Events returns recent events.
func (c *Client) Events(limit int) (*ListEventsResponse, error) {
	var resp ListEventsResponse
	if err := c.get(fmt.Sprintf("/api/v1/events?limit=%d", limit), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SessionEvents returns every event of one session.
func (c *Client) SessionEvents(id string) (*ListEventsResponse, error) {
	var resp ListEventsResponse
	if err := c.get("/api/v1/sessions/"+url.PathEscape(id)+"/events", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
