package arr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every backend call.
const DefaultTimeout = 15 * time.Second

// maxErrorBody limits how much of an error response is kept for logs.
const maxErrorBody = 512

// client holds what the film and series clients share: base URL, key, transport.
type client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	timeout    time.Duration
	defaults   DefaultsSource
	log        *slog.Logger
}

// Option configures a catalog client.
type Option func(*client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		c.timeout = d
	}
}

// WithDefaults sets where add-time defaults come from.
func WithDefaults(src DefaultsSource) Option {
	return func(c *client) {
		c.defaults = src
	}
}

// WithLogger sets a logger for request tracing.
func WithLogger(log *slog.Logger) Option {
	return func(c *client) {
		c.log = log
	}
}

func newClient(component, baseURL, apiKey string, def Defaults, opts ...Option) client {
	c := client{
		baseURL:    normalizeBaseURL(baseURL),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		defaults:   StaticDefaults(def),
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	c.log = c.log.With("component", component)
	return c
}

// normalizeBaseURL accepts both "http://host:7878" and "http://host:7878/api/v3".
func normalizeBaseURL(raw string) string {
	u := strings.TrimRight(raw, "/")
	u = strings.TrimSuffix(u, "/api/v3")
	return strings.TrimRight(u, "/")
}

// do performs one API call. in is JSON-encoded when non-nil; out is decoded when non-nil.
func (c *client) do(ctx context.Context, op, method, path string, query url.Values, in, out any) error {
	endpoint := c.baseURL + "/api/v3" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("request failed", "op", op, "method", method, "path", path,
			"duration_ms", time.Since(start).Milliseconds(), "error", err)
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.log.Debug("request completed", "op", op, "method", method, "path", path,
		"status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if err := checkResponse(op, resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrMalformedResponse, err)
	}
	return nil
}

// checkResponse maps HTTP status codes to errors.
func checkResponse(op string, resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%s: %w", op, ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	default:
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(data)),
		}
	}
}

// command is the body of POST /api/v3/command.
type command struct {
	Name       CommandName `json:"name"`
	MovieIDs   []int       `json:"movieIds,omitempty"`
	SeriesID   int         `json:"seriesId,omitempty"`
	EpisodeIDs []int       `json:"episodeIds,omitempty"`
}

func newCommand(name CommandName, ids []int) (command, error) {
	if len(ids) == 0 {
		return command{}, fmt.Errorf("command %s: no target ids", name)
	}
	cmd := command{Name: name}
	switch name {
	case CommandMoviesSearch:
		cmd.MovieIDs = ids
	case CommandSeriesSearch:
		if len(ids) != 1 {
			return command{}, fmt.Errorf("command %s: exactly one series id required", name)
		}
		cmd.SeriesID = ids[0]
	case CommandEpisodeSearch:
		cmd.EpisodeIDs = ids
	default:
		return command{}, fmt.Errorf("unknown command %q", name)
	}
	return cmd, nil
}

func (c *client) triggerSearch(ctx context.Context, name CommandName, ids []int) error {
	cmd, err := newCommand(name, ids)
	if err != nil {
		return err
	}
	return c.do(ctx, "trigger "+string(name), http.MethodPost, "/command", nil, cmd, nil)
}

func truncate(results []SearchResult) []SearchResult {
	if len(results) > MaxResults {
		return results[:MaxResults]
	}
	return results
}
