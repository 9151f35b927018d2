// Package discord announces regrab outcomes to a Discord channel webhook.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vmunix/regrabarr/internal/arr"
	"github.com/vmunix/regrabarr/internal/events"
	"github.com/vmunix/regrabarr/internal/regrab"
)

// Embed colors.
const (
	ColorSuccess = 0x2ECC71
	ColorWarning = 0xF1C40F
	ColorDanger  = 0xE74C3C
	ColorInfo    = 0x3498DB
)

const defaultUsername = "regrabarr"

// ErrNoWebhook means the notifier has no webhook URL.
var ErrNoWebhook = errors.New("discord webhook url not set")

// Settings configures the webhook.
type Settings struct {
	WebhookURL string
	Username   string
	AvatarURL  string
}

// Notifier posts embeds to a Discord webhook.
type Notifier struct {
	settings   Settings
	httpClient *http.Client
	now        func() time.Time
	log        *slog.Logger
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(n *Notifier) {
		n.httpClient = c
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(n *Notifier) {
		n.log = log
	}
}

// New creates a notifier.
func New(settings Settings, opts ...Option) *Notifier {
	if settings.Username == "" {
		settings.Username = defaultUsername
	}
	n := &Notifier{
		settings:   settings,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.log = n.log.With("component", "discord")
	return n
}

// Test sends a test message.
func (n *Notifier) Test(ctx context.Context) error {
	return n.send(ctx, WebhookPayload{
		Username:  n.settings.Username,
		AvatarURL: n.settings.AvatarURL,
		Embeds: []Embed{{
			Title:       "regrabarr test notification",
			Description: "Regrab outcomes will be announced in this channel.",
			Color:       ColorInfo,
			Timestamp:   n.now().UTC().Format(time.RFC3339),
		}},
	})
}

// OnRegrabCompleted announces a successful regrab.
func (n *Notifier) OnRegrabCompleted(ctx context.Context, e *events.RegrabCompleted) error {
	embed := Embed{
		Title:       "Regrab requested - " + e.Target.String(),
		Description: e.Summary,
		Color:       ColorSuccess,
		Timestamp:   e.OccurredAt().UTC().Format(time.RFC3339),
		Fields:      targetFields(e.Target),
		Thumbnail:   poster(e.Target),
	}
	return n.send(ctx, n.payload(embed))
}

// OnRegrabFailed announces a failed regrab, including which steps already ran.
func (n *Notifier) OnRegrabFailed(ctx context.Context, e *events.RegrabFailed) error {
	color := ColorDanger
	if len(e.Completed) > 0 || e.Uncertain {
		color = ColorWarning
	}
	fields := targetFields(e.Target)
	fields = append(fields, EmbedField{Name: "Failed step", Value: e.Stage, Inline: true})
	if len(e.Completed) > 0 {
		fields = append(fields, EmbedField{Name: "Already done", Value: strings.Join(e.Completed, ", "), Inline: true})
	}
	if e.Uncertain {
		fields = append(fields, EmbedField{Name: "Note", Value: "The backend timed out; the change may have been applied."})
	}
	embed := Embed{
		Title:       "Regrab failed - " + e.Target.String(),
		Description: truncate(e.Reason, 2048),
		Color:       color,
		Timestamp:   e.OccurredAt().UTC().Format(time.RFC3339),
		Fields:      fields,
	}
	return n.send(ctx, n.payload(embed))
}

func (n *Notifier) payload(embed Embed) WebhookPayload {
	return WebhookPayload{
		Username:  n.settings.Username,
		AvatarURL: n.settings.AvatarURL,
		Embeds:    []Embed{embed},
	}
}

func targetFields(t regrab.Target) []EmbedField {
	if t.Kind == arr.KindSeries {
		fields := []EmbedField{
			{Name: "Series", Value: t.SeriesTitle, Inline: true},
			{Name: "Episode", Value: fmt.Sprintf("S%02dE%02d", t.SeasonNumber, t.EpisodeNumber), Inline: true},
		}
		if t.EpisodeTitle != "" {
			fields = append(fields, EmbedField{Name: "Title", Value: t.EpisodeTitle, Inline: true})
		}
		return fields
	}
	fields := []EmbedField{{Name: "Year", Value: fmt.Sprintf("%d", t.Year), Inline: true}}
	if t.ExternalID > 0 {
		fields = append(fields, EmbedField{
			Name:   "Links",
			Value:  fmt.Sprintf("[TMDb](https://www.themoviedb.org/movie/%d)", t.ExternalID),
			Inline: true,
		})
	}
	return fields
}

func poster(t regrab.Target) *EmbedImage {
	for _, img := range t.Images {
		if img.CoverType == "poster" && img.RemoteURL != "" {
			return &EmbedImage{URL: img.RemoteURL}
		}
	}
	return nil
}

func (n *Notifier) send(ctx context.Context, payload WebhookPayload) error {
	if n.settings.WebhookURL == "" {
		return ErrNoWebhook
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.settings.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("discord returned status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}

// WebhookPayload is the Discord webhook request body.
type WebhookPayload struct {
	Username  string  `json:"username,omitempty"`
	AvatarURL string  `json:"avatar_url,omitempty"`
	Content   string  `json:"content,omitempty"`
	Embeds    []Embed `json:"embeds,omitempty"`
}

// Embed is a Discord embed object.
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
	Thumbnail   *EmbedImage  `json:"thumbnail,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
}

// EmbedImage is an image in an embed.
type EmbedImage struct {
	URL string `json:"url,omitempty"`
}

// EmbedField is a field in an embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
