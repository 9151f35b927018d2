package regrab

import (
	"errors"
	"fmt"

	"github.com/vmunix/regrabarr/internal/arr"
)

// Target is a fully resolved regrab request. Film targets need ExternalID
// and Title; episode targets need SeriesID and EpisodeID.
type Target struct {
	Kind arr.Kind `json:"kind"`

	// Film fields. CatalogID is informational; execution re-resolves by ExternalID.
	CatalogID  int         `json:"catalog_id,omitempty"`
	ExternalID int         `json:"external_id,omitempty"`
	Title      string      `json:"title,omitempty"`
	Year       int         `json:"year,omitempty"`
	Overview   string      `json:"overview,omitempty"`
	TitleSlug  string      `json:"title_slug,omitempty"`
	Images     []arr.Image `json:"-"`

	// Episode fields.
	SeriesID       int    `json:"series_id,omitempty"`
	SeriesTitle    string `json:"series_title,omitempty"`
	SeasonNumber   int    `json:"season_number,omitempty"`
	EpisodeID      int    `json:"episode_id,omitempty"`
	EpisodeNumber  int    `json:"episode_number,omitempty"`
	EpisodeTitle   string `json:"episode_title,omitempty"`
	EpisodeAirDate string `json:"episode_air_date,omitempty"`
	EpisodeFileID  int    `json:"episode_file_id,omitempty"`
}

// ErrIncompleteTarget is returned by Validate when required fields are missing.
var ErrIncompleteTarget = errors.New("incomplete regrab target")

// Validate checks that the fields Execute needs for the target's kind are present.
func (t Target) Validate() error {
	switch t.Kind {
	case arr.KindMovie:
		if t.ExternalID == 0 || t.Title == "" {
			return fmt.Errorf("%w: film needs external id and title", ErrIncompleteTarget)
		}
	case arr.KindSeries:
		if t.SeriesID == 0 || t.EpisodeID == 0 || t.SeasonNumber == 0 {
			return fmt.Errorf("%w: episode needs series, season and episode ids", ErrIncompleteTarget)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrIncompleteTarget, t.Kind)
	}
	return nil
}

// String returns a short human-readable name such as "Alien (1979)" or "Dark S01E02".
func (t Target) String() string {
	if t.Kind == arr.KindSeries {
		s := fmt.Sprintf("%s S%02dE%02d", t.SeriesTitle, t.SeasonNumber, t.EpisodeNumber)
		if t.EpisodeTitle != "" {
			s += " - " + t.EpisodeTitle
		}
		return s
	}
	if t.Year > 0 {
		return fmt.Sprintf("%s (%d)", t.Title, t.Year)
	}
	return t.Title
}

// EntityID is the backend id used to key events and history for this target.
func (t Target) EntityID() int64 {
	if t.Kind == arr.KindSeries {
		return int64(t.EpisodeID)
	}
	return int64(t.ExternalID)
}
