package arr

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// DefaultSeriesDefaults mirror a stock Sonarr install.
var DefaultSeriesDefaults = Defaults{
	QualityProfileID:  1,
	LanguageProfileID: 1,
	RootFolderPath:    "/tv",
	SeasonFolder:      true,
}

// SeriesClient talks to the Sonarr v3 API.
type SeriesClient struct {
	client
}

var _ SeriesCatalog = (*SeriesClient)(nil)

// NewSeriesClient creates a Sonarr client.
func NewSeriesClient(baseURL, apiKey string, opts ...Option) *SeriesClient {
	return &SeriesClient{client: newClient("sonarr", baseURL, apiKey, DefaultSeriesDefaults, opts...)}
}

type seriesResource struct {
	ID        int      `json:"id,omitempty"`
	Title     string   `json:"title"`
	Year      int      `json:"year"`
	TvdbID    int      `json:"tvdbId"`
	Overview  string   `json:"overview,omitempty"`
	TitleSlug string   `json:"titleSlug,omitempty"`
	Images    []Image  `json:"images,omitempty"`
	Seasons   []Season `json:"seasons,omitempty"`
}

func (s seriesResource) result() SearchResult {
	return SearchResult{
		Kind:       KindSeries,
		CatalogID:  s.ID,
		ExternalID: s.TvdbID,
		Title:      s.Title,
		Year:       s.Year,
		Overview:   s.Overview,
		TitleSlug:  s.TitleSlug,
		Images:     s.Images,
		Seasons:    s.Seasons,
	}
}

type episodeResource struct {
	ID            int    `json:"id"`
	SeriesID      int    `json:"seriesId"`
	SeasonNumber  int    `json:"seasonNumber"`
	EpisodeNumber int    `json:"episodeNumber"`
	Title         string `json:"title"`
	Overview      string `json:"overview,omitempty"`
	AirDate       string `json:"airDate,omitempty"`
	EpisodeFileID int    `json:"episodeFileId"`
	HasFile       bool   `json:"hasFile"`
}

type addSeriesRequest struct {
	TvdbID            int              `json:"tvdbId"`
	Title             string           `json:"title"`
	Year              int              `json:"year,omitempty"`
	TitleSlug         string           `json:"titleSlug,omitempty"`
	Images            []Image          `json:"images,omitempty"`
	Seasons           []Season         `json:"seasons,omitempty"`
	QualityProfileID  int              `json:"qualityProfileId"`
	LanguageProfileID int              `json:"languageProfileId,omitempty"`
	RootFolderPath    string           `json:"rootFolderPath"`
	SeasonFolder      bool             `json:"seasonFolder"`
	Monitored         bool             `json:"monitored"`
	AddOptions        seriesAddOptions `json:"addOptions"`
}

type seriesAddOptions struct {
	SearchForMissingEpisodes bool `json:"searchForMissingEpisodes"`
}

// Search looks up series by term, returning at most MaxResults in backend order.
func (c *SeriesClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	var resources []seriesResource
	if err := c.do(ctx, "series lookup", http.MethodGet, "/series/lookup", url.Values{"term": {query}}, nil, &resources); err != nil {
		return nil, err
	}
	results := make([]SearchResult, 0, min(len(resources), MaxResults))
	for _, s := range resources {
		results = append(results, s.result())
	}
	return truncate(results), nil
}

// Existing returns the tracked series with the given TVDB id. Sonarr has no
// filter for this, so the full series list is fetched and searched locally.
func (c *SeriesClient) Existing(ctx context.Context, tvdbID int) (SearchResult, error) {
	var resources []seriesResource
	if err := c.do(ctx, "list series", http.MethodGet, "/series", nil, nil, &resources); err != nil {
		return SearchResult{}, err
	}
	for _, s := range resources {
		if s.TvdbID == tvdbID {
			return s.result(), nil
		}
	}
	return SearchResult{}, fmt.Errorf("get series tvdb:%d: %w", tvdbID, ErrNotFound)
}

// Add registers a series using the current defaults and returns its catalog id.
// The id is 0 when the backend accepted the add without echoing the entry.
func (c *SeriesClient) Add(ctx context.Context, req AddRequest) (int, error) {
	d := c.defaults.Defaults()
	body := addSeriesRequest{
		TvdbID:            req.ExternalID,
		Title:             req.Title,
		Year:              req.Year,
		TitleSlug:         req.TitleSlug,
		Images:            req.Images,
		Seasons:           req.Seasons,
		QualityProfileID:  d.QualityProfileID,
		LanguageProfileID: d.LanguageProfileID,
		RootFolderPath:    d.RootFolderPath,
		SeasonFolder:      d.SeasonFolder,
		Monitored:         true,
		AddOptions:        seriesAddOptions{SearchForMissingEpisodes: req.SearchOnAdd},
	}
	var created seriesResource
	if err := c.do(ctx, "add series", http.MethodPost, "/series", nil, body, &created); err != nil {
		return 0, err
	}
	// A 2xx decides success. The id is 0 when the body did not carry one.
	return created.ID, nil
}

// Delete removes a series; purgeFiles also deletes it from disk.
func (c *SeriesClient) Delete(ctx context.Context, id int, purgeFiles bool) error {
	q := url.Values{"deleteFiles": {strconv.FormatBool(purgeFiles)}}
	return c.do(ctx, "delete series", http.MethodDelete, "/series/"+strconv.Itoa(id), q, nil, nil)
}

// DeleteEpisodeFile removes one episode file from disk.
func (c *SeriesClient) DeleteEpisodeFile(ctx context.Context, fileID int) error {
	return c.do(ctx, "delete episode file", http.MethodDelete, "/episodefile/"+strconv.Itoa(fileID), nil, nil, nil)
}

// Episodes lists the episodes of one season.
func (c *SeriesClient) Episodes(ctx context.Context, seriesID, seasonNumber int) ([]Episode, error) {
	q := url.Values{
		"seriesId":     {strconv.Itoa(seriesID)},
		"seasonNumber": {strconv.Itoa(seasonNumber)},
	}
	var resources []episodeResource
	if err := c.do(ctx, "list episodes", http.MethodGet, "/episode", q, nil, &resources); err != nil {
		return nil, err
	}
	episodes := make([]Episode, 0, len(resources))
	for _, e := range resources {
		// Older Sonarr versions ignore seasonNumber.
		if e.SeasonNumber != seasonNumber {
			continue
		}
		episodes = append(episodes, Episode{
			ID:            e.ID,
			SeriesID:      e.SeriesID,
			SeasonNumber:  e.SeasonNumber,
			EpisodeNumber: e.EpisodeNumber,
			Title:         e.Title,
			Overview:      e.Overview,
			AirDate:       e.AirDate,
			EpisodeFileID: e.EpisodeFileID,
			HasFile:       e.HasFile,
		})
	}
	return episodes, nil
}

// TriggerSearch enqueues SeriesSearch or EpisodeSearch.
func (c *SeriesClient) TriggerSearch(ctx context.Context, cmd CommandName, ids ...int) error {
	if cmd != CommandSeriesSearch && cmd != CommandEpisodeSearch {
		return fmt.Errorf("sonarr: unsupported command %q", cmd)
	}
	return c.triggerSearch(ctx, cmd, ids)
}

// Capabilities reports whether adds search for missing episodes immediately.
func (c *SeriesClient) Capabilities() Capabilities {
	return Capabilities{AddWithSearch: c.defaults.Defaults().SearchOnAdd}
}
