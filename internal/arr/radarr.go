package arr

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// DefaultMovieDefaults mirror a stock Radarr install.
var DefaultMovieDefaults = Defaults{
	QualityProfileID:    1,
	RootFolderPath:      "/movies",
	MinimumAvailability: "released",
	SearchOnAdd:         true,
}

// MovieClient talks to the Radarr v3 API.
type MovieClient struct {
	client
}

var _ MovieCatalog = (*MovieClient)(nil)

// NewMovieClient creates a Radarr client.
func NewMovieClient(baseURL, apiKey string, opts ...Option) *MovieClient {
	return &MovieClient{client: newClient("radarr", baseURL, apiKey, DefaultMovieDefaults, opts...)}
}

type movieResource struct {
	ID        int     `json:"id,omitempty"`
	Title     string  `json:"title"`
	Year      int     `json:"year"`
	TmdbID    int     `json:"tmdbId"`
	Overview  string  `json:"overview,omitempty"`
	TitleSlug string  `json:"titleSlug,omitempty"`
	Images    []Image `json:"images,omitempty"`
	HasFile   bool    `json:"hasFile,omitempty"`
}

func (m movieResource) result() SearchResult {
	return SearchResult{
		Kind:       KindMovie,
		CatalogID:  m.ID,
		ExternalID: m.TmdbID,
		Title:      m.Title,
		Year:       m.Year,
		Overview:   m.Overview,
		TitleSlug:  m.TitleSlug,
		Images:     m.Images,
	}
}

type addMovieRequest struct {
	TmdbID              int             `json:"tmdbId"`
	Title               string          `json:"title"`
	Year                int             `json:"year"`
	TitleSlug           string          `json:"titleSlug,omitempty"`
	Images              []Image         `json:"images,omitempty"`
	QualityProfileID    int             `json:"qualityProfileId"`
	RootFolderPath      string          `json:"rootFolderPath"`
	Monitored           bool            `json:"monitored"`
	MinimumAvailability string          `json:"minimumAvailability"`
	AddOptions          movieAddOptions `json:"addOptions"`
}

type movieAddOptions struct {
	SearchForMovie bool `json:"searchForMovie"`
}

// Search looks up films by term, returning at most MaxResults in backend order.
func (c *MovieClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	var resources []movieResource
	if err := c.do(ctx, "movie lookup", http.MethodGet, "/movie/lookup", url.Values{"term": {query}}, nil, &resources); err != nil {
		return nil, err
	}
	results := make([]SearchResult, 0, min(len(resources), MaxResults))
	for _, m := range resources {
		results = append(results, m.result())
	}
	return truncate(results), nil
}

// Existing returns the tracked film with the given TMDB id.
func (c *MovieClient) Existing(ctx context.Context, tmdbID int) (SearchResult, error) {
	var resources []movieResource
	q := url.Values{"tmdbId": {strconv.Itoa(tmdbID)}}
	if err := c.do(ctx, "get movie", http.MethodGet, "/movie", q, nil, &resources); err != nil {
		return SearchResult{}, err
	}
	for _, m := range resources {
		if m.TmdbID == tmdbID && m.ID != 0 {
			return m.result(), nil
		}
	}
	return SearchResult{}, fmt.Errorf("get movie tmdb:%d: %w", tmdbID, ErrNotFound)
}

// Add registers a film using the current defaults and returns its catalog id.
// The id is 0 when the backend accepted the add without echoing the entry.
func (c *MovieClient) Add(ctx context.Context, req AddRequest) (int, error) {
	d := c.defaults.Defaults()
	body := addMovieRequest{
		TmdbID:              req.ExternalID,
		Title:               req.Title,
		Year:                req.Year,
		TitleSlug:           req.TitleSlug,
		Images:              req.Images,
		QualityProfileID:    d.QualityProfileID,
		RootFolderPath:      d.RootFolderPath,
		Monitored:           true,
		MinimumAvailability: d.MinimumAvailability,
		AddOptions:          movieAddOptions{SearchForMovie: req.SearchOnAdd},
	}
	var created movieResource
	if err := c.do(ctx, "add movie", http.MethodPost, "/movie", nil, body, &created); err != nil {
		return 0, err
	}
	// A 2xx decides success. The id is 0 when the body did not carry one.
	return created.ID, nil
}

// Delete removes a film; purgeFiles also deletes it from disk.
func (c *MovieClient) Delete(ctx context.Context, id int, purgeFiles bool) error {
	q := url.Values{"deleteFiles": {strconv.FormatBool(purgeFiles)}}
	return c.do(ctx, "delete movie", http.MethodDelete, "/movie/"+strconv.Itoa(id), q, nil, nil)
}

// TriggerSearch enqueues a command. Only MoviesSearch applies to Radarr.
func (c *MovieClient) TriggerSearch(ctx context.Context, cmd CommandName, ids ...int) error {
	if cmd != CommandMoviesSearch {
		return fmt.Errorf("radarr: unsupported command %q", cmd)
	}
	return c.triggerSearch(ctx, cmd, ids)
}

// Capabilities reports whether adds search immediately.
func (c *MovieClient) Capabilities() Capabilities {
	return Capabilities{AddWithSearch: c.defaults.Defaults().SearchOnAdd}
}
