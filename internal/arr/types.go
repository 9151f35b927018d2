// Package arr provides typed clients for the Radarr (film) and Sonarr (series) v3 APIs.
package arr

import "context"

// MaxResults caps lookup results so selection lists stay manageable.
const MaxResults = 10

// Kind distinguishes the two backends.
type Kind string

const (
	KindMovie  Kind = "movie"
	KindSeries Kind = "series"
)

func (k Kind) String() string { return string(k) }

// Image is a poster/fanart reference returned by lookups.
type Image struct {
	CoverType string `json:"coverType"`
	URL       string `json:"url,omitempty"`
	RemoteURL string `json:"remoteUrl,omitempty"`
}

// Season is a season of a series. Season 0 holds specials.
type Season struct {
	Number    int  `json:"seasonNumber"`
	Monitored bool `json:"monitored"`
}

// SearchResult is a film or series returned by a lookup or inventory call.
// CatalogID is zero when the backend does not track the item yet.
type SearchResult struct {
	Kind       Kind
	CatalogID  int
	ExternalID int // tmdbId for films, tvdbId for series
	Title      string
	Year       int
	Overview   string
	TitleSlug  string
	Images     []Image
	Seasons    []Season
}

// Tracked reports whether the backend already has a catalog entry.
func (r SearchResult) Tracked() bool { return r.CatalogID != 0 }

// Episode is a single episode of a tracked series.
type Episode struct {
	ID            int
	SeriesID      int
	SeasonNumber  int
	EpisodeNumber int
	Title         string
	Overview      string
	AirDate       string // YYYY-MM-DD, empty when not yet scheduled
	EpisodeFileID int    // 0 when no file is on disk
	HasFile       bool
}

// CommandName is an asynchronous backend command.
type CommandName string

const (
	CommandMoviesSearch  CommandName = "MoviesSearch"
	CommandSeriesSearch  CommandName = "SeriesSearch"
	CommandEpisodeSearch CommandName = "EpisodeSearch"
)

// Capabilities describes backend behavior that differs between deployments.
type Capabilities struct {
	// AddWithSearch means the add call itself starts a search, so no separate
	// search command is needed afterwards.
	AddWithSearch bool
}

// Defaults are the deployment settings applied when adding catalog entries.
type Defaults struct {
	QualityProfileID    int
	LanguageProfileID   int
	RootFolderPath      string
	MinimumAvailability string
	SearchOnAdd         bool
	SeasonFolder        bool
}

// DefaultsSource supplies the current defaults. Implementations may change
// their answer over time (config reload).
type DefaultsSource interface {
	Defaults() Defaults
}

// StaticDefaults is a DefaultsSource that never changes.
type StaticDefaults Defaults

// Defaults implements DefaultsSource.
func (d StaticDefaults) Defaults() Defaults { return Defaults(d) }

// AddRequest describes a catalog entry to register.
type AddRequest struct {
	ExternalID  int
	Title       string
	Year        int
	TitleSlug   string
	Images      []Image
	Seasons     []Season
	SearchOnAdd bool
}

// Catalog is the set of operations both backends support.
type Catalog interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
	Existing(ctx context.Context, externalID int) (SearchResult, error)
	Add(ctx context.Context, req AddRequest) (int, error)
	Delete(ctx context.Context, catalogID int, purgeFiles bool) error
	TriggerSearch(ctx context.Context, cmd CommandName, ids ...int) error
	Capabilities() Capabilities
}

// MovieCatalog is the film backend.
type MovieCatalog interface {
	Catalog
}

// SeriesCatalog is the series backend.
type SeriesCatalog interface {
	Catalog
	DeleteEpisodeFile(ctx context.Context, fileID int) error
	Episodes(ctx context.Context, seriesID, seasonNumber int) ([]Episode, error)
}

//go:generate mockgen -destination=mocks/mock_catalog.go -package=mocks github.com/vmunix/regrabarr/internal/arr MovieCatalog,SeriesCatalog
