// Package wizard implements the selection flow that turns a free-text query
// into a fully resolved regrab target.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/vmunix/regrabarr/internal/arr"
	"github.com/vmunix/regrabarr/internal/regrab"
	"github.com/vmunix/regrabarr/pkg/titlematch"
)

// Default episode polling after a series is registered.
const (
	DefaultPollInterval = 5 * time.Second
	DefaultPollMaxWait  = 60 * time.Second
)

const airDateLayout = "2006-01-02"

// Executor performs the regrab once the user confirms.
type Executor interface {
	Execute(ctx context.Context, t regrab.Target) regrab.Outcome
}

// Wizard drives selection sessions. It holds no per-session state and is safe
// for concurrent use across sessions.
type Wizard struct {
	movies       arr.MovieCatalog
	series       arr.SeriesCatalog
	exec         Executor
	now          func() time.Time
	pollInterval time.Duration
	pollMaxWait  time.Duration
	rank         bool
	log          *slog.Logger
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithClock sets the time source used for air-date filtering.
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) {
		w.now = now
	}
}

// WithPoll sets how episodes are polled after registering a new series.
func WithPoll(interval, maxWait time.Duration) Option {
	return func(w *Wizard) {
		if interval > 0 {
			w.pollInterval = interval
		}
		if maxWait > 0 {
			w.pollMaxWait = maxWait
		}
	}
}

// WithRanking re-orders search results by title similarity to the query.
func WithRanking(enabled bool) Option {
	return func(w *Wizard) {
		w.rank = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(w *Wizard) {
		w.log = log
	}
}

// New creates a wizard. Either catalog may be nil when that backend is not configured.
func New(movies arr.MovieCatalog, series arr.SeriesCatalog, exec Executor, opts ...Option) *Wizard {
	w := &Wizard{
		movies:       movies,
		series:       series,
		exec:         exec,
		now:          time.Now,
		pollInterval: DefaultPollInterval,
		pollMaxWait:  DefaultPollMaxWait,
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.With("component", "wizard")
	return w
}

func (w *Wizard) catalog(kind arr.Kind) arr.Catalog {
	switch kind {
	case arr.KindMovie:
		if w.movies != nil {
			return w.movies
		}
	case arr.KindSeries:
		if w.series != nil {
			return w.series
		}
	}
	return nil
}

// Start runs the search for query. With no results it returns ErrSearchEmpty
// and a single not-found status view; no session is created.
func (w *Wizard) Start(ctx context.Context, id string, kind arr.Kind, query string) (*Session, View, error) {
	cat := w.catalog(kind)
	if cat == nil {
		return nil, statusView(fmt.Sprintf("Regrabbing %s is not configured.", kindNoun(kind))),
			fmt.Errorf("%w: %s", ErrBackendNotConfigured, kind)
	}

	query = strings.TrimSpace(query)
	results, err := cat.Search(ctx, query)
	if err != nil {
		w.log.Error("search failed", "kind", kind, "query", query, "error", err)
		return nil, statusView("The search could not be completed. Please try again later."),
			fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}
	if len(results) == 0 {
		w.log.Info("search returned no results", "kind", kind, "query", query)
		return nil, statusView(notFoundText(kind, query)), ErrSearchEmpty
	}
	if len(results) > arr.MaxResults {
		results = results[:arr.MaxResults]
	}
	if w.rank {
		results = rankResults(query, results)
	}

	s := &Session{
		ID:        id,
		Kind:      kind,
		Query:     query,
		State:     StateSearching,
		Target:    regrab.Target{Kind: kind},
		CreatedAt: w.now(),
	}
	if kind == arr.KindMovie {
		s.step = w.filmStep(results)
	} else {
		s.step = w.seriesStep(results)
	}
	s.State = s.step.state

	w.log.Debug("session started", "session_id", id, "kind", kind, "results", len(results))
	return s, s.show(s.step.view()), nil
}

// Apply feeds one input to the session. Select advances a selection step,
// Cancel ends the session. Proceed is handled by Execute.
func (w *Wizard) Apply(ctx context.Context, s *Session, in Input) (View, error) {
	if s.State.Terminal() || s.State == StateExecuting {
		return s.view, fmt.Errorf("%w: session is %s", ErrInvalidInput, s.State)
	}

	switch in.Action {
	case ActionCancel:
		out := regrab.Cancelled()
		s.outcome = &out
		s.State = StateCancelled
		w.log.Info("session cancelled", "session_id", s.ID)
		return s.show(statusView(out.Message())), nil

	case ActionSelect:
		if !s.State.Selecting() || s.step == nil {
			return s.view, fmt.Errorf("%w: nothing to select in %s", ErrInvalidInput, s.State)
		}
		if in.Index < 0 || in.Index >= len(s.step.choices) {
			return s.view, fmt.Errorf("%w: %d not in [0,%d)", ErrInvalidChoice, in.Index, len(s.step.choices))
		}
		v, err := s.step.next(ctx, s, in.Index)
		return s.show(v), err

	default:
		return s.view, fmt.Errorf("%w: %q in %s", ErrInvalidInput, in.Action, s.State)
	}
}

// Execute runs the regrab for a confirmed session and records the outcome.
func (w *Wizard) Execute(ctx context.Context, s *Session) (regrab.Outcome, View, error) {
	if s.State != StateConfirm {
		return regrab.Outcome{}, s.view, fmt.Errorf("%w: cannot execute in %s", ErrInvalidInput, s.State)
	}
	if err := s.Target.Validate(); err != nil {
		return regrab.Outcome{}, s.view, err
	}

	s.State = StateExecuting
	out := w.exec.Execute(ctx, s.Target)
	s.outcome = &out
	if out.OK() {
		s.State = StateDone
	} else {
		s.State = StateFailed
	}
	return out, s.show(statusView(out.Message())), nil
}

// Expire moves a non-terminal session to Expired. It reports whether the state changed.
func (w *Wizard) Expire(s *Session) bool {
	if s.State.Terminal() {
		return false
	}
	prev := s.State
	s.State = StateExpired
	s.show(statusView(ExpiredText))
	w.log.Info("session expired", "session_id", s.ID, "state", prev)
	return true
}

// ExpiredText is shown when a session times out.
const ExpiredText = "This request has expired. Please start a new one."

// fail ends the session during selection.
func (w *Wizard) fail(s *Session, err error, text string) View {
	s.State = StateFailed
	s.err = err
	return statusView(text)
}

func (w *Wizard) filmStep(results []arr.SearchResult) *step {
	return &step{
		state:   StateSelectFilm,
		prompt:  "Select a movie to regrab",
		choices: resultChoices(results),
		next: func(_ context.Context, s *Session, i int) (View, error) {
			r := results[i]
			s.Target.CatalogID = r.CatalogID
			s.Target.ExternalID = r.ExternalID
			s.Target.Title = r.Title
			s.Target.Year = r.Year
			s.Target.Overview = r.Overview
			s.Target.TitleSlug = r.TitleSlug
			s.Target.Images = r.Images
			return w.confirm(s), nil
		},
	}
}

func (w *Wizard) seriesStep(results []arr.SearchResult) *step {
	return &step{
		state:   StateSelectSeries,
		prompt:  "Select a TV series to regrab",
		choices: resultChoices(results),
		next: func(ctx context.Context, s *Session, i int) (View, error) {
			r := results[i]
			s.Target.ExternalID = r.ExternalID
			s.Target.SeriesTitle = r.Title
			s.Target.Year = r.Year

			if !r.Tracked() {
				resolved, err := w.register(ctx, r)
				if err != nil {
					out := regrab.Failed(regrab.StageRegister, err)
					out.Summary = fmt.Sprintf("Regrab of %s failed.", r.Title)
					s.outcome = &out
					return w.fail(s, fmt.Errorf("%w: %w", ErrRegistrationFailed, err), out.Message()), nil
				}
				s.registered = true
				r = resolved
			}
			s.Target.SeriesID = r.CatalogID

			seasons := selectableSeasons(r.Seasons)
			if len(seasons) == 0 {
				return w.fail(s, ErrSeasonNotYetAvailable, fmt.Sprintf(
					"%s has no seasons available yet. Please try again later.", r.Title)), nil
			}
			s.step = w.seasonStep(seasons)
			s.State = s.step.state
			return s.step.view(), nil
		},
	}
}

// register adds an untracked series and re-resolves it to learn its catalog id.
func (w *Wizard) register(ctx context.Context, r arr.SearchResult) (arr.SearchResult, error) {
	_, err := w.series.Add(ctx, arr.AddRequest{
		ExternalID:  r.ExternalID,
		Title:       r.Title,
		Year:        r.Year,
		TitleSlug:   r.TitleSlug,
		Images:      r.Images,
		Seasons:     r.Seasons,
		SearchOnAdd: w.series.Capabilities().AddWithSearch,
	})
	if err != nil {
		w.log.Error("series registration failed", "tvdb_id", r.ExternalID, "title", r.Title, "error", err)
		return arr.SearchResult{}, err
	}

	resolved, err := w.series.Existing(ctx, r.ExternalID)
	if err != nil {
		w.log.Error("registered series not found", "tvdb_id", r.ExternalID, "title", r.Title, "error", err)
		return arr.SearchResult{}, err
	}
	if len(resolved.Seasons) == 0 {
		resolved.Seasons = r.Seasons
	}
	w.log.Info("registered series", "tvdb_id", r.ExternalID, "series_id", resolved.CatalogID, "title", r.Title)
	return resolved, nil
}

func (w *Wizard) seasonStep(seasons []arr.Season) *step {
	choices := make([]Choice, len(seasons))
	for i, season := range seasons {
		choices[i] = Choice{Label: fmt.Sprintf("Season %d", season.Number)}
	}
	return &step{
		state:   StateSelectSeason,
		prompt:  "Please select a season",
		choices: choices,
		next: func(ctx context.Context, s *Session, i int) (View, error) {
			number := seasons[i].Number
			s.Target.SeasonNumber = number

			episodes, err := w.fetchEpisodes(ctx, s)
			if err != nil {
				w.log.Error("episode fetch failed", "series_id", s.Target.SeriesID, "season", number, "error", err)
				return w.fail(s, fmt.Errorf("%w: %w", ErrEpisodesUnavailable, err),
					"Could not load the episodes for this season. Please try again later."), nil
			}
			aired := airedEpisodes(episodes, w.now())
			if len(aired) == 0 {
				w.log.Info("no aired episodes yet", "series_id", s.Target.SeriesID, "season", number, "episodes", len(episodes))
				return w.fail(s, ErrSeasonNotYetAvailable, fmt.Sprintf(
					"Season %d of %s is not available yet. The backend may still be loading it; please start a new request in a few minutes.",
					number, s.Target.SeriesTitle)), nil
			}
			s.step = w.episodeStep(aired)
			s.State = s.step.state
			return s.step.view(), nil
		},
	}
}

var errNoEpisodesYet = errors.New("episode list empty")

// fetchEpisodes lists the chosen season. A series registered by this session
// is polled until the backend has populated its episodes or the wait runs out.
func (w *Wizard) fetchEpisodes(ctx context.Context, s *Session) ([]arr.Episode, error) {
	if !s.registered {
		return w.series.Episodes(ctx, s.Target.SeriesID, s.Target.SeasonNumber)
	}

	var episodes []arr.Episode
	b := retry.WithMaxDuration(w.pollMaxWait, retry.NewConstant(w.pollInterval))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		got, err := w.series.Episodes(ctx, s.Target.SeriesID, s.Target.SeasonNumber)
		if err != nil {
			if arr.IsTransient(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		if len(got) == 0 {
			w.log.Debug("episodes not populated yet", "series_id", s.Target.SeriesID, "season", s.Target.SeasonNumber)
			return retry.RetryableError(errNoEpisodesYet)
		}
		episodes = got
		return nil
	})
	if errors.Is(err, errNoEpisodesYet) {
		return nil, nil
	}
	return episodes, err
}

func (w *Wizard) episodeStep(episodes []arr.Episode) *step {
	choices := make([]Choice, len(episodes))
	for i, e := range episodes {
		desc := "Air Date: " + formatAirDate(e.AirDate)
		if e.Title != "" {
			desc = e.Title + " · " + desc
		}
		choices[i] = Choice{Label: fmt.Sprintf("Episode %d", e.EpisodeNumber), Description: desc}
	}
	return &step{
		state:   StateSelectEpisode,
		prompt:  "Please select an episode",
		choices: choices,
		next: func(_ context.Context, s *Session, i int) (View, error) {
			e := episodes[i]
			s.Target.EpisodeID = e.ID
			s.Target.EpisodeNumber = e.EpisodeNumber
			s.Target.EpisodeTitle = e.Title
			s.Target.EpisodeAirDate = e.AirDate
			s.Target.EpisodeFileID = e.EpisodeFileID
			s.Target.Overview = e.Overview
			return w.confirm(s), nil
		},
	}
}

func (w *Wizard) confirm(s *Session) View {
	s.step = nil
	s.State = StateConfirm
	return confirmView(ConfirmText(s.Target))
}

// ConfirmText summarizes a resolved target for the confirmation prompt.
func ConfirmText(t regrab.Target) string {
	var b strings.Builder
	if t.Kind == arr.KindMovie {
		b.WriteString("Please confirm that you would like to regrab the following movie:\n")
		fmt.Fprintf(&b, "**Title:** %s\n", t.Title)
		fmt.Fprintf(&b, "**Year:** %d\n", t.Year)
		fmt.Fprintf(&b, "**Overview:** %s\n", t.Overview)
		return b.String()
	}
	b.WriteString("Please confirm that you would like to regrab the following episode:\n")
	fmt.Fprintf(&b, "**Series:** %s\n", t.SeriesTitle)
	fmt.Fprintf(&b, "**Season:** Season %d\n", t.SeasonNumber)
	fmt.Fprintf(&b, "**Episode:** Episode %d\n", t.EpisodeNumber)
	fmt.Fprintf(&b, "**Title:** %s\n", t.EpisodeTitle)
	fmt.Fprintf(&b, "**Air Date:** %s\n", t.EpisodeAirDate)
	fmt.Fprintf(&b, "**Overview:** %s\n", t.Overview)
	if t.EpisodeFileID == 0 {
		b.WriteString("_No file is on disk for this episode; only a new search will be requested._\n")
	}
	return b.String()
}

func resultChoices(results []arr.SearchResult) []Choice {
	choices := make([]Choice, len(results))
	for i, r := range results {
		c := Choice{Label: r.Title}
		if r.Year > 0 {
			c.Description = fmt.Sprintf("%d", r.Year)
		}
		if r.Tracked() {
			if c.Description != "" {
				c.Description += " · "
			}
			c.Description += "in library"
		}
		choices[i] = c
	}
	return choices
}

func rankResults(query string, results []arr.SearchResult) []arr.SearchResult {
	candidates := make([]titlematch.Candidate, len(results))
	for i, r := range results {
		candidates[i] = titlematch.Candidate{Title: r.Title, Year: r.Year}
	}
	ranked := make([]arr.SearchResult, 0, len(results))
	for _, m := range titlematch.Rank(query, candidates) {
		ranked = append(ranked, results[m.Index])
	}
	return ranked
}

// selectableSeasons drops season 0 (specials), keeping backend order.
func selectableSeasons(seasons []arr.Season) []arr.Season {
	out := make([]arr.Season, 0, len(seasons))
	for _, s := range seasons {
		if s.Number != 0 {
			out = append(out, s)
		}
	}
	return out
}

// airedEpisodes keeps episodes whose air date parses and is on or before today.
func airedEpisodes(episodes []arr.Episode, now time.Time) []arr.Episode {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	out := make([]arr.Episode, 0, len(episodes))
	for _, e := range episodes {
		aired, err := time.ParseInLocation(airDateLayout, e.AirDate, now.Location())
		if err != nil {
			continue
		}
		if !aired.After(today) {
			out = append(out, e)
		}
	}
	return out
}

func formatAirDate(s string) string {
	t, err := time.Parse(airDateLayout, s)
	if err != nil {
		return s
	}
	return t.Format("Jan 02 2006")
}

func notFoundText(kind arr.Kind, query string) string {
	if kind == arr.KindSeries {
		return fmt.Sprintf("No TV series matching the title: %s", query)
	}
	return fmt.Sprintf("No movie matching the following title was found: %s", query)
}

func kindNoun(kind arr.Kind) string {
	if kind == arr.KindSeries {
		return "episodes"
	}
	return "movies"
}
