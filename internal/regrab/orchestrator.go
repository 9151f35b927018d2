// Package regrab deletes an acquired film or episode and requests a fresh acquisition.
package regrab

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/vmunix/regrabarr/internal/arr"
)

// Default lookup retry policy. Only reads are retried.
const (
	DefaultResolveAttempts = 3
	DefaultResolveInterval = 2 * time.Second
)

// Orchestrator runs the delete-then-reacquire sequence against the backends.
// Mutating calls are attempted exactly once; the first failure stops the sequence.
type Orchestrator struct {
	movies          arr.MovieCatalog
	series          arr.SeriesCatalog
	resolveAttempts uint64
	resolveInterval time.Duration
	log             *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.log = log
	}
}

// WithResolveRetry sets how often a catalog lookup is retried on transient errors.
func WithResolveRetry(attempts int, interval time.Duration) Option {
	return func(o *Orchestrator) {
		if attempts > 0 {
			o.resolveAttempts = uint64(attempts)
		}
		if interval > 0 {
			o.resolveInterval = interval
		}
	}
}

// New creates an orchestrator. Either catalog may be nil if that backend is not configured.
func New(movies arr.MovieCatalog, series arr.SeriesCatalog, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		movies:          movies,
		series:          series,
		resolveAttempts: DefaultResolveAttempts,
		resolveInterval: DefaultResolveInterval,
		log:             slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.log = o.log.With("component", "regrab")
	return o
}

// Execute runs the regrab for t and classifies the result.
func (o *Orchestrator) Execute(ctx context.Context, t Target) Outcome {
	if err := t.Validate(); err != nil {
		o.log.Error("refusing to regrab incomplete target", "target", t.String(), "error", err)
		return Failed(StageResolve, err)
	}

	var out Outcome
	switch t.Kind {
	case arr.KindMovie:
		if o.movies == nil {
			return Failed(StageResolve, errors.New("film backend not configured"))
		}
		out = o.regrabMovie(ctx, t)
	case arr.KindSeries:
		if o.series == nil {
			return Failed(StageResolve, errors.New("series backend not configured"))
		}
		out = o.regrabEpisode(ctx, t)
	}

	if out.OK() {
		o.log.Info("regrab completed", "kind", t.Kind, "target", t.String())
	} else {
		o.log.Error("regrab failed",
			"kind", t.Kind,
			"target", t.String(),
			"stage", out.Failure.Stage,
			"completed", out.Failure.Completed,
			"uncertain", out.Failure.Uncertain,
			"error", out.Failure.Err)
	}
	return out
}

func (o *Orchestrator) regrabMovie(ctx context.Context, t Target) Outcome {
	fail := func(stage Stage, err error, done ...Stage) Outcome {
		out := Failed(stage, err, done...)
		out.Summary = fmt.Sprintf("Regrab of %s failed.", t)
		return out
	}

	current, err := o.resolveMovie(ctx, t.ExternalID)
	tracked := err == nil
	switch {
	case errors.Is(err, arr.ErrNotFound):
		o.log.Warn("film no longer tracked, skipping delete", "tmdb_id", t.ExternalID)
	case err != nil:
		return fail(StageResolve, err)
	}

	var done []Stage
	if tracked {
		if err := o.movies.Delete(ctx, current.CatalogID, true); err != nil {
			return fail(StageDelete, err)
		}
		done = append(done, StageDelete)
		o.log.Info("deleted film", "catalog_id", current.CatalogID, "tmdb_id", t.ExternalID)
	}

	caps := o.movies.Capabilities()
	req := arr.AddRequest{
		ExternalID:  t.ExternalID,
		Title:       t.Title,
		Year:        t.Year,
		TitleSlug:   t.TitleSlug,
		Images:      t.Images,
		SearchOnAdd: caps.AddWithSearch,
	}
	id, err := o.movies.Add(ctx, req)
	if err != nil {
		if !errors.Is(err, arr.ErrUnavailable) {
			return fail(StageAdd, err, done...)
		}
		// The add may have landed even though we never saw the response.
		found, qerr := o.movies.Existing(ctx, t.ExternalID)
		switch {
		case qerr == nil:
			o.log.Warn("add timed out but film is tracked", "tmdb_id", t.ExternalID, "catalog_id", found.CatalogID)
			id = found.CatalogID
		case errors.Is(qerr, arr.ErrNotFound):
			return fail(StageAdd, err, done...)
		default:
			out := fail(StageAdd, errors.Join(err, qerr), done...)
			out.Failure.Uncertain = true
			return out
		}
	}
	done = append(done, StageAdd)

	if !caps.AddWithSearch {
		if id == 0 {
			// The add was accepted without an id; the search command needs one.
			found, err := o.movies.Existing(ctx, t.ExternalID)
			if err != nil {
				return fail(StageSearchTrigger, err, done...)
			}
			id = found.CatalogID
		}
		if err := o.movies.TriggerSearch(ctx, arr.CommandMoviesSearch, id); err != nil {
			return fail(StageSearchTrigger, err, done...)
		}
	}

	summary := fmt.Sprintf("Your request to delete and redownload %s is being processed.", t)
	if !tracked {
		summary = fmt.Sprintf("%s was not in the catalog any more. It has been added back and a search has started.", t)
	}
	return Succeeded(summary)
}

// resolveMovie looks up the current catalog entry, retrying transient failures.
func (o *Orchestrator) resolveMovie(ctx context.Context, tmdbID int) (arr.SearchResult, error) {
	var found arr.SearchResult
	b := retry.WithMaxRetries(o.resolveAttempts-1, retry.NewConstant(o.resolveInterval))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		r, err := o.movies.Existing(ctx, tmdbID)
		if err != nil {
			if arr.IsTransient(err) {
				o.log.Debug("film lookup failed, retrying", "tmdb_id", tmdbID, "error", err)
				return retry.RetryableError(err)
			}
			return err
		}
		found = r
		return nil
	})
	return found, err
}

func (o *Orchestrator) regrabEpisode(ctx context.Context, t Target) Outcome {
	fail := func(stage Stage, err error, done ...Stage) Outcome {
		out := Failed(stage, err, done...)
		out.Summary = fmt.Sprintf("Regrab of %s failed.", t)
		return out
	}

	var done []Stage
	if t.EpisodeFileID != 0 {
		if err := o.series.DeleteEpisodeFile(ctx, t.EpisodeFileID); err != nil {
			return fail(StageFileDelete, err)
		}
		done = append(done, StageFileDelete)
		o.log.Info("deleted episode file", "episode_id", t.EpisodeID, "episode_file_id", t.EpisodeFileID)
	}

	if err := o.series.TriggerSearch(ctx, arr.CommandEpisodeSearch, t.EpisodeID); err != nil {
		return fail(StageSearchTrigger, err, done...)
	}

	return Succeeded(fmt.Sprintf("Your request to regrab %s is being processed.", t))
}
