package regrab_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/regrabarr/internal/arr"
	"github.com/vmunix/regrabarr/internal/arr/mocks"
	"github.com/vmunix/regrabarr/internal/regrab"
)

// testLogger returns a discard logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func movieTarget() regrab.Target {
	return regrab.Target{Kind: arr.KindMovie, CatalogID: 12, ExternalID: 603, Title: "The Matrix", Year: 1999}
}

func episodeTarget(fileID int) regrab.Target {
	return regrab.Target{
		Kind:          arr.KindSeries,
		SeriesID:      9,
		SeriesTitle:   "Dark",
		SeasonNumber:  1,
		EpisodeID:     101,
		EpisodeNumber: 2,
		EpisodeTitle:  "Lies",
		EpisodeFileID: fileID,
	}
}

func newOrchestrator(movies arr.MovieCatalog, series arr.SeriesCatalog) *regrab.Orchestrator {
	return regrab.New(movies, series,
		regrab.WithLogger(testLogger()),
		regrab.WithResolveRetry(3, time.Millisecond))
}

func TestExecute_MovieDeleteThenAdd(t *testing.T) {
	ctrl := gomock.NewController(t)
	movies := mocks.NewMockMovieCatalog(ctrl)

	gomock.InOrder(
		movies.EXPECT().Existing(gomock.Any(), 603).Return(arr.SearchResult{CatalogID: 12, ExternalID: 603}, nil),
		movies.EXPECT().Delete(gomock.Any(), 12, true).Return(nil),
		movies.EXPECT().Capabilities().Return(arr.Capabilities{AddWithSearch: true}),
		movies.EXPECT().Add(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req arr.AddRequest) (int, error) {
				assert.Equal(t, 603, req.ExternalID)
				assert.Equal(t, "The Matrix", req.Title)
				assert.Equal(t, 1999, req.Year)
				assert.True(t, req.SearchOnAdd)
				return 44, nil
			}),
	)

	out := newOrchestrator(movies, nil).Execute(context.Background(), movieTarget())

	require.True(t, out.OK(), out.Message())
	assert.Equal(t, regrab.StatusSuccess, out.Status)
	assert.Contains(t, out.Message(), "The Matrix (1999)")
}

func TestExecute_MovieDeleteFailsSkipsAdd(t *testing.T) {
	ctrl := gomock.NewController(t)
	movies := mocks.NewMockMovieCatalog(ctrl)

	movies.EXPECT().Existing(gomock.Any(), 603).Return(arr.SearchResult{CatalogID: 12}, nil)
	movies.EXPECT().Delete(gomock.Any(), 12, true).Return(&arr.StatusError{Op: "delete movie", StatusCode: 500, Status: "500 Internal Server Error"})
	movies.EXPECT().Add(gomock.Any(), gomock.Any()).Times(0)

	out := newOrchestrator(movies, nil).Execute(context.Background(), movieTarget())

	assert.Equal(t, regrab.StatusPartialFailure, out.Status)
	require.NotNil(t, out.Failure)
	assert.Equal(t, regrab.StageDelete, out.Failure.Stage)
	assert.Empty(t, out.Failure.Completed)
	assert.NotContains(t, out.Message(), "500", "transport details stay out of user text")
}

func TestExecute_MovieAddFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	movies := mocks.NewMockMovieCatalog(ctrl)

	movies.EXPECT().Existing(gomock.Any(), 603).Return(arr.SearchResult{CatalogID: 12}, nil)
	movies.EXPECT().Delete(gomock.Any(), 12, true).Return(nil)
	movies.EXPECT().Capabilities().Return(arr.Capabilities{AddWithSearch: true})
	movies.EXPECT().Add(gomock.Any(), gomock.Any()).Return(0, &arr.StatusError{StatusCode: 400})

	out := newOrchestrator(movies, nil).Execute(context.Background(), movieTarget())

	require.NotNil(t, out.Failure)
	assert.Equal(t, regrab.StageAdd, out.Failure.Stage)
	assert.Equal(t, []regrab.Stage{regrab.StageDelete}, out.Failure.Completed)
	assert.False(t, out.Failure.Uncertain)
}

func TestExecute_MovieNotTrackedSkipsDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	movies := mocks.NewMockMovieCatalog(ctrl)

	movies.EXPECT().Existing(gomock.Any(), 603).Return(arr.SearchResult{}, fmt.Errorf("get movie: %w", arr.ErrNotFound))
	movies.EXPECT().Delete(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	movies.EXPECT().Capabilities().Return(arr.Capabilities{AddWithSearch: true})
	movies.EXPECT().Add(gomock.Any(), gomock.Any()).Return(50, nil)

	out := newOrchestrator(movies, nil).Execute(context.Background(), movieTarget())
	assert.True(t, out.OK())
}

func TestExecute_MovieResolveRetriesTransient(t *testing.T) {
	ctrl := gomock.NewController(t)
	movies := mocks.NewMockMovieCatalog(ctrl)

	gomock.InOrder(
		movies.EXPECT().Existing(gomock.Any(), 603).Return(arr.SearchResult{}, fmt.Errorf("get movie: %w: timeout", arr.ErrUnavailable)),
		movies.EXPECT().Existing(gomock.Any(), 603).Return(arr.SearchResult{CatalogID: 12}, nil),
	)
	movies.EXPECT().Delete(gomock.Any(), 12, true).Return(nil)
	movies.EXPECT().Capabilities().Return(arr.Capabilities{AddWithSearch: true})
	movies.EXPECT().Add(gomock.Any(), gomock.Any()).Return(44, nil)

	out := newOrchestrator(movies, nil).Execute(context.Background(), movieTarget())
	assert.True(t, out.OK())
}

func TestExecute_MovieResolveGivesUp(t *testing.T) {
	ctrl := gomock.NewController(t)
	movies := mocks.NewMockMovieCatalog(ctrl)

	movies.EXPECT().Existing(gomock.Any(), 603).Return(arr.SearchResult{}, arr.ErrUnavailable).Times(3)
	movies.EXPECT().Delete(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	out := newOrchestrator(movies, nil).Execute(context.Background(), movieTarget())
	require.NotNil(t, out.Failure)
	assert.Equal(t, regrab.StageResolve, out.Failure.Stage)
	assert.ErrorIs(t, out.Failure, arr.ErrUnavailable)
}

func TestExecute_MovieWithoutAddSearchTriggersCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	movies := mocks.NewMockMovieCatalog(ctrl)

	movies.EXPECT().Existing(gomock.Any(), 603).Return(arr.SearchResult{CatalogID: 12}, nil)
	movies.EXPECT().Delete(gomock.Any(), 12, true).Return(nil)
	movies.EXPECT().Capabilities().Return(arr.Capabilities{AddWithSearch: false})
	movies.EXPECT().Add(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req arr.AddRequest) (int, error) {
		assert.False(t, req.SearchOnAdd)
		return 44, nil
	})
	movies.EXPECT().TriggerSearch(gomock.Any(), arr.CommandMoviesSearch, 44).Return(errors.New("queue full"))

	out := newOrchestrator(movies, nil).Execute(context.Background(), movieTarget())
	require.NotNil(t, out.Failure)
	assert.Equal(t, regrab.StageSearchTrigger, out.Failure.Stage)
	assert.Equal(t, []regrab.Stage{regrab.StageDelete, regrab.StageAdd}, out.Failure.Completed)
}

func TestExecute_MovieAddTimeoutConfirmed(t *testing.T) {
	ctrl := gomock.NewController(t)
	movies := mocks.NewMockMovieCatalog(ctrl)

	gomock.InOrder(
		movies.EXPECT().Existing(gomock.Any(), 603).Return(arr.SearchResult{CatalogID: 12}, nil),
		movies.EXPECT().Delete(gomock.Any(), 12, true).Return(nil),
		movies.EXPECT().Capabilities().Return(arr.Capabilities{AddWithSearch: true}),
		movies.EXPECT().Add(gomock.Any(), gomock.Any()).Return(0, fmt.Errorf("add movie: %w: timeout", arr.ErrUnavailable)),
		movies.EXPECT().Existing(gomock.Any(), 603).Return(arr.SearchResult{CatalogID: 45}, nil),
	)

	out := newOrchestrator(movies, nil).Execute(context.Background(), movieTarget())
	assert.True(t, out.OK())
}

func TestExecute_MovieAddTimeoutNotApplied(t *testing.T) {
	ctrl := gomock.NewController(t)
	movies := mocks.NewMockMovieCatalog(ctrl)

	gomock.InOrder(
		movies.EXPECT().Existing(gomock.Any(), 603).Return(arr.SearchResult{CatalogID: 12}, nil),
		movies.EXPECT().Delete(gomock.Any(), 12, true).Return(nil),
		movies.EXPECT().Capabilities().Return(arr.Capabilities{AddWithSearch: true}),
		movies.EXPECT().Add(gomock.Any(), gomock.Any()).Return(0, arr.ErrUnavailable),
		movies.EXPECT().Existing(gomock.Any(), 603).Return(arr.SearchResult{}, arr.ErrNotFound),
	)

	out := newOrchestrator(movies, nil).Execute(context.Background(), movieTarget())
	require.NotNil(t, out.Failure)
	assert.Equal(t, regrab.StageAdd, out.Failure.Stage)
	assert.False(t, out.Failure.Uncertain)
}

func TestExecute_MovieAddTimeoutUndetermined(t *testing.T) {
	ctrl := gomock.NewController(t)
	movies := mocks.NewMockMovieCatalog(ctrl)

	gomock.InOrder(
		movies.EXPECT().Existing(gomock.Any(), 603).Return(arr.SearchResult{CatalogID: 12}, nil),
		movies.EXPECT().Delete(gomock.Any(), 12, true).Return(nil),
		movies.EXPECT().Capabilities().Return(arr.Capabilities{AddWithSearch: true}),
		movies.EXPECT().Add(gomock.Any(), gomock.Any()).Return(0, arr.ErrUnavailable),
		movies.EXPECT().Existing(gomock.Any(), 603).Return(arr.SearchResult{}, arr.ErrUnavailable),
	)

	out := newOrchestrator(movies, nil).Execute(context.Background(), movieTarget())
	require.NotNil(t, out.Failure)
	assert.Equal(t, regrab.StageAdd, out.Failure.Stage)
	assert.True(t, out.Failure.Uncertain)
	assert.Contains(t, out.Message(), "unclear")
}

func TestExecute_MovieIdempotentCallShape(t *testing.T) {
	ctrl := gomock.NewController(t)
	movies := mocks.NewMockMovieCatalog(ctrl)

	// The second run sees the catalog id assigned by the first add.
	gomock.InOrder(
		movies.EXPECT().Existing(gomock.Any(), 603).Return(arr.SearchResult{CatalogID: 12}, nil),
		movies.EXPECT().Delete(gomock.Any(), 12, true).Return(nil),
		movies.EXPECT().Capabilities().Return(arr.Capabilities{AddWithSearch: true}),
		movies.EXPECT().Add(gomock.Any(), gomock.Any()).Return(44, nil),
		movies.EXPECT().Existing(gomock.Any(), 603).Return(arr.SearchResult{CatalogID: 44}, nil),
		movies.EXPECT().Delete(gomock.Any(), 44, true).Return(nil),
		movies.EXPECT().Capabilities().Return(arr.Capabilities{AddWithSearch: true}),
		movies.EXPECT().Add(gomock.Any(), gomock.Any()).Return(45, nil),
	)

	o := newOrchestrator(movies, nil)
	target := movieTarget()
	assert.True(t, o.Execute(context.Background(), target).OK())
	assert.True(t, o.Execute(context.Background(), target).OK())
}

func TestExecute_EpisodeWithoutFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	series := mocks.NewMockSeriesCatalog(ctrl)

	series.EXPECT().DeleteEpisodeFile(gomock.Any(), gomock.Any()).Times(0)
	series.EXPECT().TriggerSearch(gomock.Any(), arr.CommandEpisodeSearch, 101).Return(nil).Times(1)

	out := newOrchestrator(nil, series).Execute(context.Background(), episodeTarget(0))
	assert.True(t, out.OK())
	assert.Contains(t, out.Message(), "Dark S01E02")
}

func TestExecute_EpisodeDeletesFileFirst(t *testing.T) {
	ctrl := gomock.NewController(t)
	series := mocks.NewMockSeriesCatalog(ctrl)

	gomock.InOrder(
		series.EXPECT().DeleteEpisodeFile(gomock.Any(), 7).Return(nil).Times(1),
		series.EXPECT().TriggerSearch(gomock.Any(), arr.CommandEpisodeSearch, 101).Return(nil).Times(1),
	)

	out := newOrchestrator(nil, series).Execute(context.Background(), episodeTarget(7))
	assert.True(t, out.OK())
}

func TestExecute_EpisodeFileDeleteFailsSkipsSearch(t *testing.T) {
	ctrl := gomock.NewController(t)
	series := mocks.NewMockSeriesCatalog(ctrl)

	series.EXPECT().DeleteEpisodeFile(gomock.Any(), 7).Return(arr.ErrUnavailable)
	series.EXPECT().TriggerSearch(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	out := newOrchestrator(nil, series).Execute(context.Background(), episodeTarget(7))
	require.NotNil(t, out.Failure)
	assert.Equal(t, regrab.StageFileDelete, out.Failure.Stage)
}

func TestExecute_EpisodeSearchFailsAfterDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	series := mocks.NewMockSeriesCatalog(ctrl)

	series.EXPECT().DeleteEpisodeFile(gomock.Any(), 7).Return(nil)
	series.EXPECT().TriggerSearch(gomock.Any(), arr.CommandEpisodeSearch, 101).Return(arr.ErrUnauthorized)

	out := newOrchestrator(nil, series).Execute(context.Background(), episodeTarget(7))
	require.NotNil(t, out.Failure)
	assert.Equal(t, regrab.StageSearchTrigger, out.Failure.Stage)
	assert.Equal(t, []regrab.Stage{regrab.StageFileDelete}, out.Failure.Completed)
	assert.Contains(t, out.Message(), "old file was deleted")
}

func TestExecute_IncompleteTarget(t *testing.T) {
	ctrl := gomock.NewController(t)
	series := mocks.NewMockSeriesCatalog(ctrl)

	out := newOrchestrator(nil, series).Execute(context.Background(), regrab.Target{Kind: arr.KindSeries, SeriesID: 9})
	require.NotNil(t, out.Failure)
	assert.ErrorIs(t, out.Failure, regrab.ErrIncompleteTarget)
}

func TestExecute_BackendNotConfigured(t *testing.T) {
	out := newOrchestrator(nil, nil).Execute(context.Background(), movieTarget())
	require.NotNil(t, out.Failure)
	assert.Equal(t, regrab.StageResolve, out.Failure.Stage)
}

func TestExecute_UntrackedMovieAddFailsReportsNothingDeleted(t *testing.T) {
	ctrl := gomock.NewController(t)
	movies := mocks.NewMockMovieCatalog(ctrl)

	movies.EXPECT().Existing(gomock.Any(), 603).Return(arr.SearchResult{}, arr.ErrNotFound)
	movies.EXPECT().Delete(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	movies.EXPECT().Capabilities().Return(arr.Capabilities{AddWithSearch: true})
	movies.EXPECT().Add(gomock.Any(), gomock.Any()).Return(0, &arr.StatusError{StatusCode: 400})

	out := newOrchestrator(movies, nil).Execute(context.Background(), movieTarget())

	require.NotNil(t, out.Failure)
	assert.Equal(t, regrab.StageAdd, out.Failure.Stage)
	assert.Empty(t, out.Failure.Completed)
	assert.Contains(t, out.Message(), "nothing was deleted")
	assert.NotContains(t, out.Message(), "files were deleted")
}

func TestExecute_UntrackedMovieSearchFailsReportsReAdd(t *testing.T) {
	ctrl := gomock.NewController(t)
	movies := mocks.NewMockMovieCatalog(ctrl)

	movies.EXPECT().Existing(gomock.Any(), 603).Return(arr.SearchResult{}, arr.ErrNotFound)
	movies.EXPECT().Capabilities().Return(arr.Capabilities{AddWithSearch: false})
	movies.EXPECT().Add(gomock.Any(), gomock.Any()).Return(44, nil)
	movies.EXPECT().TriggerSearch(gomock.Any(), arr.CommandMoviesSearch, 44).Return(arr.ErrUnavailable)

	out := newOrchestrator(movies, nil).Execute(context.Background(), movieTarget())

	require.NotNil(t, out.Failure)
	assert.Equal(t, regrab.StageSearchTrigger, out.Failure.Stage)
	assert.Equal(t, []regrab.Stage{regrab.StageAdd}, out.Failure.Completed)
	assert.Contains(t, out.Message(), "Nothing was deleted")
	assert.NotContains(t, out.Message(), "old file was deleted")
}

func TestExecute_EpisodeSearchFailsWithoutFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	series := mocks.NewMockSeriesCatalog(ctrl)

	series.EXPECT().TriggerSearch(gomock.Any(), arr.CommandEpisodeSearch, 101).Return(arr.ErrUnavailable)

	out := newOrchestrator(nil, series).Execute(context.Background(), episodeTarget(0))
	require.NotNil(t, out.Failure)
	assert.Contains(t, out.Message(), "No file was deleted")
}

func TestExecute_MovieAddWithoutIDLooksUpForSearch(t *testing.T) {
	ctrl := gomock.NewController(t)
	movies := mocks.NewMockMovieCatalog(ctrl)

	gomock.InOrder(
		movies.EXPECT().Existing(gomock.Any(), 603).Return(arr.SearchResult{CatalogID: 12}, nil),
		movies.EXPECT().Delete(gomock.Any(), 12, true).Return(nil),
		movies.EXPECT().Capabilities().Return(arr.Capabilities{AddWithSearch: false}),
		movies.EXPECT().Add(gomock.Any(), gomock.Any()).Return(0, nil),
		movies.EXPECT().Existing(gomock.Any(), 603).Return(arr.SearchResult{CatalogID: 45}, nil),
		movies.EXPECT().TriggerSearch(gomock.Any(), arr.CommandMoviesSearch, 45).Return(nil),
	)

	out := newOrchestrator(movies, nil).Execute(context.Background(), movieTarget())
	assert.True(t, out.OK(), out.Message())
}

func TestExecute_MovieAddWithoutIDSucceedsWhenAddSearches(t *testing.T) {
	ctrl := gomock.NewController(t)
	movies := mocks.NewMockMovieCatalog(ctrl)

	movies.EXPECT().Existing(gomock.Any(), 603).Return(arr.SearchResult{CatalogID: 12}, nil).Times(1)
	movies.EXPECT().Delete(gomock.Any(), 12, true).Return(nil)
	movies.EXPECT().Capabilities().Return(arr.Capabilities{AddWithSearch: true})
	movies.EXPECT().Add(gomock.Any(), gomock.Any()).Return(0, nil)
	movies.EXPECT().TriggerSearch(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	out := newOrchestrator(movies, nil).Execute(context.Background(), movieTarget())
	assert.True(t, out.OK(), out.Message())
}
