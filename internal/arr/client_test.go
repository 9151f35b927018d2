package arr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-key"

// mockArr creates a test server keyed by "METHOD /path". It rejects requests without the API key.
func mockArr(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != testAPIKey {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if handler, ok := handlers[r.Method+" "+r.URL.Path]; ok {
			handler(w, r)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// writeJSON is a test helper that writes JSON response and panics on error.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		panic("test: failed to encode JSON: " + err.Error())
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://radarr:7878", "http://radarr:7878"},
		{"http://radarr:7878/", "http://radarr:7878"},
		{"http://radarr:7878/api/v3", "http://radarr:7878"},
		{"http://radarr:7878/api/v3/", "http://radarr:7878"},
		{"http://host/radarr/api/v3", "http://host/radarr"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeBaseURL(tt.in))
		})
	}
}

func TestClient_Unauthorized(t *testing.T) {
	srv := mockArr(t, nil)
	c := NewMovieClient(srv.URL, "wrong-key", WithLogger(testLogger()))

	_, err := c.Search(context.Background(), "alien")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "movie lookup")
}

func TestClient_StatusError(t *testing.T) {
	srv := mockArr(t, map[string]http.HandlerFunc{
		"GET /api/v3/movie/lookup": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "database is locked", http.StatusInternalServerError)
		},
	})
	c := NewMovieClient(srv.URL, testAPIKey, WithLogger(testLogger()))

	_, err := c.Search(context.Background(), "alien")
	require.Error(t, err)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Equal(t, "database is locked", se.Body)
	assert.True(t, IsTransient(err))
}

func TestClient_MalformedBody(t *testing.T) {
	srv := mockArr(t, map[string]http.HandlerFunc{
		"GET /api/v3/series/lookup": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"not":"an array"`))
		},
	})
	c := NewSeriesClient(srv.URL, testAPIKey, WithLogger(testLogger()))

	_, err := c.Search(context.Background(), "dark")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.False(t, IsTransient(err))
}

func TestClient_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewMovieClient(url, testAPIKey, WithLogger(testLogger()))
	_, err := c.Existing(context.Background(), 603)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.True(t, IsTransient(err))
}

func TestClient_Timeout(t *testing.T) {
	srv := mockArr(t, map[string]http.HandlerFunc{
		"GET /api/v3/movie/lookup": func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(time.Second):
			case <-r.Context().Done():
			}
		},
	})
	c := NewMovieClient(srv.URL, testAPIKey, WithTimeout(20*time.Millisecond), WithLogger(testLogger()))

	_, err := c.Search(context.Background(), "slow")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_WithTimeoutDoesNotMutateSharedClient(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}
	_ = NewMovieClient("http://localhost", testAPIKey, WithHTTPClient(shared), WithTimeout(time.Second))
	assert.Equal(t, time.Minute, shared.Timeout)
}

func TestNewCommand(t *testing.T) {
	tests := []struct {
		name    CommandName
		ids     []int
		want    string
		wantErr bool
	}{
		{CommandMoviesSearch, []int{5}, `{"name":"MoviesSearch","movieIds":[5]}`, false},
		{CommandSeriesSearch, []int{9}, `{"name":"SeriesSearch","seriesId":9}`, false},
		{CommandEpisodeSearch, []int{1, 2}, `{"name":"EpisodeSearch","episodeIds":[1,2]}`, false},
		{CommandSeriesSearch, []int{1, 2}, "", true},
		{CommandEpisodeSearch, nil, "", true},
		{CommandName("RssSync"), []int{1}, "", true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%v", tt.name, tt.ids), func(t *testing.T) {
			cmd, err := newCommand(tt.name, tt.ids)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			data, err := json.Marshal(cmd)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(ErrNotFound))
	assert.False(t, IsTransient(&StatusError{StatusCode: 400}))
	assert.True(t, IsTransient(&StatusError{StatusCode: 503}))
	assert.True(t, IsTransient(fmt.Errorf("op: %w", ErrUnavailable)))
	assert.False(t, IsTransient(errors.New("other")))
}
