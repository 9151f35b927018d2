package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const minimalRadarr = `
[radarr]
url = "http://radarr:7878"
api_key = "abc"
`

func TestLoad_Valid(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 8080
`+minimalRadarr)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://radarr:7878", cfg.Radarr.URL)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalRadarr))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8585, cfg.Server.Port)
	assert.Equal(t, 1, cfg.Radarr.QualityProfileID)
	assert.Equal(t, "/movies", cfg.Radarr.RootFolder)
	assert.Equal(t, "released", cfg.Radarr.MinimumAvailability)
	assert.True(t, *cfg.Radarr.AddWithSearch)
	assert.Equal(t, 15*time.Second, cfg.Radarr.Timeout.Duration)
	assert.Equal(t, "/tv", cfg.Sonarr.RootFolder)
	assert.Equal(t, 1, cfg.Sonarr.LanguageProfileID)
	assert.Equal(t, 3*time.Minute, cfg.Session.Timeout.Duration)
	assert.Equal(t, 5*time.Second, cfg.Session.EpisodePollInterval.Duration)
	assert.Equal(t, 60*time.Second, cfg.Session.EpisodePollMaxWait.Duration)
	assert.Equal(t, "regrab_movie", cfg.Commands.Movie)
	assert.Equal(t, "regrab_episode", cfg.Commands.Episode)
}

func TestLoad_ExplicitFalseKept(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[radarr]
url = "http://radarr:7878"
api_key = "abc"
add_with_search = false
timeout = "30s"
`))
	require.NoError(t, err)
	assert.False(t, *cfg.Radarr.AddWithSearch)
	assert.False(t, cfg.MovieDefaults().SearchOnAdd)
	assert.Equal(t, 30*time.Second, cfg.Radarr.Timeout.Duration)
}

func TestLoad_MissingEnvVar(t *testing.T) {
	path := writeConfig(t, `
[sonarr]
url = "http://sonarr:8989"
api_key = "${REGRABARR_TEST_MISSING_KEY}"
`)

	_, err := Load(path)
	require.Error(t, err)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, []string{"REGRABARR_TEST_MISSING_KEY"}, cfgErr.Missing)
}

func TestLoad_ValidationError(t *testing.T) {
	_, err := Load(writeConfig(t, `
[server]
port = 99999
`+minimalRadarr))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "server.port"))
}

func TestLoad_BadDuration(t *testing.T) {
	_, err := Load(writeConfig(t, minimalRadarr+`
[session]
timeout = "soon"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLoadWithoutValidation(t *testing.T) {
	cfg, err := LoadWithoutValidation(writeConfig(t, `
[server]
port = 99999
`))
	require.NoError(t, err)
	assert.Equal(t, 99999, cfg.Server.Port)
}

func TestLoad_EnvVarDefault(t *testing.T) {
	os.Unsetenv("REGRABARR_OPTIONAL_HOST")
	cfg, err := Load(writeConfig(t, `
[server]
host = "${REGRABARR_OPTIONAL_HOST:-localhost}"
`+minimalRadarr))
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Server.Host)
}

func TestConfig_KindForCommand(t *testing.T) {
	cfg := Default()

	kind, ok := cfg.KindForCommand("regrab_movie")
	assert.True(t, ok)
	assert.Equal(t, "movie", string(kind))

	kind, ok = cfg.KindForCommand("regrab_episode")
	assert.True(t, ok)
	assert.Equal(t, "series", string(kind))

	_, ok = cfg.KindForCommand("regrab_album")
	assert.False(t, ok)
}

func TestConfig_SeriesDefaults(t *testing.T) {
	cfg := Default()
	cfg.Sonarr.SearchMissingOnAdd = true

	d := cfg.SeriesDefaults()
	assert.Equal(t, 1, d.QualityProfileID)
	assert.Equal(t, 1, d.LanguageProfileID)
	assert.Equal(t, "/tv", d.RootFolderPath)
	assert.True(t, d.SeasonFolder)
	assert.True(t, d.SearchOnAdd)
}
