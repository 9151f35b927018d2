package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDefaultPath(t *testing.T) {
	t.Run("home fallback", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		assert.Contains(t, DefaultPath(), filepath.Join(".config", "regrabarr", "config.toml"))
	})
	t.Run("xdg", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		assert.Equal(t, "/custom/config/regrabarr/config.toml", DefaultPath())
	})
}

func TestDiscover_EnvOverride(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "regrab.toml")
	writeFile(t, cfgPath, "[radarr]\n")
	t.Setenv(EnvConfigPath, cfgPath)

	path, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, cfgPath, path)
}

func TestDiscover_EnvOverrideMissing(t *testing.T) {
	t.Setenv(EnvConfigPath, "/nonexistent/regrab.toml")

	_, err := Discover()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), EnvConfigPath)
}

func TestDiscover_SearchOrder(t *testing.T) {
	xdg := t.TempDir()
	work := t.TempDir()
	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Chdir(work)

	writeFile(t, filepath.Join(xdg, "regrabarr", "config.toml"), "")
	path, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(xdg, "regrabarr", "config.toml"), path)

	// The working directory beats XDG.
	writeFile(t, filepath.Join(work, "config.toml"), "")
	path, err = Discover()
	require.NoError(t, err)
	assert.Equal(t, "./config.toml", path)
}

func TestDiscover_NotFound(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", "/nonexistent/xdg")
	t.Chdir(t.TempDir())

	_, err := Discover()
	require.ErrorIs(t, err, ErrNotFound)
	assert.NotContains(t, err.Error(), "import-legacy")
}

func TestDiscover_SuggestsLegacyImport(t *testing.T) {
	work := t.TempDir()
	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", "/nonexistent/xdg")
	t.Chdir(work)
	writeFile(t, filepath.Join(work, "config.yml"), "radarr:\n  url: http://radarr:7878\n")

	_, err := Discover()
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "regrab config import-legacy config.yml")
}
