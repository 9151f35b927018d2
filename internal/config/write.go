package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed default_config.toml
var defaultConfig string

// WriteDefault writes the commented example config to path, creating parent
// directories. API keys in it are ${VAR} references, so it is world-readable.
func WriteDefault(path string) error {
	return writeAtomic(path, []byte(defaultConfig), 0644)
}

// Write serializes the config to TOML at path. The file holds resolved API
// keys and is written owner-only.
func (c *Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), ".config-*.toml")
	if err != nil {
		return err
	}
	return commit(f, path, 0600, func() error {
		return toml.NewEncoder(f).Encode(c)
	})
}

// writeAtomic replaces path in one rename so a running config watcher never
// reloads a half-written file.
func writeAtomic(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), ".config-*.toml")
	if err != nil {
		return err
	}
	return commit(f, path, perm, func() error {
		_, err := f.Write(data)
		return err
	})
}

func commit(f *os.File, path string, perm os.FileMode, write func() error) error {
	tmp := f.Name()
	if err := write(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, perm); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
