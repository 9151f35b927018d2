package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvConfigPath names the environment variable that overrides discovery.
const EnvConfigPath = "REGRABARR_CONFIG"

// legacyFile is the YAML file the chat bot read from its working directory.
const legacyFile = "config.yml"

// ErrNotFound is returned by Discover when no config file exists.
var ErrNotFound = errors.New("config not found")

// DefaultPath returns the XDG-compliant default config path.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./config.toml"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "regrabarr", "config.toml")
}

// SearchPaths lists the locations Discover checks, in order, when
// REGRABARR_CONFIG is unset.
func SearchPaths() []string {
	return []string{
		"./config.toml",
		DefaultPath(),
		"/etc/regrabarr/config.toml",
	}
}

// Discover finds the config file. REGRABARR_CONFIG wins when set and must
// point at an existing file; otherwise the first of SearchPaths that exists is
// used. When nothing is found but a bot-era config.yml sits in the working
// directory, the error says how to import it.
func Discover() (string, error) {
	if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvConfigPath, envPath, err)
		}
		return envPath, nil
	}

	paths := SearchPaths()
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	err := fmt.Errorf("%w, checked: %s", ErrNotFound, strings.Join(paths, ", "))
	if _, statErr := os.Stat(legacyFile); statErr == nil {
		err = fmt.Errorf("%w (found %s; convert it with 'regrab config import-legacy %s')", err, legacyFile, legacyFile)
	}
	return "", err
}
