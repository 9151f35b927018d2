package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// legacyConfig is the YAML layout used by chat-bot deployments.
type legacyConfig struct {
	Bot struct {
		Token string `yaml:"token"`
	} `yaml:"bot"`
	Radarr struct {
		URL    string `yaml:"url"`
		APIKey string `yaml:"api_key"`
	} `yaml:"radarr"`
	Sonarr struct {
		URL    string `yaml:"url"`
		APIKey string `yaml:"api_key"`
	} `yaml:"sonarr"`
}

// LoadLegacyYAML imports backend URLs and keys from an old config.yml. The bot
// token is ignored; everything else gets defaults.
func LoadLegacyYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading legacy config: %w", err)
	}

	var legacy legacyConfig
	if err := yaml.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("parsing legacy config: %w", err)
	}

	cfg := &Config{}
	cfg.Radarr.URL = legacy.Radarr.URL
	cfg.Radarr.APIKey = legacy.Radarr.APIKey
	cfg.Sonarr.URL = legacy.Sonarr.URL
	cfg.Sonarr.APIKey = legacy.Sonarr.APIKey
	cfg.Log.File = "regrabarr.log"
	cfg.applyDefaults()

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}
	return cfg, nil
}
