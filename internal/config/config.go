// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Log           LogConfig           `toml:"log"`
	Database      DatabaseConfig      `toml:"database"`
	Radarr        RadarrConfig        `toml:"radarr"`
	Sonarr        SonarrConfig        `toml:"sonarr"`
	Session       SessionConfig       `toml:"session"`
	Commands      CommandsConfig      `toml:"commands"`
	Notifications NotificationsConfig `toml:"notifications"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

// LogConfig controls the rotated log file. An empty File logs to stdout only.
type LogConfig struct {
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
	// EventRetention bounds how long the event log keeps entries.
	EventRetention Duration `toml:"event_retention"`
}

// RadarrConfig is the film backend. An empty URL disables movie regrabs.
type RadarrConfig struct {
	URL                 string   `toml:"url"`
	APIKey              string   `toml:"api_key"`
	QualityProfileID    int      `toml:"quality_profile_id"`
	RootFolder          string   `toml:"root_folder"`
	MinimumAvailability string   `toml:"minimum_availability"`
	AddWithSearch       *bool    `toml:"add_with_search"`
	Timeout             Duration `toml:"timeout"`
}

// SonarrConfig is the series backend. An empty URL disables episode regrabs.
type SonarrConfig struct {
	URL                string   `toml:"url"`
	APIKey             string   `toml:"api_key"`
	QualityProfileID   int      `toml:"quality_profile_id"`
	LanguageProfileID  int      `toml:"language_profile_id"`
	RootFolder         string   `toml:"root_folder"`
	SeasonFolder       *bool    `toml:"season_folder"`
	SearchMissingOnAdd bool     `toml:"search_missing_on_add"`
	Timeout            Duration `toml:"timeout"`
}

type SessionConfig struct {
	Timeout             Duration `toml:"timeout"`
	SweepInterval       Duration `toml:"sweep_interval"`
	Retention           Duration `toml:"retention"`
	EpisodePollInterval Duration `toml:"episode_poll_interval"`
	EpisodePollMaxWait  Duration `toml:"episode_poll_max_wait"`
	RankResults         bool     `toml:"rank_results"`
}

// CommandsConfig names the front-end commands that start a session.
type CommandsConfig struct {
	Movie   string `toml:"movie"`
	Episode string `toml:"episode"`
}

type NotificationsConfig struct {
	Discord DiscordConfig `toml:"discord"`
}

type DiscordConfig struct {
	Enabled    bool   `toml:"enabled"`
	WebhookURL string `toml:"webhook_url"`
	Username   string `toml:"username"`
}

// Duration is a time.Duration written as a string ("15s", "3m") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Load reads, parses and validates the configuration file.
func Load(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}

	cfgErr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file, applying
// defaults but skipping validation. Unresolved variables are left in place.
func LoadWithoutValidation(path string) (*Config, error) {
	cfg, _, err := load(path)
	return cfg, err
}

func load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, missing, nil
}

// Default returns a configuration with every default applied and no backends.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8585
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 10
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 3
	}
	if c.Log.MaxAgeDays == 0 {
		c.Log.MaxAgeDays = 28
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/regrabarr.db"
	}

	if c.Radarr.QualityProfileID == 0 {
		c.Radarr.QualityProfileID = 1
	}
	if c.Radarr.RootFolder == "" {
		c.Radarr.RootFolder = "/movies"
	}
	if c.Radarr.MinimumAvailability == "" {
		c.Radarr.MinimumAvailability = "released"
	}
	if c.Radarr.AddWithSearch == nil {
		c.Radarr.AddWithSearch = boolPtr(true)
	}
	if c.Radarr.Timeout.Duration == 0 {
		c.Radarr.Timeout.Duration = 15 * time.Second
	}

	if c.Sonarr.QualityProfileID == 0 {
		c.Sonarr.QualityProfileID = 1
	}
	if c.Sonarr.LanguageProfileID == 0 {
		c.Sonarr.LanguageProfileID = 1
	}
	if c.Sonarr.RootFolder == "" {
		c.Sonarr.RootFolder = "/tv"
	}
	if c.Sonarr.SeasonFolder == nil {
		c.Sonarr.SeasonFolder = boolPtr(true)
	}
	if c.Sonarr.Timeout.Duration == 0 {
		c.Sonarr.Timeout.Duration = 15 * time.Second
	}

	if c.Database.EventRetention.Duration == 0 {
		c.Database.EventRetention.Duration = 30 * 24 * time.Hour
	}

	if c.Session.Timeout.Duration == 0 {
		c.Session.Timeout.Duration = 3 * time.Minute
	}
	if c.Session.SweepInterval.Duration == 0 {
		c.Session.SweepInterval.Duration = 30 * time.Second
	}
	if c.Session.Retention.Duration == 0 {
		c.Session.Retention.Duration = 10 * time.Minute
	}
	if c.Session.EpisodePollInterval.Duration == 0 {
		c.Session.EpisodePollInterval.Duration = 5 * time.Second
	}
	if c.Session.EpisodePollMaxWait.Duration == 0 {
		c.Session.EpisodePollMaxWait.Duration = 60 * time.Second
	}

	if c.Commands.Movie == "" {
		c.Commands.Movie = "regrab_movie"
	}
	if c.Commands.Episode == "" {
		c.Commands.Episode = "regrab_episode"
	}
	if c.Notifications.Discord.Username == "" {
		c.Notifications.Discord.Username = "regrabarr"
	}
}

func boolPtr(b bool) *bool { return &b }

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars replaces variable references with environment values.
// Unresolved references are left unchanged and reported in missing.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		parts := envVarPattern.FindStringSubmatch(match)
		name, op, arg := parts[1], parts[2], parts[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case ":-":
			if !ok || value == "" {
				return arg
			}
			return value
		case ":?":
			if !ok || value == "" {
				missing = append(missing, fmt.Sprintf("%s: %s", name, strings.TrimSpace(arg)))
				return match
			}
			return value
		}
		if !ok {
			missing = append(missing, name)
			return match
		}
		return value
	})
	return out, missing
}
