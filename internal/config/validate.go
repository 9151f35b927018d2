package config

import (
	"fmt"
	"net/url"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validAvailability = map[string]bool{
	"announced": true, "inCinemas": true, "released": true, "tba": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Radarr.URL == "" && c.Sonarr.URL == "" {
		errs = append(errs, "radarr/sonarr: at least one backend must be configured")
	}

	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	if c.Radarr.URL != "" {
		errs = append(errs, checkBackend("radarr", c.Radarr.URL, c.Radarr.APIKey, c.Radarr.RootFolder)...)
		if !validAvailability[c.Radarr.MinimumAvailability] {
			errs = append(errs, fmt.Sprintf("radarr.minimum_availability: must be one of announced, inCinemas, released, tba; got %q", c.Radarr.MinimumAvailability))
		}
	}
	if c.Sonarr.URL != "" {
		errs = append(errs, checkBackend("sonarr", c.Sonarr.URL, c.Sonarr.APIKey, c.Sonarr.RootFolder)...)
	}

	s := c.Session
	if s.Timeout.Duration < 0 || s.SweepInterval.Duration < 0 || s.Retention.Duration < 0 {
		errs = append(errs, "session: durations must not be negative")
	}
	if s.EpisodePollInterval.Duration > s.EpisodePollMaxWait.Duration {
		errs = append(errs, fmt.Sprintf("session.episode_poll_interval: %s exceeds episode_poll_max_wait %s",
			s.EpisodePollInterval, s.EpisodePollMaxWait))
	}

	if c.Commands.Movie == c.Commands.Episode {
		errs = append(errs, fmt.Sprintf("commands: movie and episode must differ, both are %q", c.Commands.Movie))
	}

	if c.Notifications.Discord.Enabled && c.Notifications.Discord.WebhookURL == "" {
		errs = append(errs, "notifications.discord.webhook_url: required when discord is enabled")
	}

	return errs
}

func checkBackend(name, rawURL, apiKey, root string) []string {
	var errs []string
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Sprintf("%s.url: must be an http(s) URL, got %q", name, rawURL))
	}
	if apiKey == "" {
		errs = append(errs, fmt.Sprintf("%s.api_key: required when %s is configured", name, name))
	}
	if root == "" {
		errs = append(errs, fmt.Sprintf("%s.root_folder: required", name))
	}
	return errs
}
