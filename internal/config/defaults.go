package config

import (
	"github.com/vmunix/regrabarr/internal/arr"
)

// MovieDefaults returns the film backend's add settings.
func (c *Config) MovieDefaults() arr.Defaults {
	return arr.Defaults{
		QualityProfileID:    c.Radarr.QualityProfileID,
		RootFolderPath:      c.Radarr.RootFolder,
		MinimumAvailability: c.Radarr.MinimumAvailability,
		SearchOnAdd:         c.Radarr.AddWithSearch == nil || *c.Radarr.AddWithSearch,
	}
}

// SeriesDefaults returns the series backend's add settings.
func (c *Config) SeriesDefaults() arr.Defaults {
	return arr.Defaults{
		QualityProfileID:  c.Sonarr.QualityProfileID,
		LanguageProfileID: c.Sonarr.LanguageProfileID,
		RootFolderPath:    c.Sonarr.RootFolder,
		SearchOnAdd:       c.Sonarr.SearchMissingOnAdd,
		SeasonFolder:      c.Sonarr.SeasonFolder == nil || *c.Sonarr.SeasonFolder,
	}
}

// KindForCommand maps a configured command name to the catalog kind it regrabs.
func (c *Config) KindForCommand(name string) (arr.Kind, bool) {
	switch name {
	case c.Commands.Movie:
		return arr.KindMovie, true
	case c.Commands.Episode:
		return arr.KindSeries, true
	}
	return "", false
}

// movieSource and seriesSource read defaults from the watcher's current config.
type movieSource struct{ w *Watcher }

func (s movieSource) Defaults() arr.Defaults { return s.w.Current().MovieDefaults() }

type seriesSource struct{ w *Watcher }

func (s seriesSource) Defaults() arr.Defaults { return s.w.Current().SeriesDefaults() }
