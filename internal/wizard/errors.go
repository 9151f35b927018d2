package wizard

import "errors"

var (
	// ErrSearchEmpty means the lookup returned nothing; no session exists.
	ErrSearchEmpty = errors.New("no search results")
	// ErrSearchFailed means the lookup itself failed; no session exists.
	ErrSearchFailed = errors.New("search failed")
	// ErrBackendNotConfigured means the requested kind has no catalog client.
	ErrBackendNotConfigured = errors.New("backend not configured")
	// ErrInvalidChoice means the selected index is outside the presented options.
	ErrInvalidChoice = errors.New("invalid choice")
	// ErrInvalidInput means the input does not apply to the session's current state.
	ErrInvalidInput = errors.New("input not valid in current state")
	// ErrRegistrationFailed means an untracked series could not be added.
	ErrRegistrationFailed = errors.New("series registration failed")
	// ErrSeasonNotYetAvailable means the backend has no aired episodes for the season yet.
	ErrSeasonNotYetAvailable = errors.New("season not yet available")
	// ErrEpisodesUnavailable means the episode list could not be fetched.
	ErrEpisodesUnavailable = errors.New("episode list unavailable")
)
