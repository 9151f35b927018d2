package wizard

// State is a wizard session's position in the selection flow.
type State int

const (
	StateSearching State = iota
	StateSelectFilm
	StateSelectSeries
	StateSelectSeason
	StateSelectEpisode
	StateConfirm
	StateExecuting
	StateDone
	StateFailed
	StateCancelled
	StateExpired
)

var stateNames = map[State]string{
	StateSearching:     "searching",
	StateSelectFilm:    "select_film",
	StateSelectSeries:  "select_series",
	StateSelectSeason:  "select_season",
	StateSelectEpisode: "select_episode",
	StateConfirm:       "confirm",
	StateExecuting:     "executing",
	StateDone:          "done",
	StateFailed:        "failed",
	StateCancelled:     "cancelled",
	StateExpired:       "expired",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText renders the state name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether no further input is accepted.
func (s State) Terminal() bool {
	switch s {
	case StateDone, StateFailed, StateCancelled, StateExpired:
		return true
	}
	return false
}

// Selecting reports whether the state presents a list of options.
func (s State) Selecting() bool {
	switch s {
	case StateSelectFilm, StateSelectSeries, StateSelectSeason, StateSelectEpisode:
		return true
	}
	return false
}
