package events

// Session lifecycle event types.
const (
	EventSessionStarted  = "session.started"
	EventSessionFinished = "session.finished"
	EventSessionExpired  = "session.expired"
)

// SessionStarted is emitted when a search produced a selectable session.
type SessionStarted struct {
	BaseEvent
	Kind    string `json:"kind"`
	Query   string `json:"query"`
	Results int    `json:"results"`
}

// SessionFinished is emitted once when a session reaches a terminal state.
type SessionFinished struct {
	BaseEvent
	State string `json:"state"`
	Error string `json:"error,omitempty"`
}

// SessionExpired is emitted when an idle session times out.
type SessionExpired struct {
	BaseEvent
	PreviousState string `json:"previous_state"`
}
