package v1

import (
	"context"
	"errors"

	"github.com/vmunix/regrabarr/internal/arr"
	"github.com/vmunix/regrabarr/internal/events"
	"github.com/vmunix/regrabarr/internal/history"
	"github.com/vmunix/regrabarr/internal/session"
	"github.com/vmunix/regrabarr/internal/wizard"
)

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// Sessions drives regrab sessions. *session.Manager implements it.
type Sessions interface {
	Start(ctx context.Context, kind arr.Kind, query string, surface session.Surface) (string, error)
	Handle(ctx context.Context, id string, in wizard.Input) error
	Snapshot(id string) (session.Snapshot, error)
	Active() int
	// OnPrune registers a callback for sessions dropped from the arena.
	OnPrune(fn func(id string))
}

// HistoryLister lists recorded regrab outcomes.
type HistoryLister interface {
	List(ctx context.Context, f history.Filter) ([]*history.Entry, error)
}

// CommandResolver maps a front-end command name to a catalog kind.
type CommandResolver func(name string) (arr.Kind, bool)

// ServerDeps contains all dependencies for the API server.
// Required dependencies must be non-nil; optional dependencies may be nil.
type ServerDeps struct {
	// Required dependencies
	Sessions Sessions
	Commands CommandResolver

	// Optional dependencies (nil if not configured)
	History  HistoryLister
	EventLog *events.EventLog
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	if d.Sessions == nil {
		return errors.New("session manager is required")
	}
	if d.Commands == nil {
		return errors.New("command resolver is required")
	}
	return nil
}
