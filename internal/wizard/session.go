package wizard

import (
	"context"
	"time"

	"github.com/vmunix/regrabarr/internal/arr"
	"github.com/vmunix/regrabarr/internal/regrab"
)

// Session is the state of one selection flow. It is not safe for concurrent
// use; callers serialize inputs per session.
type Session struct {
	ID        string
	Kind      arr.Kind
	Query     string
	State     State
	Target    regrab.Target
	CreatedAt time.Time

	step       *step
	view       View
	registered bool
	outcome    *regrab.Outcome
	err        error
}

// View returns the last view produced for the session.
func (s *Session) View() View { return s.view }

// Outcome returns the regrab outcome once the session has one.
func (s *Session) Outcome() (regrab.Outcome, bool) {
	if s.outcome == nil {
		return regrab.Outcome{}, false
	}
	return *s.outcome, true
}

// Err returns why the session failed during selection, if it did.
func (s *Session) Err() error { return s.err }

// Registered reports whether the series was added to the backend by this session.
func (s *Session) Registered() bool { return s.registered }

func (s *Session) show(v View) View {
	s.view = v
	return v
}

// step is one selection screen: what to show and what a choice does.
type step struct {
	state   State
	prompt  string
	choices []Choice
	next    func(ctx context.Context, s *Session, index int) (View, error)
}

func (st *step) view() View {
	return optionsView(st.prompt, st.choices)
}
