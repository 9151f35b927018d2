package v1

import (
	"context"
	"sync"

	"github.com/vmunix/regrabarr/internal/session"
	"github.com/vmunix/regrabarr/internal/wizard"
)

// surface is the HTTP front-end's session surface. Clients poll it: the
// rendered view, the durable status line and fallback notices are kept in
// memory until the session is pruned.
type surface struct {
	mu      sync.Mutex
	view    wizard.View
	status  string
	notices []string
	gone    bool
}

var _ session.Surface = (*surface)(nil)

func (s *surface) Render(_ context.Context, v wizard.View) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gone {
		return session.ErrSurfaceGone
	}
	s.view = v
	return nil
}

func (s *surface) Dismiss(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gone {
		return session.ErrSurfaceGone
	}
	s.view = wizard.View{}
	return nil
}

func (s *surface) Post(_ context.Context, text string) (session.StatusMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = text
	return statusLine{s}, nil
}

func (s *surface) Notify(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, text)
	return nil
}

// markGone is called when the client reports its interactive element closed.
func (s *surface) markGone() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gone = true
}

func (s *surface) snapshot() (view wizard.View, status string, notices []string, gone bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view, s.status, append([]string(nil), s.notices...), s.gone
}

// statusLine edits the surface's durable status. Like a chat message it is
// lost together with the interactive element.
type statusLine struct{ s *surface }

func (l statusLine) Edit(_ context.Context, text string) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	if l.s.gone {
		return session.ErrSurfaceGone
	}
	l.s.status = text
	return nil
}
