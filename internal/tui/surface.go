package tui

import (
	"context"
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vmunix/regrabarr/internal/session"
	"github.com/vmunix/regrabarr/internal/wizard"
)

// Surface messages delivered to the model.
type (
	viewMsg    struct{ view wizard.View }
	dismissMsg struct{}
	statusMsg  struct{ text string }
	noticeMsg  struct{ text string }
)

// Surface is a session.Surface backed by a bubbletea program. Calls become
// tea messages; once the program has exited the interactive calls fail with
// session.ErrSurfaceGone and text is written to the fallback writer instead.
type Surface struct {
	msgs     chan tea.Msg
	done     chan struct{}
	once     sync.Once
	fallback io.Writer
}

var _ session.Surface = (*Surface)(nil)

// NewSurface creates a surface. fallback receives durable text after Close.
func NewSurface(fallback io.Writer) *Surface {
	if fallback == nil {
		fallback = io.Discard
	}
	return &Surface{
		msgs:     make(chan tea.Msg, 16),
		done:     make(chan struct{}),
		fallback: fallback,
	}
}

// Close marks the surface gone. Safe to call more than once.
func (s *Surface) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *Surface) send(ctx context.Context, msg tea.Msg) error {
	select {
	case <-s.done:
		return session.ErrSurfaceGone
	default:
	}
	select {
	case s.msgs <- msg:
		return nil
	case <-s.done:
		return session.ErrSurfaceGone
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Surface) Render(ctx context.Context, v wizard.View) error {
	return s.send(ctx, viewMsg{view: v})
}

func (s *Surface) Dismiss(ctx context.Context) error {
	return s.send(ctx, dismissMsg{})
}

func (s *Surface) Post(ctx context.Context, text string) (session.StatusMessage, error) {
	if err := s.send(ctx, statusMsg{text: text}); err != nil {
		if _, werr := fmt.Fprintln(s.fallback, text); werr != nil {
			return nil, werr
		}
	}
	return statusLine{s}, nil
}

func (s *Surface) Notify(ctx context.Context, text string) error {
	if err := s.send(ctx, noticeMsg{text: text}); err != nil {
		_, werr := fmt.Fprintln(s.fallback, text)
		return werr
	}
	return nil
}

// wait returns a command that delivers the next surface message.
func (s *Surface) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-s.msgs:
			return msg
		case <-s.done:
			return nil
		}
	}
}

type statusLine struct{ s *Surface }

func (l statusLine) Edit(ctx context.Context, text string) error {
	return l.s.send(ctx, statusMsg{text: text})
}
