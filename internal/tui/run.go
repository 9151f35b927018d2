package tui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vmunix/regrabarr/internal/arr"
)

// Run drives one session interactively until the user quits. Text delivered
// after the program exits is written to fallback. Run waits for any session
// call still in flight, so an accepted regrab is never cut short.
func Run(ctx context.Context, sessions Sessions, kind arr.Kind, query string, fallback io.Writer, opts ...tea.ProgramOption) error {
	surface := NewSurface(fallback)
	m := NewModel(ctx, sessions, surface, kind, query)

	p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...)
	final, err := p.Run()
	surface.Close()
	m.inflight.Wait()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	if fm, ok := final.(Model); ok && !fm.Done() {
		return ErrAborted
	}
	return nil
}
