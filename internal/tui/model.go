// Package tui is the terminal front-end for regrab sessions.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vmunix/regrabarr/internal/arr"
	"github.com/vmunix/regrabarr/internal/session"
	"github.com/vmunix/regrabarr/internal/wizard"
)

// Sessions drives regrab sessions. *session.Manager implements it.
type Sessions interface {
	Start(ctx context.Context, kind arr.Kind, query string, surface session.Surface) (string, error)
	Handle(ctx context.Context, id string, in wizard.Input) error
	Snapshot(id string) (session.Snapshot, error)
}

type choiceItem struct {
	n     int
	label string
	desc  string
}

func (i choiceItem) Title() string       { return fmt.Sprintf("%d. %s", i.n, i.label) }
func (i choiceItem) Description() string { return i.desc }
func (i choiceItem) FilterValue() string { return i.label }

type startedMsg struct {
	id  string
	err error
}

type handledMsg struct {
	err error
}

// Model is the bubbletea model for one session.
type Model struct {
	ctx      context.Context
	sessions Sessions
	surface  *Surface
	kind     arr.Kind
	query    string

	id      string
	view    wizard.View
	list    list.Model
	spinner spinner.Model
	busy    bool
	done    bool
	status  string
	notices []string
	err     error

	// inflight tracks session calls so Run can wait for them after quitting.
	inflight *sync.WaitGroup
}

// NewModel creates a model that starts a session for query on Init.
func NewModel(ctx context.Context, sessions Sessions, surface *Surface, kind arr.Kind, query string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = titleStyle

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(accent).BorderForeground(accent)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.BorderForeground(accent)

	l := list.New(nil, delegate, 80, 20)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.Styles.Title = titleStyle

	return Model{
		ctx:      ctx,
		sessions: sessions,
		surface:  surface,
		kind:     kind,
		query:    query,
		list:     l,
		spinner:  sp,
		busy:     true,
		inflight: &sync.WaitGroup{},
	}
}

// Init starts the session.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.start(), m.surface.wait())
}

// Done reports whether the session reached a final state.
func (m Model) Done() bool { return m.done }

// Err returns the last session error, if any.
func (m Model) Err() error { return m.err }

func (m Model) start() tea.Cmd {
	m.inflight.Add(1)
	return func() tea.Msg {
		defer m.inflight.Done()
		id, err := m.sessions.Start(m.ctx, m.kind, m.query, m.surface)
		return startedMsg{id: id, err: err}
	}
}

func (m Model) handle(in wizard.Input) tea.Cmd {
	m.inflight.Add(1)
	id := m.id
	return func() tea.Msg {
		defer m.inflight.Done()
		return handledMsg{err: m.sessions.Handle(m.ctx, id, in)}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, max(msg.Height-8, 6))
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case viewMsg:
		m.view = msg.view
		m.busy = false
		if m.view.Kind == wizard.ViewOptions {
			items := make([]list.Item, len(m.view.Choices))
			for i, c := range m.view.Choices {
				items[i] = choiceItem{n: i + 1, label: c.Label, desc: c.Description}
			}
			m.list.Title = m.view.Text
			m.list.Select(0)
			return m, tea.Batch(m.list.SetItems(items), m.surface.wait())
		}
		return m, m.surface.wait()

	case dismissMsg:
		m.view = wizard.View{}
		return m, m.surface.wait()

	case statusMsg:
		m.status = msg.text
		return m, m.surface.wait()

	case noticeMsg:
		m.notices = append(m.notices, msg.text)
		return m, m.surface.wait()

	case startedMsg:
		m.id = msg.id
		if msg.id == "" {
			// No session: the surface already shows why.
			m.err = msg.err
			m.busy = false
			m.done = true
		}
		return m, nil

	case handledMsg:
		m.busy = false
		m.err = nil
		if msg.err != nil {
			m.err = msg.err
			if errors.Is(msg.err, session.ErrSessionExpired) ||
				errors.Is(msg.err, session.ErrSessionClosed) ||
				errors.Is(msg.err, session.ErrUnknownSession) {
				m.done = true
				return m, nil
			}
		}
		if snap, err := m.sessions.Snapshot(m.id); err == nil && snap.State.Terminal() {
			m.done = true
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	if m.done {
		return m, tea.Quit
	}
	if m.busy || m.id == "" {
		return m, nil
	}

	switch m.view.Kind {
	case wizard.ViewOptions:
		switch key {
		case "enter":
			return m.submit(wizard.Select(m.list.Index()))
		case "esc", "q":
			return m.submit(wizard.Cancel())
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			return m.submit(wizard.Select(int(key[0] - '1')))
		case "0":
			return m.submit(wizard.Select(9))
		}
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd

	case wizard.ViewConfirm:
		switch key {
		case "y", "enter":
			return m.submit(wizard.Proceed())
		case "n", "esc", "q":
			return m.submit(wizard.Cancel())
		}
	}
	return m, nil
}

func (m Model) submit(in wizard.Input) (tea.Model, tea.Cmd) {
	m.busy = true
	return m, tea.Batch(m.spinner.Tick, m.handle(in))
}

// View renders the model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("regrab " + string(m.kind)))
	b.WriteString(" ")
	b.WriteString(queryStyle.Render(m.query))
	b.WriteString("\n\n")

	switch {
	case m.view.Kind == wizard.ViewOptions:
		b.WriteString(m.list.View())
	case m.view.Text != "":
		b.WriteString(renderMarkup(m.view.Text))
		b.WriteString("\n")
	}

	if m.busy {
		b.WriteString("\n" + m.spinner.View() + " Working...\n")
	}
	if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status) + "\n")
	}
	for _, n := range m.notices {
		b.WriteString("\n" + renderMarkup(n) + "\n")
	}
	if m.err != nil && !errors.Is(m.err, wizard.ErrSearchEmpty) {
		b.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render(m.help()))
	return b.String()
}

func (m Model) help() string {
	switch {
	case m.done:
		return "press any key to exit"
	case m.busy:
		return "ctrl+c: quit"
	case m.view.Kind == wizard.ViewOptions:
		return "↑/↓: move • enter or 1-9: select • esc: cancel"
	case m.view.Kind == wizard.ViewConfirm:
		return "y: regrab • n: cancel"
	}
	return "ctrl+c: quit"
}
