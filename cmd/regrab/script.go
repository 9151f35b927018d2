package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/vmunix/regrabarr/internal/arr"
	"github.com/vmunix/regrabarr/internal/session"
	"github.com/vmunix/regrabarr/internal/wizard"
)

var (
	errRegrabFailed = errors.New("regrab failed")
	errCancelled    = errors.New("cancelled")
	errNoSuchChoice = errors.New("no matching choice")
)

// Sessions is the part of the session manager the CLI drives.
type Sessions interface {
	Start(ctx context.Context, kind arr.Kind, query string, surface session.Surface) (string, error)
	Handle(ctx context.Context, id string, in wizard.Input) error
	Snapshot(id string) (session.Snapshot, error)
}

// answers pre-fill wizard steps from flags. Zero values mean "ask".
type answers struct {
	pick    int // 1-based search result
	best    bool
	season  int // -1 = ask
	episode int // -1 = ask
	yes     bool
}

func (a answers) scripted() bool {
	return a.pick > 0 || a.best || a.season >= 0 || a.episode >= 0 || a.yes
}

// printSurface writes views as plain text.
type printSurface struct {
	mu  sync.Mutex
	out io.Writer
}

func (s *printSurface) Render(_ context.Context, v wizard.View) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, plainText(v.Text))
	for i, c := range v.Choices {
		if c.Description != "" {
			fmt.Fprintf(s.out, "  %2d) %s  (%s)\n", i+1, c.Label, c.Description)
		} else {
			fmt.Fprintf(s.out, "  %2d) %s\n", i+1, c.Label)
		}
	}
	return nil
}

func (s *printSurface) Dismiss(context.Context) error { return nil }

func (s *printSurface) Post(ctx context.Context, text string) (session.StatusMessage, error) {
	return printStatus{s}, s.Notify(ctx, text)
}

func (s *printSurface) Notify(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintln(s.out, plainText(text))
	return err
}

type printStatus struct{ s *printSurface }

// Edit prints the final status on its own line; a terminal cannot rewrite
// an earlier line reliably.
func (p printStatus) Edit(ctx context.Context, text string) error {
	return p.s.Notify(ctx, text)
}

// plainText strips the bold and italic markers used in view text.
func plainText(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if len(l) > 2 && strings.HasPrefix(l, "_") && strings.HasSuffix(l, "_") {
			lines[i] = l[1 : len(l)-1]
		}
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// runScripted drives a session from flags, prompting on in for anything the
// flags leave open.
func runScripted(ctx context.Context, sessions Sessions, kind arr.Kind, query string, ans answers, in io.Reader, out io.Writer) error {
	id, err := sessions.Start(ctx, kind, query, &printSurface{out: out})
	if id == "" {
		return err
	}

	p := &prompter{in: bufio.NewReader(in), out: out}
	for {
		snap, err := sessions.Snapshot(id)
		if err != nil {
			return err
		}
		if snap.State.Terminal() {
			return finalError(snap.State)
		}

		input, asked, err := ans.next(snap, p)
		if err != nil {
			return err
		}
		err = sessions.Handle(ctx, id, input)
		if errors.Is(err, wizard.ErrInvalidChoice) && asked {
			fmt.Fprintln(out, "Invalid choice.")
			continue
		}
		if err != nil {
			return err
		}
	}
}

func finalError(s wizard.State) error {
	switch s {
	case wizard.StateDone:
		return nil
	case wizard.StateCancelled:
		return errCancelled
	case wizard.StateExpired:
		return session.ErrSessionExpired
	}
	return errRegrabFailed
}

// next picks the input for the session's current step. asked reports
// whether the answer came from the prompt.
func (a answers) next(snap session.Snapshot, p *prompter) (wizard.Input, bool, error) {
	switch snap.State {
	case wizard.StateSelectFilm, wizard.StateSelectSeries:
		if a.pick > 0 {
			return wizard.Select(a.pick - 1), false, nil
		}
		if a.best {
			return wizard.Select(0), false, nil
		}
	case wizard.StateSelectSeason:
		if a.season >= 0 {
			in, err := selectLabel(snap.View, fmt.Sprintf("Season %d", a.season))
			return in, false, err
		}
	case wizard.StateSelectEpisode:
		if a.episode >= 0 {
			in, err := selectLabel(snap.View, fmt.Sprintf("Episode %d", a.episode))
			return in, false, err
		}
	case wizard.StateConfirm:
		if a.yes {
			return wizard.Proceed(), false, nil
		}
		in, err := p.confirm()
		return in, true, err
	}
	in, err := p.choose(len(snap.View.Choices))
	return in, true, err
}

func selectLabel(v wizard.View, label string) (wizard.Input, error) {
	for i, c := range v.Choices {
		if c.Label == label {
			return wizard.Select(i), nil
		}
	}
	return wizard.Input{}, fmt.Errorf("%w: %s", errNoSuchChoice, label)
}

type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func (p *prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// choose asks for a 1-based option. "c" or end of input cancels.
func (p *prompter) choose(n int) (wizard.Input, error) {
	for {
		fmt.Fprintf(p.out, "Choice [1-%d, c to cancel]: ", n)
		line, err := p.readLine()
		if errors.Is(err, io.EOF) {
			return wizard.Cancel(), nil
		}
		if err != nil {
			return wizard.Input{}, err
		}
		if strings.EqualFold(line, "c") {
			return wizard.Cancel(), nil
		}
		if i, err := strconv.Atoi(line); err == nil {
			return wizard.Select(i - 1), nil
		}
	}
}

func (p *prompter) confirm() (wizard.Input, error) {
	fmt.Fprint(p.out, "Proceed? [y/N]: ")
	line, err := p.readLine()
	if err != nil && !errors.Is(err, io.EOF) {
		return wizard.Input{}, err
	}
	if strings.EqualFold(line, "y") || strings.EqualFold(line, "yes") {
		return wizard.Proceed(), nil
	}
	return wizard.Cancel(), nil
}
