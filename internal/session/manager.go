package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/vmunix/regrabarr/internal/arr"
	"github.com/vmunix/regrabarr/internal/events"
	"github.com/vmunix/regrabarr/internal/regrab"
	"github.com/vmunix/regrabarr/internal/wizard"
)

// Defaults for Config fields left zero.
const (
	DefaultTimeout       = 3 * time.Minute
	DefaultSweepInterval = 30 * time.Second
	DefaultRetention     = 10 * time.Minute
	DefaultForgetAfter   = 24 * time.Hour
)

// ClosedText is sent when input arrives for a finished session.
const ClosedText = "This request has already been completed. Please start a new one."

// Flow is the selection state machine driven by the manager.
type Flow interface {
	Start(ctx context.Context, id string, kind arr.Kind, query string) (*wizard.Session, wizard.View, error)
	Apply(ctx context.Context, s *wizard.Session, in wizard.Input) (wizard.View, error)
	Execute(ctx context.Context, s *wizard.Session) (regrab.Outcome, wizard.View, error)
	Expire(s *wizard.Session) bool
}

// Config controls session lifetime.
type Config struct {
	Timeout       time.Duration // idle time before a session expires
	SweepInterval time.Duration // janitor period
	Retention     time.Duration // how long closed sessions stay resolvable
	ForgetAfter   time.Duration // how long pruned ids still answer as expired
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = DefaultSweepInterval
	}
	if c.Retention <= 0 {
		c.Retention = DefaultRetention
	}
	if c.ForgetAfter <= 0 {
		c.ForgetAfter = DefaultForgetAfter
	}
	return c
}

// Snapshot is a read-only copy of a session's position.
type Snapshot struct {
	ID        string        `json:"id"`
	Kind      arr.Kind      `json:"kind"`
	Query     string        `json:"query"`
	State     wizard.State  `json:"state"`
	View      wizard.View   `json:"view"`
	Target    regrab.Target `json:"target"`
	CreatedAt time.Time     `json:"created_at"`
}

type entry struct {
	mu        sync.Mutex // serializes input; held for the whole step
	session   *wizard.Session
	surface   Surface
	lastSeen  time.Time
	closedAt  time.Time
	announced bool // series registration event published

	closed atomic.Bool
	snap   atomic.Pointer[Snapshot]
}

func (e *entry) publishSnapshot() {
	s := e.session
	e.snap.Store(&Snapshot{
		ID:        s.ID,
		Kind:      s.Kind,
		Query:     s.Query,
		State:     s.State,
		View:      s.View(),
		Target:    s.Target,
		CreatedAt: s.CreatedAt,
	})
}

// Manager is the session arena. It is safe for concurrent use; inputs for
// one session are serialized, different sessions proceed independently.
type Manager struct {
	flow  Flow
	cfg   Config
	bus   *events.Bus
	now   func() time.Time
	newID func() string
	log   *slog.Logger

	mu      sync.Mutex
	entries map[string]*entry
	pruned  map[string]time.Time // id -> when it was pruned
	onPrune []func(id string)
}

// Option configures a Manager.
type Option func(*Manager)

// WithBus publishes session and regrab events.
func WithBus(bus *events.Bus) Option {
	return func(m *Manager) {
		m.bus = bus
	}
}

// WithClock sets the time source used for idle tracking.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithIDGenerator overrides uuid session ids.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// NewManager creates a session manager.
func NewManager(flow Flow, cfg Config, opts ...Option) *Manager {
	m := &Manager{
		flow:    flow,
		cfg:     cfg.withDefaults(),
		now:     time.Now,
		newID:   uuid.NewString,
		log:     slog.Default(),
		entries: make(map[string]*entry),
		pruned:  make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With("component", "session")
	return m
}

// Config returns the effective configuration.
func (m *Manager) Config() Config { return m.cfg }

// Start searches for query and renders the first view on surface. When the
// search yields nothing, exactly one status message is shown and no session
// is created; the wizard error is returned.
func (m *Manager) Start(ctx context.Context, kind arr.Kind, query string, surface Surface) (string, error) {
	id := m.newID()
	s, v, err := m.flow.Start(ctx, id, kind, query)
	if err != nil {
		if rerr := m.show(ctx, surface, v); rerr != nil {
			m.log.Warn("failed to show search result", "kind", kind, "error", rerr)
		}
		return "", err
	}

	e := &entry{session: s, surface: surface, lastSeen: m.now()}
	e.publishSnapshot()

	m.mu.Lock()
	m.entries[id] = e
	m.mu.Unlock()

	m.publish(ctx, &events.SessionStarted{
		BaseEvent: events.NewBaseEvent(events.EventSessionStarted, events.EntitySession, 0, id),
		Kind:      string(kind),
		Query:     s.Query,
		Results:   len(v.Choices),
	})
	m.log.Info("session started", "session_id", id, "kind", kind, "query", s.Query, "results", len(v.Choices))

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := m.show(ctx, surface, v); err != nil {
		return id, fmt.Errorf("render: %w", err)
	}
	return id, nil
}

// OnPrune registers fn to be called with the id of every session Sweep
// drops. Front-ends use it to release per-session state.
func (m *Manager) OnPrune(fn func(id string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onPrune = append(m.onPrune, fn)
}

// Handle applies one input to session id. Input for a session that was
// already pruned is answered as expired.
func (m *Manager) Handle(ctx context.Context, id string, in wizard.Input) error {
	e, err := m.find(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	switch {
	case s.State == wizard.StateExpired:
		return ErrSessionExpired
	case s.State.Terminal():
		m.notify(ctx, e, ClosedText)
		return fmt.Errorf("%w: %s", ErrSessionClosed, s.State)
	}

	now := m.now()
	if now.Sub(e.lastSeen) > m.cfg.Timeout {
		m.expire(ctx, e)
		return ErrSessionExpired
	}
	e.lastSeen = now

	if in.Action == wizard.ActionProceed {
		return m.proceed(ctx, e)
	}

	v, err := m.flow.Apply(ctx, s, in)
	if err != nil {
		return err
	}
	e.publishSnapshot()
	if s.State.Terminal() {
		m.finish(ctx, e)
	}
	m.maybeAnnounceRegistration(ctx, e)
	return m.show(ctx, e.surface, v)
}

// proceed executes a confirmed session: dismiss the picker, post a durable
// status, run the regrab and edit the status with the outcome.
func (m *Manager) proceed(ctx context.Context, e *entry) error {
	s := e.session
	if s.State != wizard.StateConfirm {
		return fmt.Errorf("%w: nothing to confirm in %s", wizard.ErrInvalidInput, s.State)
	}
	if err := s.Target.Validate(); err != nil {
		return err
	}

	// The remediation must finish and be reported even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	if err := e.surface.Dismiss(ctx); err != nil {
		m.log.Debug("dismiss failed", "session_id", s.ID, "error", err)
	}
	status, err := e.surface.Post(ctx, processingText(s.Target))
	if err != nil {
		m.log.Warn("failed to post status", "session_id", s.ID, "error", err)
		status = nil
	}

	entity, entityID := events.EntityFor(s.Target)
	m.publish(ctx, &events.RegrabRequested{
		BaseEvent: events.NewBaseEvent(events.EventRegrabRequested, entity, entityID, s.ID),
		Target:    s.Target,
	})

	e.snap.Store(&Snapshot{
		ID: s.ID, Kind: s.Kind, Query: s.Query, State: wizard.StateExecuting,
		View: wizard.View{Kind: wizard.ViewStatus, Text: processingText(s.Target)}, Target: s.Target, CreatedAt: s.CreatedAt,
	})

	_, v, err := m.flow.Execute(ctx, s)
	if err != nil {
		e.publishSnapshot()
		return err
	}
	e.publishSnapshot()
	m.finish(ctx, e)

	if status != nil {
		err := status.Edit(ctx, v.Text)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrSurfaceGone) {
			m.log.Warn("failed to edit status", "session_id", s.ID, "error", err)
		}
	}
	m.notify(ctx, e, v.Text)
	return nil
}

// Snapshot returns the current position of session id without waiting for
// an in-flight step.
func (m *Manager) Snapshot(id string) (Snapshot, error) {
	e, err := m.find(id)
	if err != nil {
		return Snapshot{}, err
	}
	return *e.snap.Load(), nil
}

// Active returns the number of sessions still accepting input.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.entries {
		if !e.closed.Load() {
			n++
		}
	}
	return n
}

// Sweep expires idle sessions and drops closed ones past retention. Sessions
// busy with a step are skipped until the next sweep.
func (m *Manager) Sweep(ctx context.Context) (expired, pruned int) {
	now := m.now()

	m.mu.Lock()
	snapshot := make(map[string]*entry, len(m.entries))
	for id, e := range m.entries {
		snapshot[id] = e
	}
	m.mu.Unlock()

	var dropped []string
	for id, e := range snapshot {
		if !e.mu.TryLock() {
			continue
		}
		switch {
		case e.closed.Load():
			if now.Sub(e.closedAt) > m.cfg.Retention {
				m.mu.Lock()
				delete(m.entries, id)
				m.pruned[id] = now
				m.mu.Unlock()
				dropped = append(dropped, id)
				pruned++
			}
		case now.Sub(e.lastSeen) > m.cfg.Timeout:
			m.expire(ctx, e)
			expired++
		}
		e.mu.Unlock()
	}

	m.mu.Lock()
	for id, at := range m.pruned {
		if now.Sub(at) > m.cfg.ForgetAfter {
			delete(m.pruned, id)
		}
	}
	hooks := append(([]func(string))(nil), m.onPrune...)
	m.mu.Unlock()

	for _, id := range dropped {
		for _, fn := range hooks {
			fn(id)
		}
	}

	if expired > 0 || pruned > 0 {
		m.log.Debug("sweep finished", "expired", expired, "pruned", pruned)
	}
	return expired, pruned
}

// find returns the live entry for id. Ids pruned within ForgetAfter report
// ErrSessionExpired; anything else is ErrUnknownSession.
func (m *Manager) find(id string) (*entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	if _, ok := m.pruned[id]; ok {
		return nil, ErrSessionExpired
	}
	return nil, ErrUnknownSession
}

// expire must be called with e.mu held.
func (m *Manager) expire(ctx context.Context, e *entry) {
	s := e.session
	prev := s.State
	if !m.flow.Expire(s) {
		return
	}
	e.publishSnapshot()
	e.closed.Store(true)
	e.closedAt = m.now()

	if err := e.surface.Dismiss(ctx); err != nil {
		m.log.Debug("dismiss failed", "session_id", s.ID, "error", err)
	}
	m.notify(ctx, e, wizard.ExpiredText)

	m.publish(ctx, &events.SessionExpired{
		BaseEvent:     events.NewBaseEvent(events.EventSessionExpired, events.EntitySession, 0, s.ID),
		PreviousState: prev.String(),
	})
}

// finish records a terminal state. Must be called with e.mu held.
func (m *Manager) finish(ctx context.Context, e *entry) {
	s := e.session
	e.closed.Store(true)
	e.closedAt = m.now()

	if out, ok := s.Outcome(); ok && out.Status != regrab.StatusCancelled {
		m.publish(ctx, events.NewRegrabOutcome(s.ID, s.Target, out))
	}

	finished := &events.SessionFinished{
		BaseEvent: events.NewBaseEvent(events.EventSessionFinished, events.EntitySession, 0, s.ID),
		State:     s.State.String(),
	}
	if err := s.Err(); err != nil {
		finished.Error = err.Error()
	}
	m.publish(ctx, finished)
	m.log.Info("session finished", "session_id", s.ID, "state", s.State)
}

func (m *Manager) maybeAnnounceRegistration(ctx context.Context, e *entry) {
	s := e.session
	if e.announced || !s.Registered() {
		return
	}
	e.announced = true
	m.publish(ctx, &events.SeriesRegistered{
		BaseEvent: events.NewBaseEvent(events.EventSeriesRegistered, events.EntitySeries, int64(s.Target.SeriesID), s.ID),
		TvdbID:    s.Target.ExternalID,
		SeriesID:  s.Target.SeriesID,
		Title:     s.Target.SeriesTitle,
	})
}

// show renders v, falling back to a plain notice when the surface is gone.
func (m *Manager) show(ctx context.Context, surface Surface, v wizard.View) error {
	err := surface.Render(ctx, v)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrSurfaceGone) {
		return err
	}
	if nerr := surface.Notify(ctx, v.Text); nerr != nil {
		m.log.Warn("fallback notice failed", "error", nerr)
	}
	return nil
}

func (m *Manager) notify(ctx context.Context, e *entry, text string) {
	if err := e.surface.Notify(ctx, text); err != nil {
		m.log.Warn("notice failed", "session_id", e.session.ID, "error", err)
	}
}

func (m *Manager) publish(ctx context.Context, e events.Event) {
	if m.bus == nil {
		return
	}
	if err := m.bus.Publish(ctx, e); err != nil {
		m.log.Warn("failed to publish event", "type", e.EventType(), "error", err)
	}
}

func processingText(t regrab.Target) string {
	return fmt.Sprintf("Your request to delete and redownload %s is being processed.", t)
}
