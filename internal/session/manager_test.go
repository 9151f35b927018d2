package session_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/regrabarr/internal/arr"
	arrmocks "github.com/vmunix/regrabarr/internal/arr/mocks"
	"github.com/vmunix/regrabarr/internal/events"
	"github.com/vmunix/regrabarr/internal/regrab"
	"github.com/vmunix/regrabarr/internal/session"
	"github.com/vmunix/regrabarr/internal/session/mocks"
	"github.com/vmunix/regrabarr/internal/wizard"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// clock is a manually advanced time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2024, 3, 15, 20, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeExecutor struct {
	mu      sync.Mutex
	calls   int
	outcome regrab.Outcome
}

func (f *fakeExecutor) Execute(_ context.Context, _ regrab.Target) regrab.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.outcome
}

var matrix = arr.SearchResult{Kind: arr.KindMovie, ExternalID: 603, CatalogID: 12, Title: "The Matrix", Year: 1999}

type fixture struct {
	ctrl    *gomock.Controller
	movies  *arrmocks.MockMovieCatalog
	surface *mocks.MockSurface
	exec    *fakeExecutor
	clock   *clock
	bus     *events.Bus
	mgr     *session.Manager
}

func newFixture(t *testing.T, cfg session.Config) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		ctrl:    ctrl,
		movies:  arrmocks.NewMockMovieCatalog(ctrl),
		surface: mocks.NewMockSurface(ctrl),
		exec:    &fakeExecutor{outcome: regrab.Succeeded("Your request to delete and redownload The Matrix (1999) is being processed.")},
		clock:   newClock(),
		bus:     events.NewBus(nil, testLogger()),
	}
	t.Cleanup(func() { f.bus.Close() })

	w := wizard.New(f.movies, nil, f.exec, wizard.WithLogger(testLogger()), wizard.WithClock(f.clock.Now))
	ids := 0
	f.mgr = session.NewManager(w, cfg,
		session.WithBus(f.bus),
		session.WithClock(f.clock.Now),
		session.WithLogger(testLogger()),
		session.WithIDGenerator(func() string {
			ids++
			return []string{"s1", "s2", "s3"}[ids-1]
		}),
	)
	return f
}

// start opens a movie session showing one result.
func (f *fixture) start(t *testing.T) string {
	t.Helper()
	f.movies.EXPECT().Search(gomock.Any(), "matrix").Return([]arr.SearchResult{matrix}, nil)
	f.surface.EXPECT().Render(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, v wizard.View) error {
		assert.Equal(t, wizard.ViewOptions, v.Kind)
		return nil
	})
	id, err := f.mgr.Start(context.Background(), arr.KindMovie, "matrix", f.surface)
	require.NoError(t, err)
	return id
}

func drain(ch <-chan events.Event) []string {
	var types []string
	for {
		select {
		case e := <-ch:
			types = append(types, e.EventType())
		default:
			return types
		}
	}
}

func TestStart_EmptySearchShowsOneMessageAndNoSession(t *testing.T) {
	f := newFixture(t, session.Config{})
	f.movies.EXPECT().Search(gomock.Any(), "nothing").Return(nil, nil)
	f.surface.EXPECT().Render(gomock.Any(), wizard.View{
		Kind: wizard.ViewStatus,
		Text: "No movie matching the following title was found: nothing",
	}).Return(nil).Times(1)

	id, err := f.mgr.Start(context.Background(), arr.KindMovie, "nothing", f.surface)

	require.ErrorIs(t, err, wizard.ErrSearchEmpty)
	assert.Empty(t, id)
	assert.Equal(t, 0, f.mgr.Active())
	_, err = f.mgr.Snapshot("s1")
	assert.ErrorIs(t, err, session.ErrUnknownSession)
}

func TestHandle_UnknownSession(t *testing.T) {
	f := newFixture(t, session.Config{})
	err := f.mgr.Handle(context.Background(), "missing", wizard.Select(0))
	assert.ErrorIs(t, err, session.ErrUnknownSession)
}

func TestHandle_MovieRegrabEditsStatusInPlace(t *testing.T) {
	f := newFixture(t, session.Config{})
	all := f.bus.SubscribeAll(32)
	id := f.start(t)
	assert.Equal(t, 1, f.mgr.Active())

	f.surface.EXPECT().Render(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, v wizard.View) error {
		assert.Equal(t, wizard.ViewConfirm, v.Kind)
		assert.Contains(t, v.Text, "**Title:** The Matrix")
		return nil
	})
	require.NoError(t, f.mgr.Handle(context.Background(), id, wizard.Select(0)))

	status := mocks.NewMockStatusMessage(f.ctrl)
	gomock.InOrder(
		f.surface.EXPECT().Dismiss(gomock.Any()).Return(nil),
		f.surface.EXPECT().Post(gomock.Any(), "Your request to delete and redownload The Matrix (1999) is being processed.").Return(status, nil),
		status.EXPECT().Edit(gomock.Any(), "Your request to delete and redownload The Matrix (1999) is being processed.").Return(nil),
	)
	require.NoError(t, f.mgr.Handle(context.Background(), id, wizard.Proceed()))

	assert.Equal(t, 1, f.exec.calls)
	assert.Equal(t, 0, f.mgr.Active())

	snap, err := f.mgr.Snapshot(id)
	require.NoError(t, err)
	assert.Equal(t, wizard.StateDone, snap.State)
	assert.Equal(t, 603, snap.Target.ExternalID)

	assert.Equal(t, []string{
		events.EventSessionStarted,
		events.EventRegrabRequested,
		events.EventRegrabCompleted,
		events.EventSessionFinished,
	}, drain(all))
}

func TestHandle_EditOnGoneSurfaceFallsBackToNotice(t *testing.T) {
	f := newFixture(t, session.Config{})
	f.exec.outcome = regrab.Failed(regrab.StageDelete, errors.New("boom"))
	id := f.start(t)

	f.surface.EXPECT().Render(gomock.Any(), gomock.Any()).Return(nil)
	require.NoError(t, f.mgr.Handle(context.Background(), id, wizard.Select(0)))

	status := mocks.NewMockStatusMessage(f.ctrl)
	f.surface.EXPECT().Dismiss(gomock.Any()).Return(session.ErrSurfaceGone)
	f.surface.EXPECT().Post(gomock.Any(), gomock.Any()).Return(status, nil)
	status.EXPECT().Edit(gomock.Any(), gomock.Any()).Return(session.ErrSurfaceGone)
	f.surface.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, text string) error {
		assert.Contains(t, text, regrab.StageDelete.Message())
		return nil
	}).Times(1)

	require.NoError(t, f.mgr.Handle(context.Background(), id, wizard.Proceed()))

	snap, err := f.mgr.Snapshot(id)
	require.NoError(t, err)
	assert.Equal(t, wizard.StateFailed, snap.State)
}

func TestHandle_PostFailureStillExecutes(t *testing.T) {
	f := newFixture(t, session.Config{})
	id := f.start(t)

	f.surface.EXPECT().Render(gomock.Any(), gomock.Any()).Return(nil)
	require.NoError(t, f.mgr.Handle(context.Background(), id, wizard.Select(0)))

	f.surface.EXPECT().Dismiss(gomock.Any()).Return(nil)
	f.surface.EXPECT().Post(gomock.Any(), gomock.Any()).Return(nil, errors.New("rate limited"))
	f.surface.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	require.NoError(t, f.mgr.Handle(context.Background(), id, wizard.Proceed()))
	assert.Equal(t, 1, f.exec.calls)
}

func TestHandle_ProceedBeforeConfirmIsRejected(t *testing.T) {
	f := newFixture(t, session.Config{})
	id := f.start(t)

	err := f.mgr.Handle(context.Background(), id, wizard.Proceed())
	assert.ErrorIs(t, err, wizard.ErrInvalidInput)
	assert.Equal(t, 0, f.exec.calls)
	assert.Equal(t, 1, f.mgr.Active())
}

func TestHandle_InvalidChoiceKeepsSession(t *testing.T) {
	f := newFixture(t, session.Config{})
	id := f.start(t)

	err := f.mgr.Handle(context.Background(), id, wizard.Select(5))
	assert.ErrorIs(t, err, wizard.ErrInvalidChoice)

	snap, err := f.mgr.Snapshot(id)
	require.NoError(t, err)
	assert.Equal(t, wizard.StateSelectFilm, snap.State)
}

func TestHandle_RenderOnGoneSurfaceFallsBackToNotice(t *testing.T) {
	f := newFixture(t, session.Config{})
	id := f.start(t)

	f.surface.EXPECT().Render(gomock.Any(), gomock.Any()).Return(session.ErrSurfaceGone)
	f.surface.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, text string) error {
		assert.Contains(t, text, "Please confirm")
		return nil
	}).Times(1)

	require.NoError(t, f.mgr.Handle(context.Background(), id, wizard.Select(0)))
}

func TestHandle_CancelThenInputIsClosed(t *testing.T) {
	f := newFixture(t, session.Config{})
	all := f.bus.SubscribeAll(32)
	id := f.start(t)

	f.surface.EXPECT().Render(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, v wizard.View) error {
		assert.Equal(t, "Cancelled the request.", v.Text)
		return nil
	})
	require.NoError(t, f.mgr.Handle(context.Background(), id, wizard.Cancel()))

	f.surface.EXPECT().Notify(gomock.Any(), session.ClosedText).Return(nil).Times(1)
	err := f.mgr.Handle(context.Background(), id, wizard.Select(0))
	assert.ErrorIs(t, err, session.ErrSessionClosed)

	assert.Equal(t, []string{events.EventSessionStarted, events.EventSessionFinished}, drain(all))
}

func TestHandle_ExpiresAfterTimeoutWithOneNotice(t *testing.T) {
	f := newFixture(t, session.Config{Timeout: time.Minute})
	id := f.start(t)

	f.clock.Advance(61 * time.Second)
	f.surface.EXPECT().Dismiss(gomock.Any()).Return(session.ErrSurfaceGone)
	f.surface.EXPECT().Notify(gomock.Any(), wizard.ExpiredText).Return(nil).Times(1)

	err := f.mgr.Handle(context.Background(), id, wizard.Select(0))
	require.ErrorIs(t, err, session.ErrSessionExpired)

	err = f.mgr.Handle(context.Background(), id, wizard.Select(0))
	require.ErrorIs(t, err, session.ErrSessionExpired)

	snap, err := f.mgr.Snapshot(id)
	require.NoError(t, err)
	assert.Equal(t, wizard.StateExpired, snap.State)
	assert.Equal(t, 0, f.exec.calls)
}

func TestHandle_ActivityResetsIdleTimer(t *testing.T) {
	f := newFixture(t, session.Config{Timeout: time.Minute})
	id := f.start(t)

	f.clock.Advance(50 * time.Second)
	f.surface.EXPECT().Render(gomock.Any(), gomock.Any()).Return(nil)
	require.NoError(t, f.mgr.Handle(context.Background(), id, wizard.Select(0)))

	f.clock.Advance(50 * time.Second)
	f.surface.EXPECT().Render(gomock.Any(), gomock.Any()).Return(nil)
	assert.NoError(t, f.mgr.Handle(context.Background(), id, wizard.Cancel()))
}

func TestSweep_ExpiresIdleAndPrunesClosed(t *testing.T) {
	f := newFixture(t, session.Config{Timeout: time.Minute, Retention: 5 * time.Minute})
	id := f.start(t)

	expired, pruned := f.mgr.Sweep(context.Background())
	assert.Zero(t, expired)
	assert.Zero(t, pruned)

	f.clock.Advance(2 * time.Minute)
	f.surface.EXPECT().Dismiss(gomock.Any()).Return(nil)
	f.surface.EXPECT().Notify(gomock.Any(), wizard.ExpiredText).Return(nil).Times(1)

	expired, pruned = f.mgr.Sweep(context.Background())
	assert.Equal(t, 1, expired)
	assert.Zero(t, pruned)

	// A second sweep does not notify again.
	expired, _ = f.mgr.Sweep(context.Background())
	assert.Zero(t, expired)

	f.clock.Advance(6 * time.Minute)
	_, pruned = f.mgr.Sweep(context.Background())
	assert.Equal(t, 1, pruned)

	_, err := f.mgr.Snapshot(id)
	assert.ErrorIs(t, err, session.ErrSessionExpired)
}

func TestHandle_AfterPruneIsExpired(t *testing.T) {
	f := newFixture(t, session.Config{Timeout: time.Minute, Retention: 5 * time.Minute, ForgetAfter: time.Hour})
	var dropped []string
	f.mgr.OnPrune(func(id string) { dropped = append(dropped, id) })
	id := f.start(t)

	f.clock.Advance(2 * time.Minute)
	f.surface.EXPECT().Dismiss(gomock.Any()).Return(nil)
	f.surface.EXPECT().Notify(gomock.Any(), wizard.ExpiredText).Return(nil).Times(1)
	f.mgr.Sweep(context.Background())

	f.clock.Advance(6 * time.Minute)
	_, pruned := f.mgr.Sweep(context.Background())
	require.Equal(t, 1, pruned)
	assert.Equal(t, []string{id}, dropped)

	// No wizard logic runs and no second notice goes out.
	err := f.mgr.Handle(context.Background(), id, wizard.Select(0))
	assert.ErrorIs(t, err, session.ErrSessionExpired)
	assert.Equal(t, 0, f.exec.calls)

	err = f.mgr.Handle(context.Background(), "never-issued", wizard.Select(0))
	assert.ErrorIs(t, err, session.ErrUnknownSession)

	// Pruned ids are forgotten eventually.
	f.clock.Advance(2 * time.Hour)
	f.mgr.Sweep(context.Background())
	err = f.mgr.Handle(context.Background(), id, wizard.Select(0))
	assert.ErrorIs(t, err, session.ErrUnknownSession)
	assert.Len(t, dropped, 1)
}

func TestRunJanitor_SweepsUntilCancelled(t *testing.T) {
	f := newFixture(t, session.Config{Timeout: time.Minute, SweepInterval: 10 * time.Millisecond})
	f.start(t)
	f.clock.Advance(2 * time.Minute)

	notified := make(chan struct{})
	f.surface.EXPECT().Dismiss(gomock.Any()).Return(nil)
	f.surface.EXPECT().Notify(gomock.Any(), wizard.ExpiredText).DoAndReturn(func(context.Context, string) error {
		close(notified)
		return nil
	}).Times(1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.mgr.RunJanitor(ctx) }()

	select {
	case <-notified:
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not expire the session")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestManager_SessionsAreIndependent(t *testing.T) {
	f := newFixture(t, session.Config{})
	first := f.start(t)
	second := f.start(t)
	assert.NotEqual(t, first, second)

	f.surface.EXPECT().Render(gomock.Any(), gomock.Any()).Return(nil)
	require.NoError(t, f.mgr.Handle(context.Background(), first, wizard.Cancel()))

	snap, err := f.mgr.Snapshot(second)
	require.NoError(t, err)
	assert.Equal(t, wizard.StateSelectFilm, snap.State)
	assert.Equal(t, 1, f.mgr.Active())
}
