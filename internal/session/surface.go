// Package session owns the live wizard sessions: it keys them by front-end
// interaction id, serializes input per session, expires idle ones and routes
// every user-visible message through a Surface.
package session

import (
	"context"
	"errors"

	"github.com/vmunix/regrabarr/internal/wizard"
)

//go:generate mockgen -destination=mocks/mock_surface.go -package=mocks github.com/vmunix/regrabarr/internal/session Surface,StatusMessage

var (
	// ErrUnknownSession means no session exists for the id (never started, or pruned).
	ErrUnknownSession = errors.New("unknown session")
	// ErrSessionExpired means the session timed out before this input.
	ErrSessionExpired = errors.New("session expired")
	// ErrSessionClosed means the session already reached a final state.
	ErrSessionClosed = errors.New("session closed")
	// ErrSurfaceGone is returned by a Surface whose interactive element no longer exists.
	ErrSurfaceGone = errors.New("surface gone")
)

// Surface is the front-end's handle on one session.
type Surface interface {
	// Render replaces the interactive element with v.
	Render(ctx context.Context, v wizard.View) error
	// Dismiss removes the interactive element.
	Dismiss(ctx context.Context) error
	// Post sends a durable message that can be edited later.
	Post(ctx context.Context, text string) (StatusMessage, error)
	// Notify sends a standalone message. It is the fallback when the
	// interactive element is gone and must not depend on it.
	Notify(ctx context.Context, text string) error
}

// StatusMessage is a posted message that can be updated in place.
type StatusMessage interface {
	Edit(ctx context.Context, text string) error
}
