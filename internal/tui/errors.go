package tui

import "errors"

// ErrAborted is returned by Run when the user quit before the session finished.
var ErrAborted = errors.New("aborted before the session finished")
