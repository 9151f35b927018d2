package arr

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the catalog clients. Callers match them with errors.Is;
// the wrapped message always names the failing operation.
var (
	ErrNotFound          = errors.New("not found in catalog")
	ErrUnauthorized      = errors.New("unauthorized: invalid API key")
	ErrUnavailable       = errors.New("backend unavailable")
	ErrMalformedResponse = errors.New("malformed response body")
)

// StatusError is returned for any non-2xx response not covered by a sentinel.
type StatusError struct {
	Op         string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %s", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: unexpected status %s: %s", e.Op, e.Status, e.Body)
}

// IsTransient reports whether err is worth retrying for a read-only call.
func IsTransient(err error) bool {
	if errors.Is(err, ErrUnavailable) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500
	}
	return false
}
