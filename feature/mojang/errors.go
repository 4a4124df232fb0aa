package mojang

import (
	"fmt"
	"net/http"

	"whitelist-sync/core/reconcile"
)

// APIError is a failed profile lookup. It classifies itself against the
// reconcile sentinels, so callers test with errors.Is(err, reconcile.ErrNotFound)
// or errors.Is(err, reconcile.ErrTransient).
type APIError struct {
	Handle     string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("profile lookup for %q failed (status %d): %s", e.Handle, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("profile lookup for %q failed: %s", e.Handle, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *APIError) Is(target error) bool {
	switch target {
	case reconcile.ErrNotFound:
		return e.notFound()
	case reconcile.ErrTransient:
		return !e.notFound()
	}
	return false
}

// notFound covers "no content", 404 and every other client error except
// rate limiting. Anything else, including transport failures, is transient.
func (e *APIError) notFound() bool {
	switch {
	case e.StatusCode == http.StatusNoContent:
		return true
	case e.StatusCode == http.StatusTooManyRequests:
		return false
	case e.StatusCode >= 400 && e.StatusCode < 500:
		return true
	}
	return false
}
