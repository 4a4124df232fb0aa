package reconcile

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by a Resolver when the handle has no account.
	ErrNotFound = errors.New("handle not found")

	// ErrTransient is returned by a Resolver when the lookup failed for a
	// reason that may clear up on a later run.
	ErrTransient = errors.New("transient resolver failure")

	// ErrReadOnlyCollection is returned by a Store asked to mutate the request queue.
	ErrReadOnlyCollection = errors.New("collection is read-only")

	// ErrStaleCollection is returned when a collection is read after a
	// mutation without calling Refresh first.
	ErrStaleCollection = errors.New("collection mutated since last refresh")

	// ErrDeleteNotApplied is returned when a Store reports a successful delete
	// but the row is still present after refreshing.
	ErrDeleteNotApplied = errors.New("delete was not applied by the store")
)

// Store defines the record store backing the remote collections.
// Implementations adapt a concrete backend (spreadsheet, SQL, memory).
type Store interface {
	// Name returns a short backend name used in logs (e.g., "sheets").
	Name() string

	// Fetch returns every non-blank row of the collection in store order.
	// Row.Index must be stable until the next mutation of that collection.
	Fetch(ctx context.Context, name CollectionName) ([]Row, error)

	// Append adds all records to the end of the collection in one call.
	Append(ctx context.Context, name CollectionName, records []Record) error

	// Delete removes exactly one row, addressed by its index at the last fetch.
	Delete(ctx context.Context, name CollectionName, index int) error
}

// Resolver maps a handle to a stable identifier.
// It returns an error matching ErrNotFound when the handle does not exist and
// one matching ErrTransient when the lookup should be retried on a later run.
type Resolver interface {
	Resolve(ctx context.Context, handle string) (string, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, handle string) (string, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, handle string) (string, error) {
	return f(ctx, handle)
}

// isWritable reports whether the engine may mutate the named collection.
func isWritable(name CollectionName) bool {
	return name == RemoteBans || name == RemoteWhitelist
}
