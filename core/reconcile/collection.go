package reconcile

import (
	"context"
	"fmt"
)

// Collection is an in-memory view of one remote collection.
//
// After Append or Delete the view is stale: Refresh must be called before
// the next read-dependent step. Reads on a stale view fail with
// ErrStaleCollection rather than act on rows the store no longer holds.
type Collection struct {
	name  CollectionName
	store Store
	rows  []Row
	stale bool
}

// NewCollection creates an empty, stale view. Call Refresh to load it.
func NewCollection(name CollectionName, store Store) *Collection {
	return &Collection{name: name, store: store, stale: true}
}

// Name returns the collection name.
func (c *Collection) Name() CollectionName {
	return c.name
}

// Stale reports whether the view must be refreshed before it is read.
func (c *Collection) Stale() bool {
	return c.stale
}

// Refresh re-reads the collection from the store.
func (c *Collection) Refresh(ctx context.Context) error {
	rows, err := c.store.Fetch(ctx, c.name)
	if err != nil {
		return fmt.Errorf("failed to fetch %s from %s: %w", c.name, c.store.Name(), err)
	}
	for i := range rows {
		rows[i].Record = rows[i].Record.Normalize()
	}
	c.rows = rows
	c.stale = false
	return nil
}

// Rows returns the rows loaded by the last Refresh.
func (c *Collection) Rows() ([]Row, error) {
	if c.stale {
		return nil, fmt.Errorf("%s: %w", c.name, ErrStaleCollection)
	}
	return c.rows, nil
}

// Len returns the number of rows loaded by the last Refresh.
func (c *Collection) Len() int {
	return len(c.rows)
}

// Find returns the first row, in insertion order, whose field equals value.
// An empty value never matches.
func (c *Collection) Find(field Field, value string) (Row, bool, error) {
	if c.stale {
		return Row{}, false, fmt.Errorf("%s: %w", c.name, ErrStaleCollection)
	}
	if value == "" {
		return Row{}, false, nil
	}
	for _, row := range c.rows {
		if row.Record.Value(field) == value {
			return row, true, nil
		}
	}
	return Row{}, false, nil
}

// FindIdentity returns the first row referring to the same account as r.
func (c *Collection) FindIdentity(r Record) (Row, bool, error) {
	if c.stale {
		return Row{}, false, fmt.Errorf("%s: %w", c.name, ErrStaleCollection)
	}
	for _, row := range c.rows {
		if row.Record.SameIdentity(r) {
			return row, true, nil
		}
	}
	return Row{}, false, nil
}

// Append writes records in a single batch and marks the view stale.
// An empty batch is a no-op.
func (c *Collection) Append(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	if !isWritable(c.name) {
		return fmt.Errorf("%s: %w", c.name, ErrReadOnlyCollection)
	}
	c.stale = true
	if err := c.store.Append(ctx, c.name, records); err != nil {
		return fmt.Errorf("failed to append %d records to %s: %w", len(records), c.name, err)
	}
	return nil
}

// Delete removes a row previously returned by this view and marks it stale.
func (c *Collection) Delete(ctx context.Context, row Row) error {
	if !isWritable(c.name) {
		return fmt.Errorf("%s: %w", c.name, ErrReadOnlyCollection)
	}
	c.stale = true
	if err := c.store.Delete(ctx, c.name, row.Index); err != nil {
		return fmt.Errorf("failed to delete row %d from %s: %w", row.Index, c.name, err)
	}
	return nil
}
