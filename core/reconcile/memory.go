package reconcile

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-process Store. Deleting a row blanks it in place, so
// the indices of the remaining rows do not move, matching spreadsheet
// semantics. It backs dry runs and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	rows    map[CollectionName][]*Record
	appends map[CollectionName]int
	deletes map[CollectionName]int
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows:    make(map[CollectionName][]*Record),
		appends: make(map[CollectionName]int),
		deletes: make(map[CollectionName]int),
	}
}

// CloneStore copies every remote collection of src into a new MemoryStore,
// keeping row indices.
func CloneStore(ctx context.Context, src Store) (*MemoryStore, error) {
	m := NewMemoryStore()
	for _, name := range []CollectionName{RemoteBans, RemoteWhitelist, Requests} {
		rows, err := src.Fetch(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to clone %s from %s: %w", name, src.Name(), err)
		}
		m.seedRows(name, rows)
	}
	return m, nil
}

// Seed replaces the content of a collection, ignoring read-only rules.
func (m *MemoryStore) Seed(name CollectionName, records ...Record) *MemoryStore {
	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = Row{Index: i, Record: r}
	}
	m.seedRows(name, rows)
	return m
}

func (m *MemoryStore) seedRows(name CollectionName, rows []Row) {
	m.mu.Lock()
	defer m.mu.Unlock()

	size := 0
	for _, row := range rows {
		if row.Index+1 > size {
			size = row.Index + 1
		}
	}
	slots := make([]*Record, size)
	for _, row := range rows {
		rec := row.Record
		slots[row.Index] = &rec
	}
	m.rows[name] = slots
}

// Name implements Store.
func (m *MemoryStore) Name() string {
	return "memory"
}

// Fetch implements Store.
func (m *MemoryStore) Fetch(_ context.Context, name CollectionName) ([]Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var rows []Row
	for i, rec := range m.rows[name] {
		if rec == nil || rec.IsEmpty() {
			continue
		}
		rows = append(rows, Row{Index: i, Record: *rec})
	}
	return rows, nil
}

// Append implements Store.
func (m *MemoryStore) Append(_ context.Context, name CollectionName, records []Record) error {
	if !isWritable(name) {
		return fmt.Errorf("%s: %w", name, ErrReadOnlyCollection)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range records {
		rec := r
		m.rows[name] = append(m.rows[name], &rec)
	}
	m.appends[name]++
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, name CollectionName, index int) error {
	if !isWritable(name) {
		return fmt.Errorf("%s: %w", name, ErrReadOnlyCollection)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	slots := m.rows[name]
	if index < 0 || index >= len(slots) {
		return fmt.Errorf("row %d out of range for %s", index, name)
	}
	slots[index] = nil
	m.deletes[name]++
	return nil
}

// Records returns the non-blank records of a collection in order.
func (m *MemoryStore) Records(name CollectionName) []Record {
	rows, _ := m.Fetch(context.Background(), name)
	records := make([]Record, len(rows))
	for i, row := range rows {
		records[i] = row.Record
	}
	return records
}

// AppendCalls returns how many batch appends the collection received.
func (m *MemoryStore) AppendCalls(name CollectionName) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.appends[name]
}

// DeleteCalls returns how many row deletions the collection received.
func (m *MemoryStore) DeleteCalls(name CollectionName) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.deletes[name]
}
