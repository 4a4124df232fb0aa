package dbstore

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"whitelist-sync/core/reconcile"

	"gorm.io/gorm"
)

// Store is a reconcile.Store backed by SQL tables.
//
// Row indices are positions in id order at the last Fetch. Delete resolves an
// index through the ids recorded by that fetch, so it stays valid while other
// rows are deleted, matching the spreadsheet store.
type Store struct {
	db *gorm.DB

	mu        sync.Mutex
	positions map[reconcile.CollectionName][]uint
}

// NewStore creates a store on db. Call Migrate first on a fresh database.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, positions: make(map[reconcile.CollectionName][]uint)}
}

// Migrate creates or updates the collection tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&WhitelistEntry{}, &BanEntry{}, &AccessRequest{}); err != nil {
		return fmt.Errorf("failed to migrate record store: %w", err)
	}
	return nil
}

// Name implements reconcile.Store.
func (s *Store) Name() string {
	return "database"
}

// Fetch reads every row of the collection in id order.
func (s *Store) Fetch(ctx context.Context, name reconcile.CollectionName) ([]reconcile.Row, error) {
	table, err := tableFor(name)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	if err := s.db.WithContext(ctx).Table(table).Order("id asc").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}

	ids := make([]uint, len(entries))
	rows := make([]reconcile.Row, 0, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
		rec := e.Record()
		if rec.IsEmpty() {
			continue
		}
		rows = append(rows, reconcile.Row{Index: i, Record: rec})
	}

	s.mu.Lock()
	s.positions[name] = ids
	s.mu.Unlock()

	return rows, nil
}

// Append inserts records in one batch.
func (s *Store) Append(ctx context.Context, name reconcile.CollectionName, records []reconcile.Record) error {
	if len(records) == 0 {
		return nil
	}
	table, err := writableTable(name)
	if err != nil {
		return err
	}

	entries := make([]Entry, len(records))
	for i, rec := range records {
		entries[i] = entryFrom(rec)
	}

	if err := s.db.WithContext(ctx).Table(table).Create(&entries).Error; err != nil {
		return fmt.Errorf("failed to insert %d rows into %s: %w", len(records), table, err)
	}
	return nil
}

// Delete removes the row that was at index during the last Fetch.
func (s *Store) Delete(ctx context.Context, name reconcile.CollectionName, index int) error {
	table, err := writableTable(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	ids := s.positions[name]
	s.mu.Unlock()

	if index < 0 || index >= len(ids) {
		return fmt.Errorf("row %d of %s was not part of the last fetch", index, table)
	}

	if err := s.db.WithContext(ctx).Table(table).Delete(&Entry{}, ids[index]).Error; err != nil {
		return fmt.Errorf("failed to delete row %d from %s: %w", ids[index], table, err)
	}
	return nil
}

// AddRequest queues an access request.
func (s *Store) AddRequest(ctx context.Context, email, handle string) error {
	req := AccessRequest{Entry: Entry{Email: strings.TrimSpace(email), Handle: strings.TrimSpace(handle)}}
	if req.Handle == "" {
		return fmt.Errorf("a request needs a handle")
	}
	if err := s.db.WithContext(ctx).Create(&req).Error; err != nil {
		return fmt.Errorf("failed to queue request: %w", err)
	}
	return nil
}

func tableFor(name reconcile.CollectionName) (string, error) {
	table, ok := tables[name]
	if !ok {
		return "", fmt.Errorf("unknown collection %q", name)
	}
	return table, nil
}

func writableTable(name reconcile.CollectionName) (string, error) {
	if name == reconcile.Requests {
		return "", fmt.Errorf("%s: %w", name, reconcile.ErrReadOnlyCollection)
	}
	return tableFor(name)
}
