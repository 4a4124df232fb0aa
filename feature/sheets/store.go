package sheets

import (
	"context"
	"fmt"

	"whitelist-sync/core/reconcile"
)

// Store is a reconcile.Store backed by a spreadsheet.
type Store struct {
	api           ValuesAPI
	spreadsheetID string
	layout        Layout
}

// NewStore creates a store over api.
func NewStore(api ValuesAPI, cfg Config) *Store {
	return &Store{api: api, spreadsheetID: cfg.SpreadsheetID, layout: NewLayout(cfg)}
}

// Open authenticates with the configured credentials and returns a store.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	api, err := NewValuesAPI(ctx, cfg.CredentialsFile)
	if err != nil {
		return nil, err
	}
	return NewStore(api, cfg), nil
}

// Name implements reconcile.Store.
func (s *Store) Name() string {
	return "sheets"
}

// Fetch reads every data row. Blank rows are skipped but keep their index.
func (s *Store) Fetch(ctx context.Context, name reconcile.CollectionName) ([]reconcile.Row, error) {
	table, err := s.table(name)
	if err != nil {
		return nil, err
	}

	values, err := s.api.Get(ctx, s.spreadsheetID, table.DataRange())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table.DataRange(), err)
	}

	rows := make([]reconcile.Row, 0, len(values))
	for i, cells := range values {
		rec := table.Decode(cells)
		if rec.IsEmpty() {
			continue
		}
		rows = append(rows, reconcile.Row{Index: i, Record: rec})
	}
	return rows, nil
}

// Append adds records after the last row of the table in one call.
func (s *Store) Append(ctx context.Context, name reconcile.CollectionName, records []reconcile.Record) error {
	if len(records) == 0 {
		return nil
	}
	table, err := s.writableTable(name)
	if err != nil {
		return err
	}

	values := make([][]any, len(records))
	for i, rec := range records {
		values[i] = table.Encode(rec)
	}

	if err := s.api.Append(ctx, s.spreadsheetID, table.AppendRange(), values); err != nil {
		return fmt.Errorf("failed to append %d rows to %s: %w", len(records), table.Sheet, err)
	}
	return nil
}

// Delete clears the cells of data row index. Rows below keep their position.
func (s *Store) Delete(ctx context.Context, name reconcile.CollectionName, index int) error {
	table, err := s.writableTable(name)
	if err != nil {
		return err
	}
	if index < 0 {
		return fmt.Errorf("invalid row index %d", index)
	}

	if err := s.api.Clear(ctx, s.spreadsheetID, table.RowRange(index)); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table.RowRange(index), err)
	}
	return nil
}

func (s *Store) table(name reconcile.CollectionName) (Table, error) {
	table, ok := s.layout[name]
	if !ok {
		return Table{}, fmt.Errorf("unknown collection %q", name)
	}
	return table, nil
}

func (s *Store) writableTable(name reconcile.CollectionName) (Table, error) {
	if name == reconcile.Requests {
		return Table{}, fmt.Errorf("%s: %w", name, reconcile.ErrReadOnlyCollection)
	}
	return s.table(name)
}
