package sheets

import (
	"fmt"
	"strings"

	"whitelist-sync/core/reconcile"
	"whitelist-sync/core/utils"
)

// headerRows is the number of rows above the first data row.
const headerRows = 1

// Table describes where one collection lives in the spreadsheet.
type Table struct {
	Sheet string
	// First and Last are the column letters bounding the table.
	First, Last string
	// Fields maps table columns, left to right, to record fields.
	Fields []reconcile.Field
}

// Layout maps each collection to its table.
type Layout map[reconcile.CollectionName]Table

// NewLayout builds the layout from configured sheet names.
func NewLayout(cfg Config) Layout {
	identity := []reconcile.Field{reconcile.FieldEmail, reconcile.FieldHandle, reconcile.FieldIdentifier}
	return Layout{
		reconcile.Requests: {
			Sheet: cfg.RequestsSheet, First: "B", Last: "C",
			Fields: []reconcile.Field{reconcile.FieldEmail, reconcile.FieldHandle},
		},
		reconcile.RemoteWhitelist: {Sheet: cfg.WhitelistSheet, First: "A", Last: "C", Fields: identity},
		// Column D is reserved for notes and is never read.
		reconcile.RemoteBans: {Sheet: cfg.BanlistSheet, First: "A", Last: "D", Fields: identity},
	}
}

// DataRange is the A1 range of every data row, e.g. 'Ban List'!A2:D.
func (t Table) DataRange() string {
	return fmt.Sprintf("%s!%s%d:%s", quoteSheet(t.Sheet), t.First, headerRows+1, t.Last)
}

// AppendRange is the full-column range appends are anchored on.
func (t Table) AppendRange() string {
	return fmt.Sprintf("%s!%s:%s", quoteSheet(t.Sheet), t.First, t.Last)
}

// RowRange is the A1 range of data row index (0-based).
func (t Table) RowRange(index int) string {
	row := index + headerRows + 1
	return fmt.Sprintf("%s!%s%d:%s%d", quoteSheet(t.Sheet), t.First, row, t.Last, row)
}

// Decode turns a row of cells into a record.
func (t Table) Decode(cells []any) reconcile.Record {
	var rec reconcile.Record
	for i, f := range t.Fields {
		v := utils.Cell(cells, i)
		switch f {
		case reconcile.FieldEmail:
			rec.Email = v
		case reconcile.FieldHandle:
			rec.Handle = v
		case reconcile.FieldIdentifier:
			rec.Identifier = v
		}
	}
	return rec
}

// Encode turns a record into the cells of one row.
func (t Table) Encode(rec reconcile.Record) []any {
	cells := make([]any, len(t.Fields))
	for i, f := range t.Fields {
		cells[i] = rec.Value(f)
	}
	return cells
}

func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
