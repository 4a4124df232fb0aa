// Package sheets implements reconcile.Store on a Google spreadsheet.
//
// Each collection is a table on its own sheet with a header row. Data row i
// (0-based) is sheet row i+2. Deleting a row clears its cells instead of
// removing it, so indices from the last fetch stay valid until the next one.
// Appends use USER_ENTERED input, the same as typing into the sheet.
//
// # Usage
//
//	store, err := sheets.Open(ctx, cfg.Sheets)
//	rows, err := store.Fetch(ctx, reconcile.RemoteWhitelist)
package sheets
