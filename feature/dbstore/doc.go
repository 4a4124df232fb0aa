// Package dbstore implements reconcile.Store on three SQL tables managed
// with GORM: whitelist_entries, ban_entries and access_requests.
//
// It is the alternative to the spreadsheet backend for servers that keep
// their records in MySQL or SQLite (see core/database). The request table is
// read-only to the engine; AddRequest is the intake path.
package dbstore
