package dbstore

import (
	"time"

	"whitelist-sync/core/reconcile"
)

// Entry is the row shape shared by the three collection tables.
type Entry struct {
	ID         uint   `gorm:"primaryKey"`
	Email      string `gorm:"size:255;index"`
	Handle     string `gorm:"size:64;index"`
	Identifier string `gorm:"size:36;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Record converts the row to the engine's record type.
func (e Entry) Record() reconcile.Record {
	return reconcile.Record{Email: e.Email, Handle: e.Handle, Identifier: e.Identifier}
}

func entryFrom(rec reconcile.Record) Entry {
	return Entry{Email: rec.Email, Handle: rec.Handle, Identifier: rec.Identifier}
}

// WhitelistEntry is a row of the remote whitelist.
type WhitelistEntry struct {
	Entry
}

// TableName overrides the table name used by WhitelistEntry to `whitelist_entries`.
func (WhitelistEntry) TableName() string {
	return "whitelist_entries"
}

// BanEntry is a row of the remote ban list.
type BanEntry struct {
	Entry
}

// TableName overrides the table name used by BanEntry to `ban_entries`.
func (BanEntry) TableName() string {
	return "ban_entries"
}

// AccessRequest is a pending access request. Identifier stays empty.
type AccessRequest struct {
	Entry
}

// TableName overrides the table name used by AccessRequest to `access_requests`.
func (AccessRequest) TableName() string {
	return "access_requests"
}

var tables = map[reconcile.CollectionName]string{
	reconcile.RemoteWhitelist: WhitelistEntry{}.TableName(),
	reconcile.RemoteBans:      BanEntry{}.TableName(),
	reconcile.Requests:        AccessRequest{}.TableName(),
}
