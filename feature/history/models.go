package history

import (
	"time"

	"whitelist-sync/core/reconcile"
)

// Run is one sync run in the ledger.
type Run struct {
	ID         string `gorm:"primaryKey;size:36"`
	Backend    string `gorm:"size:32"`
	DryRun     bool
	Succeeded  bool
	Error      string `gorm:"size:1024"`
	StartedAt  time.Time `gorm:"index"`
	FinishedAt time.Time
	Summary    reconcile.Summary `gorm:"embedded;embeddedPrefix:summary_"`
	Actions    []Action          `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
}

// TableName overrides the table name used by Run to `sync_runs`.
func (Run) TableName() string {
	return "sync_runs"
}

// Duration is the wall time of the run.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Action is one change made (or planned) by a run.
type Action struct {
	ID         uint   `gorm:"primaryKey"`
	RunID      string `gorm:"size:36;index"`
	Seq        int
	Type       string `gorm:"size:16;index"`
	Email      string `gorm:"size:255"`
	Handle     string `gorm:"size:64"`
	Identifier string `gorm:"size:36"`
	Reason     string `gorm:"size:255"`
}

// TableName overrides the table name used by Action to `sync_actions`.
func (Action) TableName() string {
	return "sync_actions"
}
