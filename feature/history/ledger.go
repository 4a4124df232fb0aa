package history

import (
	"context"
	"fmt"
	"time"

	"whitelist-sync/core/reconcile"

	"gorm.io/gorm"
)

// Entry describes a finished run to be recorded.
type Entry struct {
	RunID      string
	Backend    string
	StartedAt  time.Time
	FinishedAt time.Time
	// Result is nil when the run failed before producing one.
	Result *reconcile.Result
	Err    error
}

// Ledger stores runs and their actions.
type Ledger struct {
	db *gorm.DB
}

// NewLedger creates a ledger on db.
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Migrate creates or updates the ledger tables.
func (l *Ledger) Migrate() error {
	if err := l.db.AutoMigrate(&Run{}, &Action{}); err != nil {
		return fmt.Errorf("failed to migrate run ledger: %w", err)
	}
	return nil
}

// Record stores a run and its actions in one transaction.
func (l *Ledger) Record(ctx context.Context, e Entry) error {
	run := Run{
		ID:         e.RunID,
		Backend:    e.Backend,
		Succeeded:  e.Err == nil,
		StartedAt:  e.StartedAt,
		FinishedAt: e.FinishedAt,
	}
	if e.Err != nil {
		run.Error = truncate(e.Err.Error(), 1024)
	}
	if e.Result != nil {
		run.DryRun = e.Result.DryRun
		run.Summary = e.Result.Summary
		run.Actions = make([]Action, len(e.Result.Actions))
		for i, a := range e.Result.Actions {
			run.Actions[i] = Action{
				Seq:        i,
				Type:       string(a.Type),
				Email:      a.Record.Email,
				Handle:     a.Record.Handle,
				Identifier: a.Record.Identifier,
				Reason:     truncate(a.Reason, 255),
			}
		}
	}

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&run).Error
	})
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", e.RunID, err)
	}
	return nil
}

// List returns the most recent runs, newest first, without their actions.
func (l *Ledger) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []Run
	if err := l.db.WithContext(ctx).Order("started_at desc").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// Get returns one run with its actions in execution order.
func (l *Ledger) Get(ctx context.Context, id string) (*Run, error) {
	var run Run
	err := l.db.WithContext(ctx).
		Preload("Actions", func(db *gorm.DB) *gorm.DB { return db.Order("seq asc") }).
		First(&run, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}
	return &run, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
