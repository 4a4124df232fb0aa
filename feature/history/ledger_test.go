package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"whitelist-sync/core/database"
	"whitelist-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLedger(t *testing.T) *Ledger {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	ledger := NewLedger(db)
	require.NoError(t, ledger.Migrate())
	return ledger
}

func TestLedger_RecordAndGet(t *testing.T) {
	ledger := setupLedger(t)
	ctx := context.Background()
	started := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	result := &reconcile.Result{
		Actions: []reconcile.Action{
			{Type: reconcile.ActionUnlist, Record: reconcile.Record{Email: "a@x.com", Handle: "Alice", Identifier: "11"}, Reason: "shares email with banned Alice"},
			{Type: reconcile.ActionBan, Record: reconcile.Record{Email: "a@x.com", Handle: "Alice", Identifier: "11"}},
			{Type: reconcile.ActionAdmit, Record: reconcile.Record{Email: "b@x.com", Handle: "Bob", Identifier: "12"}},
		},
		Summary: reconcile.Summary{LocalBans: 1, BansAppended: 1, Admitted: 1, SnapshotSize: 1},
	}

	require.NoError(t, ledger.Record(ctx, Entry{
		RunID:      "run-1",
		Backend:    "sheets",
		StartedAt:  started,
		FinishedAt: started.Add(3 * time.Second),
		Result:     result,
	}))

	run, err := ledger.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.True(t, run.Succeeded)
	assert.Equal(t, "sheets", run.Backend)
	assert.Equal(t, result.Summary, run.Summary)
	assert.Equal(t, 3*time.Second, run.Duration())
	require.Len(t, run.Actions, 3)
	assert.Equal(t, "unlist", run.Actions[0].Type)
	assert.Equal(t, "Bob", run.Actions[2].Handle)
}

func TestLedger_RecordFailure(t *testing.T) {
	ledger := setupLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.Record(ctx, Entry{
		RunID:      "run-failed",
		Backend:    "database",
		StartedAt:  time.Now(),
		FinishedAt: time.Now(),
		Err:        errors.New("failed to fetch whitelist from database: boom"),
	}))

	run, err := ledger.Get(ctx, "run-failed")
	require.NoError(t, err)
	assert.False(t, run.Succeeded)
	assert.Contains(t, run.Error, "boom")
	assert.Empty(t, run.Actions)
}

func TestLedger_ListNewestFirst(t *testing.T) {
	ledger := setupLedger(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "middle", "new"} {
		started := base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, ledger.Record(ctx, Entry{
			RunID:      id,
			StartedAt:  started,
			FinishedAt: started,
			Result:     &reconcile.Result{DryRun: id == "middle"},
		}))
	}

	runs, err := ledger.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "new", runs[0].ID)
	assert.Equal(t, "middle", runs[1].ID)
	assert.True(t, runs[1].DryRun)
	assert.Nil(t, runs[0].Actions, "list does not load actions")
}

func TestLedger_GetMissing(t *testing.T) {
	ledger := setupLedger(t)
	_, err := ledger.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
}
