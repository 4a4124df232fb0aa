package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"whitelist-sync/core/config"
	"whitelist-sync/core/database"
	"whitelist-sync/core/reconcile"
	"whitelist-sync/feature/dbstore"
	"whitelist-sync/feature/history"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSyncFlags(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "sync"}
	addSyncFlags(c)
	require.NoError(t, c.ParseFlags(args))
	return c
}

func TestApplySyncFlags(t *testing.T) {
	cfg := &config.Config{}
	cfg.Sheets.SpreadsheetID = "from-env"
	cfg.Server.Folder = "/env/folder"
	cfg.Log.Level = "info"

	c := newSyncFlags(t, "--dry-run", "--silent", "--sheet-id", "from-flag", "--backend", "database")
	applySyncFlags(c, cfg)

	assert.True(t, cfg.Sync.DryRun)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "from-flag", cfg.Sheets.SpreadsheetID)
	assert.Equal(t, reconcile.BackendDatabase, cfg.Sync.Backend)
	assert.Equal(t, "/env/folder", cfg.Server.Folder, "unset flags keep configured values")
}

func TestExecuteSync_DatabaseBackend(t *testing.T) {
	folder := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(folder, "banned-players.json"), []byte(`[
  {"uuid": "11", "name": "Alice", "expires": "forever"}
]`), 0o644))

	cfg := &config.Config{}
	cfg.Server.Folder = folder
	cfg.Server.WhitelistFile = "whitelist.json"
	cfg.Server.BanlistFile = "banned-players.json"
	cfg.Sync.Backend = reconcile.BackendDatabase
	cfg.Sync.IgnoreExpiredBans = true
	cfg.Database = database.Config{Driver: database.DriverSQLite, Path: ":memory:"}

	dbs := &lazyDB{cfg: cfg.Database}
	db, err := dbs.get()
	require.NoError(t, err)
	require.NoError(t, dbstore.Migrate(db))

	ctx := context.Background()
	store := dbstore.NewStore(db)
	require.NoError(t, store.Append(ctx, reconcile.RemoteWhitelist, []reconcile.Record{
		{Email: "a@x.com", Handle: "Alice", Identifier: "11"},
		{Email: "c@x.com", Handle: "Carol", Identifier: "13"},
	}))

	result, data, err := executeSync(ctx, cfg, dbs, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Summary.BansAppended)

	onDisk, err := os.ReadFile(cfg.Server.WhitelistPath())
	require.NoError(t, err)
	assert.Equal(t, data, onDisk)
	assert.Contains(t, string(onDisk), `"name": "Carol"`)
	assert.NotContains(t, string(onDisk), "Alice")

	recordRun(ctx, dbs, zap.NewNop(), history.Entry{RunID: "run-1", Backend: cfg.Sync.Backend, Result: result})
	runs, err := history.NewLedger(db).List(ctx, 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
}

func TestExecuteSync_DryRunWritesNothing(t *testing.T) {
	folder := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(folder, "banned-players.json"), []byte(`[]`), 0o644))

	cfg := &config.Config{}
	cfg.Server.Folder = folder
	cfg.Server.WhitelistFile = "whitelist.json"
	cfg.Server.BanlistFile = "banned-players.json"
	cfg.Sync.Backend = reconcile.BackendDatabase
	cfg.Sync.DryRun = true
	cfg.Database = database.Config{Driver: database.DriverSQLite, Path: ":memory:"}

	result, data, err := executeSync(context.Background(), cfg, &lazyDB{cfg: cfg.Database}, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Nil(t, data)
	assert.NoFileExists(t, cfg.Server.WhitelistPath())
}

func TestExecuteSync_MissingBanList(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Folder = t.TempDir()
	cfg.Server.BanlistFile = "banned-players.json"

	_, _, err := executeSync(context.Background(), cfg, &lazyDB{}, zap.NewNop())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
