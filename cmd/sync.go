package cmd

import (
	"context"
	"fmt"
	"time"

	"whitelist-sync/core/config"
	"whitelist-sync/core/database"
	"whitelist-sync/core/logger"
	"whitelist-sync/core/metrics"
	"whitelist-sync/core/reconcile"
	"whitelist-sync/core/storage"
	"whitelist-sync/feature/archive"
	"whitelist-sync/feature/dbstore"
	"whitelist-sync/feature/history"
	"whitelist-sync/feature/minecraft"
	"whitelist-sync/feature/mojang"
	"whitelist-sync/feature/sheets"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// syncCmd performs one reconciliation run.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile bans, whitelist and requests, then rewrite whitelist.json",
	Long: `Run one reconciliation:

  1. Copy in-game bans (and every whitelisted account sharing their email)
     to the remote ban list, removing them from the remote whitelist.
  2. Evict whitelisted accounts that are on the remote ban list.
  3. Admit pending requests that are neither banned nor listed.
  4. Rewrite whitelist.json from the remote whitelist.

Examples:
  # Preview without touching anything
  whitelist-sync sync --dry-run

  # Cron-friendly run that only logs errors
  whitelist-sync sync --silent`,
	RunE: runSync,
}

func init() {
	addSyncFlags(syncCmd)
	RootCmd.AddCommand(syncCmd)
}

func addSyncFlags(c *cobra.Command) {
	f := c.Flags()
	f.Bool("dry-run", false, "Plan against an in-memory copy; write nothing")
	f.Bool("silent", false, "Only log errors")
	f.String("backend", "", "Record store: sheets or database")
	f.String("sheet-id", "", "Spreadsheet ID (overrides SHEETS_SPREADSHEET_ID)")
	f.String("credentials", "", "Service account key file (overrides SHEETS_CREDENTIALS_FILE)")
	f.String("minecraft-folder", "", "Server folder (overrides SERVER_FOLDER)")
	f.Bool("no-ledger", false, "Do not record the run in the database")
}

// applySyncFlags copies explicitly set flags over the loaded configuration.
func applySyncFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("dry-run") {
		cfg.Sync.DryRun, _ = f.GetBool("dry-run")
	}
	if silent, _ := f.GetBool("silent"); silent {
		cfg.Log.Level = "error"
	}
	if f.Changed("backend") {
		cfg.Sync.Backend, _ = f.GetString("backend")
	}
	if f.Changed("sheet-id") {
		cfg.Sheets.SpreadsheetID, _ = f.GetString("sheet-id")
	}
	if f.Changed("credentials") {
		cfg.Sheets.CredentialsFile, _ = f.GetString("credentials")
	}
	if f.Changed("minecraft-folder") {
		cfg.Server.Folder, _ = f.GetString("minecraft-folder")
	}
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applySyncFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	runID := uuid.NewString()
	l = logger.WithRunID(l, runID)
	started := time.Now()

	l.Info("Starting sync",
		zap.String("backend", cfg.Sync.Backend),
		zap.String("folder", cfg.Server.Folder),
		zap.Bool("dry_run", cfg.Sync.DryRun),
	)

	dbs := &lazyDB{cfg: cfg.Database}
	result, snapshot, runErr := executeSync(ctx, cfg, dbs, l)
	finished := time.Now()

	if result != nil {
		printSyncReport(l, result)
	}

	noLedger, _ := cmd.Flags().GetBool("no-ledger")
	if !noLedger {
		recordRun(ctx, dbs, l, history.Entry{
			RunID:      runID,
			Backend:    cfg.Sync.Backend,
			StartedAt:  started,
			FinishedAt: finished,
			Result:     result,
			Err:        runErr,
		})
	}

	if snapshot != nil && cfg.Storage.Enabled {
		archiveSnapshot(ctx, cfg.Storage, runID, snapshot, l)
	}

	rec := metrics.NewRecorder()
	rec.Observe(result, finished.Sub(started), runErr)
	if err := rec.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
		l.Warn("Metrics not written", zap.Error(err))
	}

	if runErr != nil {
		return runErr
	}

	l.Info("Sync finished", zap.Duration("elapsed", finished.Sub(started)))
	return nil
}

// executeSync runs the engine and writes the snapshot. It returns the bytes
// written to whitelist.json, or nil for dry runs and failures.
func executeSync(ctx context.Context, cfg *config.Config, dbs *lazyDB, l *zap.Logger) (*reconcile.Result, []byte, error) {
	entries, err := minecraft.ReadBanList(cfg.Server.BanlistPath())
	if err != nil {
		return nil, nil, err
	}
	localBans := minecraft.ActiveBans(entries, time.Now(), cfg.Sync.IgnoreExpiredBans)
	if skipped := len(entries) - len(localBans); skipped > 0 {
		l.Debug("Ignoring expired or empty local bans", zap.Int("count", skipped))
	}

	store, err := openStore(ctx, cfg, dbs)
	if err != nil {
		return nil, nil, err
	}

	engine := reconcile.NewEngine(store, mojang.NewResolver(cfg.Resolver), l, cfg.Sync.Options())
	result, err := engine.Run(ctx, localBans)
	if err != nil {
		return result, nil, fmt.Errorf("reconciliation failed: %w", err)
	}

	if result.DryRun {
		l.Info("Dry-run mode: no changes were made", zap.Int("planned_actions", len(result.Actions)))
		return result, nil, nil
	}

	path := cfg.Server.WhitelistPath()
	data, err := minecraft.WriteWhitelist(path, result.Snapshot)
	if err != nil {
		return result, nil, err
	}
	l.Info("Wrote local whitelist", zap.String("path", path), zap.Int("entries", len(result.Snapshot)))

	return result, data, nil
}

// openStore returns the record store selected by the sync backend.
func openStore(ctx context.Context, cfg *config.Config, dbs *lazyDB) (reconcile.Store, error) {
	switch cfg.Sync.Backend {
	case reconcile.BackendDatabase:
		db, err := dbs.get()
		if err != nil {
			return nil, err
		}
		if err := dbstore.Migrate(db); err != nil {
			return nil, err
		}
		return dbstore.NewStore(db), nil
	default:
		store, err := sheets.Open(ctx, cfg.Sheets)
		if err != nil {
			return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
		}
		return store, nil
	}
}

// recordRun stores the run in the ledger. The ledger is optional, so
// failures are logged and swallowed.
func recordRun(ctx context.Context, dbs *lazyDB, l *zap.Logger, entry history.Entry) {
	db, err := dbs.get()
	if err != nil {
		l.Warn("Run ledger unavailable", zap.Error(err))
		return
	}

	ledger := history.NewLedger(db)
	if err := ledger.Migrate(); err != nil {
		l.Warn("Run ledger unavailable", zap.Error(err))
		return
	}
	// A canceled run is still worth recording.
	if err := ledger.Record(context.WithoutCancel(ctx), entry); err != nil {
		l.Warn("Run not recorded", zap.Error(err))
		return
	}
	l.Debug("Recorded run in ledger")
}

// archiveSnapshot uploads the written whitelist. Failures are logged only.
func archiveSnapshot(ctx context.Context, cfg storage.Config, runID string, data []byte, l *zap.Logger) {
	client, err := storage.NewClient(cfg)
	if err != nil {
		l.Warn("Snapshot not archived", zap.Error(err))
		return
	}

	key, err := archive.NewArchiver(client, cfg.Bucket, cfg.Prefix).Upload(ctx, runID, data)
	if err != nil {
		l.Warn("Snapshot not archived", zap.Error(err))
		return
	}
	l.Info("Archived snapshot", zap.String("bucket", cfg.Bucket), zap.String("key", key))
}

// printSyncReport logs the run summary and each action.
func printSyncReport(l *zap.Logger, result *reconcile.Result) {
	s := result.Summary

	for _, a := range result.Actions {
		l.Debug("Action",
			zap.String("type", string(a.Type)),
			zap.String("handle", a.Record.Handle),
			zap.String("identifier", a.Record.Identifier),
			zap.String("reason", a.Reason),
		)
	}

	l.Info("Sync report",
		zap.Bool("dry_run", result.DryRun),
		zap.Int("local_bans", s.LocalBans),
		zap.Int("pending_bans", s.PendingBans),
		zap.Int("untraced_bans", s.UntracedBans),
		zap.Int("whitelist_removed", s.WhitelistRemoved),
		zap.Int("bans_appended", s.BansAppended),
		zap.Int("evicted", s.Evicted),
		zap.Int("requests", s.Requests),
		zap.Int("admitted", s.Admitted),
		zap.Int("deferred", s.Deferred),
		zap.Int("not_found", s.NotFound),
		zap.Int("skipped_banned", s.SkippedBanned),
		zap.Int("skipped_listed", s.SkippedListed),
		zap.Int("snapshot_size", s.SnapshotSize),
	)

	if s.Deferred > 0 {
		l.Warn("Some requests were deferred and will be retried next run", zap.Int("deferred", s.Deferred))
	}
}

// lazyDB connects on first use and remembers the outcome, so the record
// store and the ledger share one connection.
type lazyDB struct {
	cfg  database.Config
	db   *gorm.DB
	err  error
	done bool
}

func (d *lazyDB) get() (*gorm.DB, error) {
	if !d.done {
		d.db, d.err = database.Connect(d.cfg)
		d.done = true
	}
	return d.db, d.err
}
