package cmd

import (
	"fmt"

	"whitelist-sync/core/config"
	"whitelist-sync/core/database"
	"whitelist-sync/core/logger"
	"whitelist-sync/core/storage"
	"whitelist-sync/feature/archive"
	"whitelist-sync/feature/history"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	historyLimit     int
	historyRunID     string
	historySnapshots bool
)

// historyCmd shows recorded runs.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent sync runs from the run ledger",
	Long: `Show recent sync runs from the run ledger.

Examples:
  # Last 10 runs
  whitelist-sync history --limit 10

  # Every action of one run
  whitelist-sync history --run 0b7e...

  # Snapshots archived in object storage
  whitelist-sync history --snapshots`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of runs to show")
	historyCmd.Flags().StringVar(&historyRunID, "run", "", "Show the actions of one run")
	historyCmd.Flags().BoolVar(&historySnapshots, "snapshots", false, "List archived whitelist snapshots instead")

	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	if historySnapshots {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
		snaps, err := archive.NewArchiver(client, cfg.Storage.Bucket, cfg.Storage.Prefix).List(ctx)
		if err != nil {
			return err
		}
		for _, s := range snaps {
			l.Info("Snapshot",
				zap.String("key", s.Key),
				zap.Int64("bytes", s.Size),
				zap.Time("modified", s.LastModified),
			)
		}
		l.Info("Archived snapshots", zap.Int("count", len(snaps)))
		return nil
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	ledger := history.NewLedger(db)
	if err := ledger.Migrate(); err != nil {
		return err
	}

	if historyRunID != "" {
		run, err := ledger.Get(ctx, historyRunID)
		if err != nil {
			return err
		}
		logRun(l, *run)
		for _, a := range run.Actions {
			l.Info("Action",
				zap.Int("seq", a.Seq),
				zap.String("type", a.Type),
				zap.String("email", a.Email),
				zap.String("handle", a.Handle),
				zap.String("identifier", a.Identifier),
				zap.String("reason", a.Reason),
			)
		}
		return nil
	}

	runs, err := ledger.List(ctx, historyLimit)
	if err != nil {
		return err
	}
	for _, run := range runs {
		logRun(l, run)
	}
	if len(runs) == 0 {
		l.Info("No runs recorded yet")
	}
	return nil
}

func logRun(l *zap.Logger, run history.Run) {
	fields := []zap.Field{
		zap.String("run_id", run.ID),
		zap.Time("started", run.StartedAt),
		zap.Duration("elapsed", run.Duration()),
		zap.String("backend", run.Backend),
		zap.Bool("dry_run", run.DryRun),
		zap.Int("bans_appended", run.Summary.BansAppended),
		zap.Int("evicted", run.Summary.Evicted),
		zap.Int("admitted", run.Summary.Admitted),
		zap.Int("deferred", run.Summary.Deferred),
		zap.Int("snapshot_size", run.Summary.SnapshotSize),
	}
	if !run.Succeeded {
		l.Warn("Run failed", append(fields, zap.String("error", run.Error))...)
		return
	}
	l.Info("Run", fields...)
}
