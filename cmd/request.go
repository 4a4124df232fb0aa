package cmd

import (
	"fmt"

	"whitelist-sync/core/config"
	"whitelist-sync/core/database"
	"whitelist-sync/core/logger"
	"whitelist-sync/feature/dbstore"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// requestCmd queues an access request in the database backend. With the
// spreadsheet backend requests arrive through the linked form instead.
var requestCmd = &cobra.Command{
	Use:   "request <email> <handle>",
	Short: "Queue a whitelist request (database backend)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		l, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer func() { _ = l.Sync() }()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := dbstore.Migrate(db); err != nil {
			return err
		}

		if err := dbstore.NewStore(db).AddRequest(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		l.Info("Request queued; it is processed on the next sync",
			zap.String("email", args[0]),
			zap.String("handle", args[1]),
		)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(requestCmd)
}
