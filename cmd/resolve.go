package cmd

import (
	"errors"
	"fmt"

	"whitelist-sync/core/config"
	"whitelist-sync/core/logger"
	"whitelist-sync/core/reconcile"
	"whitelist-sync/feature/mojang"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// resolveCmd looks up account identifiers without running a sync.
var resolveCmd = &cobra.Command{
	Use:   "resolve <handle> [handle...]",
	Short: "Look up the account UUID of one or more player handles",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		resolver := mojang.NewResolver(cfg.Resolver)

		var failed int
		for _, handle := range args {
			profile, err := resolver.Lookup(ctx, handle)
			switch {
			case err == nil:
				l.Info("Resolved",
					zap.String("handle", profile.Name),
					zap.String("uuid", reconcile.NormalizeIdentifier(profile.ID)),
				)
			case errors.Is(err, reconcile.ErrNotFound):
				l.Warn("No such player", zap.String("handle", handle))
			default:
				failed++
				l.Error("Lookup failed", zap.String("handle", handle), zap.Error(err))
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d lookups failed", failed, len(args))
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(resolveCmd)
}
