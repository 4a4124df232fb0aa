package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"whitelist-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "whitelist-sync",
	Short: "Minecraft whitelist synchronizer",
	Long: `whitelist-sync reconciles a Minecraft server's ban list with a shared
remote ban list, whitelist and request queue, then rewrites whitelist.json.
Remote records live in a Google spreadsheet or in SQL tables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := RootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		// Console output with ISO8601 timestamps regardless of configured format
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
