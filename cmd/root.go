package cmd

import (
	"fmt"
	"os"

	"lootdex/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "lootdex",
	Short: "Loot resolution service",
	Long: `Lootdex serves a browsable view over a game-data dump: items, loot
tables, and loot buckets. Its core is the loot resolution engine, which
cross-references an item against every loot source the dump carries,
across the incompatible schema variants of different export passes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Report through the standard structured logger. Console format
		// matches CLI expectations; debug level selects the development
		// encoder with readable timestamps.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
