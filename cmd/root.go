package cmd

import (
	"fmt"
	"os"

	"offer-reconciler/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "offer-reconciler",
	Short: "Casino Offer Reconciliation Service",
	Long: `Offer Reconciler keeps a catalogue of casinos and their promotional offers
up to date. It researches offers in prioritized batches, merges them without
duplicates and ingests newly discovered casinos per state.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console output with ISO8601 timestamps reads better from a terminal
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
