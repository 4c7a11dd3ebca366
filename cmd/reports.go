package cmd

import (
	"errors"
	"fmt"
	"time"

	"offer-reconciler/core/audit"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var retentionDays int

// reportsCmd is the parent command for archived run reports.
var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Manage archived run reports",
}

// reportsPruneCmd deletes reports past their retention.
var reportsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete run reports older than the retention period",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.close()

		days := retentionDays
		if days <= 0 {
			days = rt.cfg.Audit.RetentionDays
		}
		if days <= 0 {
			return errors.New("retention must be at least one day")
		}
		before := time.Now().UTC().AddDate(0, 0, -days)

		total := 0
		for _, kind := range []string{audit.KindResearch, audit.KindDiscovery} {
			n, err := rt.sink.Prune(ctx, kind, before)
			total += n
			if err != nil {
				return fmt.Errorf("failed to prune %s reports: %w", kind, err)
			}
		}

		rt.log.Info("Reports pruned", zap.Int("removed", total), zap.Int("retention_days", days))
		return nil
	},
}

func init() {
	reportsPruneCmd.Flags().IntVar(&retentionDays, "days", 0, "Retention in days (0 uses the configured default)")

	reportsCmd.AddCommand(reportsPruneCmd)
	RootCmd.AddCommand(reportsCmd)
}
