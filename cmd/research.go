package cmd

import (
	"fmt"

	"offer-reconciler/feature/research"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	researchBatchSize int
	researchTrigger   string
)

// researchCmd is the parent command for research batches.
var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Research casino offers",
}

// researchRunCmd runs one batch. External schedulers invoke it with --trigger=cron.
var researchRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one research batch",
	Long: `Selects the casinos most in need of research, asks the research provider
for their current offers and merges them.

Examples:
  # Default batch size from configuration
  research run

  # Scheduled run
  research run --batch-size 20 --trigger cron`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		trigger, err := research.ParseTrigger(researchTrigger)
		if err != nil {
			return err
		}

		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.close()

		researcher, err := rt.researcher(ctx)
		if err != nil {
			return err
		}

		svc := research.NewService(rt.store, researcher, rt.sink, rt.cfg.Research, rt.log)
		result := svc.Run(ctx, researchBatchSize, trigger)

		if err := printJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
		if !result.Success {
			return fmt.Errorf("research batch failed in phase %s: %s", result.Phase, result.Error)
		}
		return nil
	},
}

// researchCandidatesCmd previews the next batch.
var researchCandidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "List the casinos the next batch would research",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.close()

		svc := research.NewService(rt.store, nil, nil, rt.cfg.Research, rt.log)
		candidates, err := svc.Candidates(ctx, researchBatchSize)
		if err != nil {
			return fmt.Errorf("failed to select candidates: %w", err)
		}

		rt.log.Info("Research candidates", zap.Int("count", len(candidates)))
		return printJSON(cmd.OutOrStdout(), candidates)
	},
}

func init() {
	researchCmd.PersistentFlags().IntVar(&researchBatchSize, "batch-size", 0, "Casinos per batch (0 uses the configured default)")
	researchRunCmd.Flags().StringVar(&researchTrigger, "trigger", "manual", "Who started the run: manual or cron")

	researchCmd.AddCommand(researchRunCmd)
	researchCmd.AddCommand(researchCandidatesCmd)
	RootCmd.AddCommand(researchCmd)
}
