package cmd

import (
	"fmt"

	"offer-reconciler/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check schema, report archive and orphaned records",
	Long: `Runs every integrity check and prints the combined report.
With --fix the schema is migrated, missing report folders are created and
orphaned offers are deprecated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.close()

		svc := integrity.NewService(rt.client, rt.db, rt.integrityOptions(), rt.log)
		report := make(map[string]any)
		failed := 0

		schema, err := svc.CheckSchema()
		if err == nil && fixFlag && !schema.Matched {
			schema, err = svc.FixSchema()
		}
		if err != nil {
			failed++
			report["schema"] = map[string]string{"status": "error", "error": err.Error()}
		} else {
			report["schema"] = schema
		}

		if rt.client == nil {
			report["storage"] = map[string]string{"status": "skipped"}
		} else if missing, err := svc.CheckStorage(ctx); err != nil {
			failed++
			report["storage"] = map[string]string{"status": "error", "error": err.Error()}
		} else {
			if fixFlag && len(missing) > 0 {
				if err := svc.FixStorage(ctx, missing); err != nil {
					return fmt.Errorf("failed to fix report folders: %w", err)
				}
				rt.log.Info("Created report folders", zap.Strings("folders", missing))
				missing = []string{}
			}
			report["storage"] = map[string]any{"status": "ok", "missing": missing}
		}

		orphans, err := svc.CheckOrphans(ctx)
		if err != nil {
			failed++
			report["orphans"] = map[string]string{"status": "error", "error": err.Error()}
		} else {
			if fixFlag && len(orphans.OffersWithoutCasino) > 0 {
				if err := svc.FixOrphans(ctx, orphans); err != nil {
					return fmt.Errorf("failed to deprecate orphaned offers: %w", err)
				}
				rt.log.Info("Deprecated orphaned offers", zap.Int("count", len(orphans.OffersWithoutCasino)))
			}
			report["orphans"] = orphans
		}

		if err := printJSON(cmd.OutOrStdout(), report); err != nil {
			return err
		}
		if failed > 0 {
			return fmt.Errorf("%d integrity checks failed", failed)
		}
		return nil
	},
}

func init() {
	integrityCmd.Flags().BoolVar(&fixFlag, "fix", false, "Repair what can be repaired")
	RootCmd.AddCommand(integrityCmd)
}
