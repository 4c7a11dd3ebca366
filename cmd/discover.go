package cmd

import (
	"fmt"
	"io"
	"os"

	"offer-reconciler/feature/discovery"

	"github.com/spf13/cobra"
)

var (
	discoverState string
	discoverFile  string
)

// discoverCmd ingests a file of discovered casinos.
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Ingest discovered casinos for a state",
	Long: `Reads discovered casinos from a JSON file (or stdin with --file -) and saves
those that do not duplicate a casino already stored for the state.

The file holds either {"casinos": [...]} or a bare array of
{"name", "website", "license_status", "source_url"} objects.

Examples:
  discover --state NJ --file casinos.json
  cat casinos.json | discover --state PA --file -`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var r io.Reader = cmd.InOrStdin()
		if discoverFile != "-" {
			f, err := os.Open(discoverFile)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", discoverFile, err)
			}
			defer f.Close()
			r = f
		}

		req, err := discovery.DecodeRequest(r)
		if err != nil {
			return err
		}

		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.close()

		svc := discovery.NewService(rt.store, rt.sink, rt.cfg.Discovery, rt.log)
		if err := svc.Validate(req); err != nil {
			return fmt.Errorf("invalid discovery file: %w", err)
		}

		result := svc.Reconcile(ctx, discoverState, req.Casinos)
		if err := printJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
		if !result.Success {
			return fmt.Errorf("discovery failed: %s", result.Error)
		}
		return nil
	},
}

func init() {
	discoverCmd.Flags().StringVar(&discoverState, "state", "", "State abbreviation, e.g. NJ")
	discoverCmd.Flags().StringVar(&discoverFile, "file", "-", "JSON file with discovered casinos, - for stdin")
	_ = discoverCmd.MarkFlagRequired("state")

	RootCmd.AddCommand(discoverCmd)
}
