package cmd

import (
	"fmt"

	"offer-reconciler/core/config"
	"offer-reconciler/core/database"
	"offer-reconciler/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var checkOnly bool

// migrateCmd creates or updates the database schema.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Runs the schema migration for states, casinos and offers.
With --check the live schema is only compared and differences are reported.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		l, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer l.Sync()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		if !checkOnly {
			if err := database.Migrate(db); err != nil {
				return err
			}
			l.Info("Schema migrated")
		}

		issues, err := database.CheckSchema(db)
		if err != nil {
			return fmt.Errorf("failed to check schema: %w", err)
		}
		for _, issue := range issues {
			l.Warn("Schema difference", zap.String("table", issue.Table), zap.String("column", issue.Column), zap.String("problem", issue.Problem))
		}
		if len(issues) > 0 {
			return fmt.Errorf("schema is out of date: %d differences", len(issues))
		}

		l.Info("Schema is up to date")
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&checkOnly, "check", false, "Only compare the live schema, do not migrate")
	RootCmd.AddCommand(migrateCmd)
}
