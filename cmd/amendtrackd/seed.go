package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fisworks/amendtrack/internal/config"
	"github.com/fisworks/amendtrack/internal/database"
	"github.com/fisworks/amendtrack/internal/seed"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a YAML fixture into the database",
	Long: "Validates the fixture against the seed schema, then writes employees, " +
		"registry applications and sample amendments. Safe to re-run: existing " +
		"rows are skipped.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		path := seedFile
		if path == "" {
			path = cfg.Seed.Path
		}
		if path == "" {
			return fmt.Errorf("no fixture: pass --file or set seed.path in config")
		}

		fixture, err := seed.Load(path)
		if err != nil {
			return err
		}

		db, err := database.Connect()
		if err != nil {
			return err
		}
		defer database.Close()

		if err := database.WaitForDB(db, 30*time.Second); err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		res, err := seed.New(db).Apply(cmd.Context(), fixture)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(),
			"seeded %s: employees %d created / %d skipped, applications %d created / %d skipped, "+
				"amendments %d created / %d skipped, progress %d, links %d\n",
			path,
			res.EmployeesCreated, res.EmployeesSkipped,
			res.ApplicationsCreated, res.ApplicationsSkipped,
			res.AmendmentsCreated, res.AmendmentsSkipped,
			res.ProgressCreated, res.LinksCreated,
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVar(&seedFile, "file", "", "fixture file (defaults to seed.path from config)")
}
