package app

import (
	"github.com/spf13/cobra"

	"github.com/FleetRent-Admin/FleetRent-Admin/internal/daemon"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Migrate the database and create the system roles",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return loadConfig()
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := daemon.OpenDB(&cfg)
		if err != nil {
			return err
		}

		if err = daemon.Migrate(db); err != nil {
			return err
		}

		components, err := daemon.Wire(&cfg, db)
		if err != nil {
			return err
		}

		return daemon.Seed(cmd.Context(), components.Roles)
	},
}
