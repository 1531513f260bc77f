// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/FleetRent-Admin/FleetRent-Admin/internal/config"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/logger"
)

var (
	configPath string // Path to the configuration file
	cfg        config.Config

	rootCmd = &cobra.Command{
		Use:   "fleetrent-admin",
		Short: "FleetRent-Admin is the access control service of the FleetRent backend",
		Long: `FleetRent-Admin manages roles, role assignments and permission
decisions for the organizations and agencies of the FleetRent rental platform.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(
		&configPath,
		"config",
		"c",
		config.DefaultPath,
		"Directory holding main.toml",
	)
}

// loadConfig reads the configuration and initializes the logger.
func loadConfig() error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err
	}

	return logger.Init(cfg.Log)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
