package app

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/FleetRent-Admin/FleetRent-Admin/internal/web/middleware/auth"
)

func init() { //nolint: gochecknoinits
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "Lifetime of the token")

	rootCmd.AddCommand(tokenCmd)
}

var (
	tokenTTL time.Duration

	tokenCmd = &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue an api bearer token for a user",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return loadConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id %q: %w", args[0], err)
			}

			token, err := auth.NewVerifier(cfg.Auth).Issue(userID, tokenTTL)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)

			return err
		},
	}
)
