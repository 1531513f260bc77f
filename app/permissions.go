package app

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/FleetRent-Admin/FleetRent-Admin/internal/auth"
)

func init() { //nolint: gochecknoinits
	permissionsCmd.Flags().StringVarP(&resourceFilter, "resource", "r", "", "Only list the permissions of this resource")

	rootCmd.AddCommand(permissionsCmd)
}

var (
	resourceFilter string

	permissionsCmd = &cobra.Command{
		Use:   "permissions",
		Short: "List the permission catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			perms := auth.AllPermissions()
			if resourceFilter != "" {
				perms = auth.PermissionsForResource(resourceFilter)
			}

			if len(perms) == 0 {
				return fmt.Errorf("%w: unknown resource %q (known: %s)",
					auth.ErrValidation, resourceFilter, strings.Join(auth.AllResources(), ", "))
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0) //nolint:mnd

			_, _ = fmt.Fprintln(w, "CODE\tRESOURCE\tACTION\tDESCRIPTION")
			for _, p := range perms {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Code(), p.Resource(), p.Action(), p.Description())
			}

			return w.Flush()
		},
	}
)
