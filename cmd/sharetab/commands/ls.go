package commands

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

func newLsCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ls [PATH]",
		Short: "List the names in a directory",
		Long: `List the names of the entries in a directory of the share, one per line
and sorted. Without PATH the share root is listed.

Use "sharetab scan" for sizes, types, and modification times.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			c, err := o.newClient()
			if err != nil {
				return err
			}
			defer closeClient(c, &err)

			names, err := c.ListDir(cmd.Context(), args...)
			if err != nil {
				return err
			}
			slices.Sort(names)
			for _, name := range names {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
