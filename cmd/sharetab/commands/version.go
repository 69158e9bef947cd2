package commands

import (
	"runtime"

	"github.com/marmos91/sharetab/internal/cli/output"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSetup: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return output.SimpleTable(cmd.OutOrStdout(), [][2]string{
				{"Version", Version},
				{"Commit", Commit},
				{"Built", Date},
				{"Go", runtime.Version()},
				{"Platform", runtime.GOOS + "/" + runtime.GOARCH},
			})
		},
	}
}
