// Package commands implements the sharetab CLI.
package commands

import (
	"context"

	"github.com/marmos91/sharetab/internal/logger"
	"github.com/spf13/cobra"
)

// Version information injected at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// skipSetup marks commands that run without loading configuration or
// connecting to a share.
const skipSetup = "sharetab/skip-setup"

// Execute builds the command tree, runs it, and flushes telemetry and
// metrics whatever the outcome.
func Execute(ctx context.Context) error {
	o := &globalOptions{}
	err := newRootCmd(o).ExecuteContext(ctx)
	if terr := o.teardown(context.Background()); terr != nil {
		logger.Warn("Shutdown incomplete", logger.Err(terr))
	}
	return err
}

func newRootCmd(o *globalOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "sharetab",
		Short: "Read and write tabular files on SMB shares",
		Long: `sharetab reads and writes CSV files, Excel workbooks, and legacy
fixed-width record files stored on Windows/SMB file shares.

The share and account come from the configuration file, SHARETAB_*
environment variables, or the connection flags, in increasing order of
precedence. When a username is set without a password, sharetab prompts
for it.

Examples:
  # List a directory
  sharetab ls reports --server fs01 --share Analytics --user svc-reports

  # Re-encode a Latin-1, semicolon separated CSV as UTF-8 with commas
  sharetab cp-csv in/q1.csv out/q1.csv --sep ';' --encoding latin-1 --out-sep ',' --out-encoding utf-8

  # Show the first rows of a workbook as JSON
  sharetab cat reports/stock.xlsx --limit 10 -o json

Use "sharetab [command] --help" for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipSetup] == "true" {
				return nil
			}
			return o.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.configFile, "config", "", "config file (default: $XDG_CONFIG_HOME/sharetab/config.yaml)")
	pf.StringVar(&o.server, "server", "", "file server host name or address")
	pf.StringVar(&o.share, "share", "", "share name")
	pf.IntVar(&o.port, "port", 0, "SMB port (default: 445)")
	pf.StringVarP(&o.username, "user", "u", "", "account name")
	pf.StringVar(&o.domain, "domain", "", "account domain")
	pf.StringVar(&o.encoding, "default-encoding", "", "default text encoding of remote files (default: utf-8)")
	pf.StringVarP(&o.output, "output", "o", "table", "output format (table|json|yaml|csv)")
	pf.BoolVar(&o.noColor, "no-color", false, "disable colored output")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newLsCmd(o),
		newScanCmd(o),
		newCatCmd(o),
		newCpCSVCmd(o),
		newGetCmd(o),
		newPutCmd(o),
		newRecordsCmd(o),
		newConfigCmd(o),
		newVersionCmd(),
	)

	root.CompletionOptions.DisableDefaultCmd = true
	return root
}
